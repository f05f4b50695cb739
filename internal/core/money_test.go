package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromMilliunits(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"whole units", 500000, "500"},
		{"fractional", 12345, "12.345"},
		{"negative", -12340, "-12.34"},
		{"zero", 0, "0"},
		{"single milliunit", 1, "0.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromMilliunits(tt.in)
			want, err := decimal.NewFromString(tt.want)
			if err != nil {
				t.Fatalf("bad want value %q: %v", tt.want, err)
			}
			if !got.Equal(want) {
				t.Errorf("FromMilliunits(%d) = %s, want %s", tt.in, got, want)
			}
		})
	}
}

func TestSumBalances(t *testing.T) {
	accounts := []Account{
		{Name: "Checking", Balance: 500000},
		{Name: "Savings", Balance: 1250500},
		{Name: "Credit Card", Balance: -300000},
	}

	got := SumBalances(accounts)
	if want := decimal.NewFromFloat(1450.5); !got.Equal(want) {
		t.Errorf("SumBalances() = %s, want %s", got, want)
	}

	if !SumBalances(nil).IsZero() {
		t.Error("SumBalances(nil) should be zero")
	}
}

func TestCategoryNeedsProjection(t *testing.T) {
	tests := []struct {
		name string
		cat  Category
		want bool
	}{
		{"no goal", Category{Name: "Groceries"}, false},
		{"need goal", Category{Name: "Rent", Goal: &Goal{Type: GoalNeed}}, true},
		{"savings goal", Category{Name: "Vacation", Goal: &Goal{Type: "TB"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cat.NeedsProjection(); got != tt.want {
				t.Errorf("NeedsProjection() = %v, want %v", got, tt.want)
			}
		})
	}
}
