package forecast

import (
	"testing"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

func needCategory(name string, balance int64, goal core.Goal) core.Category {
	goal.Type = core.GoalNeed
	return core.Category{Name: name, Balance: balance, Goal: &goal}
}

func TestProjectGoal_NoTargetMonth(t *testing.T) {
	r, err := Project(Input{
		Categories: []core.Category{
			needCategory("Groceries", 0, core.Goal{Target: 100000, Day: 15}),
		},
		DaysAhead: 65,
		Now:       testNow, // 2026-08-15
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	// Current month has no positive balance, so no spending there; every
	// following month gets the full target on the goal day.
	if got := changesFor(r, "Groceries"); len(got) != 2 {
		t.Fatalf("got %d changes, want 2: %+v", len(got), got)
	}
	for _, date := range []string{"2026-09-15", "2026-10-15"} {
		day := mustDay(t, r, date)
		c := day.Changes[0]
		if c.Reason != ReasonFutureMonthTarget {
			t.Errorf("%s reason = %q, want %q", date, c.Reason, ReasonFutureMonthTarget)
		}
		if !c.Amount.Equal(decimal.NewFromInt(-100)) {
			t.Errorf("%s amount = %s, want -100", date, c.Amount)
		}
	}
}

func TestProjectGoal_CurrentMonthBalance(t *testing.T) {
	r, err := Project(Input{
		Categories: []core.Category{
			needCategory("Groceries", 50000, core.Goal{Target: 100000, Day: 15}),
		},
		DaysAhead: 30,
		Now:       testNow,
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	c := mustDay(t, r, "2026-08-15").Changes[1] // after the seed change
	if c.Reason != ReasonCurrentMonthBalance {
		t.Errorf("reason = %q, want %q", c.Reason, ReasonCurrentMonthBalance)
	}
	if !c.Amount.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("amount = %s, want -50 (current balance, not target)", c.Amount)
	}
}

func TestProjectGoal_ScheduledOffset(t *testing.T) {
	tests := []struct {
		name      string
		scheduled int64 // milliunits, September, category Groceries
		wantDiff  string
		wantNone  bool
	}{
		{"partial coverage", -40000, "-60", false},
		{"full coverage", -100000, "", true},
		{"over coverage", -120000, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Project(Input{
				Categories: []core.Category{
					needCategory("Groceries", 0, core.Goal{Target: 100000, Day: 15}),
				},
				Scheduled: []core.ScheduledTransaction{
					{DateNext: "2026-09-10", Amount: tt.scheduled, CategoryName: "Groceries"},
				},
				DaysAhead: 40,
				Now:       testNow,
			})
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}

			day := mustDay(t, r, "2026-09-15")
			var projected []Change
			for _, c := range day.Changes {
				if c.Reason == ReasonFutureMonthTarget {
					projected = append(projected, c)
				}
			}

			if tt.wantNone {
				if len(projected) != 0 {
					t.Fatalf("scheduled spending covers the target, got projection %+v", projected)
				}
				return
			}
			if len(projected) != 1 {
				t.Fatalf("got %d projected changes, want 1", len(projected))
			}
			if !projected[0].Amount.Equal(decimal.RequireFromString(tt.wantDiff)) {
				t.Errorf("amount = %s, want %s", projected[0].Amount, tt.wantDiff)
			}
		})
	}
}

func TestProjectGoal_DayClampedToMonthEnd(t *testing.T) {
	r, err := Project(Input{
		Categories: []core.Category{
			needCategory("Rent", 0, core.Goal{Target: 900000, Day: 31}),
		},
		DaysAhead: 50, // covers September, a 30-day month
		Now:       testNow,
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	if _, ok := r.Day("2026-09-31"); ok {
		t.Fatal("impossible date 2026-09-31 present in result")
	}
	day := mustDay(t, r, "2026-09-30")
	if !day.Changes[0].Amount.Equal(decimal.NewFromInt(-900)) {
		t.Errorf("clamped-day amount = %s, want -900", day.Changes[0].Amount)
	}
}

func TestProjectGoal_TargetMonthIsCurrentMonth(t *testing.T) {
	// Spec'd scenario: goal due this month with a remaining overall amount
	// and a zero category balance still projects on the goal day.
	r, err := Project(Input{
		Categories: []core.Category{
			needCategory("Insurance", 0, core.Goal{
				Target:      100000,
				OverallLeft: 100000,
				TargetMonth: "2026-08-01",
				Cadence:     core.CadenceMonthly,
				Frequency:   1,
				Day:         15,
			}),
		},
		DaysAhead: 30,
		Now:       testNow,
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	day := mustDay(t, r, "2026-08-15")
	var hit *Change
	for i := range day.Changes {
		if day.Changes[i].Category == "Insurance" {
			hit = &day.Changes[i]
		}
	}
	if hit == nil {
		t.Fatal("no change for Insurance on the goal day")
	}
	if hit.Reason != ReasonGoalTargetRemaining {
		t.Errorf("reason = %q, want %q", hit.Reason, ReasonGoalTargetRemaining)
	}
	if !hit.Amount.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("amount = %s, want -100", hit.Amount)
	}
}

func TestProjectGoal_RecurringAfterTargetMonth(t *testing.T) {
	tests := []struct {
		name       string
		cadence    int
		frequency  int
		wantDates  []string
		wantReason string
	}{
		{
			name:       "quarterly every 1 from June",
			cadence:    core.CadenceQuarterly,
			frequency:  1,
			wantDates:  []string{"2026-09-15"}, // 3 months past June; Aug and Oct off-interval
			wantReason: "Recurring Spending (Quarterly every 1)",
		},
		{
			name:       "monthly every 2 from June",
			cadence:    core.CadenceMonthly,
			frequency:  2,
			wantDates:  []string{"2026-08-15", "2026-10-15"},
			wantReason: "Recurring Spending (Monthly every 2)",
		},
		{
			name:       "unknown cadence code falls back to monthly",
			cadence:    42,
			frequency:  2,
			wantDates:  []string{"2026-08-15", "2026-10-15"},
			wantReason: "Recurring Spending (Monthly every 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Project(Input{
				Categories: []core.Category{
					needCategory("Water", 0, core.Goal{
						Target:      100000,
						TargetMonth: "2026-06-01",
						Cadence:     tt.cadence,
						Frequency:   tt.frequency,
						Day:         15,
					}),
				},
				DaysAhead: 90,
				Now:       testNow,
			})
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}

			got := changesFor(r, "Water")
			if len(got) != len(tt.wantDates) {
				t.Fatalf("got %d changes, want %d: %+v", len(got), len(tt.wantDates), got)
			}
			for _, date := range tt.wantDates {
				day := mustDay(t, r, date)
				var c *Change
				for i := range day.Changes {
					if day.Changes[i].Category == "Water" {
						c = &day.Changes[i]
					}
				}
				if c == nil {
					t.Fatalf("no change for Water on %s", date)
				}
				if c.Reason != tt.wantReason {
					t.Errorf("%s reason = %q, want %q", date, c.Reason, tt.wantReason)
				}
				if !c.Amount.Equal(decimal.NewFromInt(-100)) {
					t.Errorf("%s amount = %s, want -100", date, c.Amount)
				}
			}
		})
	}
}

func TestProjectGoal_NoFrequencyNoRecurrence(t *testing.T) {
	// Without a cadence frequency no interval exists, so months past the
	// target month never project.
	r, err := Project(Input{
		Categories: []core.Category{
			needCategory("Tuition", 0, core.Goal{
				Target:      500000,
				TargetMonth: "2026-06-01",
				Cadence:     core.CadenceMonthly,
				Day:         15,
			}),
		},
		DaysAhead: 90,
		Now:       testNow,
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	if got := changesFor(r, "Tuition"); len(got) != 0 {
		t.Errorf("expected no changes without a frequency, got %+v", got)
	}
}

func TestProjectGoal_YearlyCadence(t *testing.T) {
	tests := []struct {
		name        string
		overallLeft int64
		scheduled   []core.ScheduledTransaction
		wantAmount  string
		wantNone    bool
	}{
		{"overall left drives amount", 250000, nil, "-250", false},
		{"falls back to target", 0, nil, "-1200", false},
		{
			name:        "scheduled spending absorbs it",
			overallLeft: 250000,
			scheduled: []core.ScheduledTransaction{
				{DateNext: "2026-09-05", Amount: -250000, CategoryName: "Car Tax"},
			},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Project(Input{
				Categories: []core.Category{
					needCategory("Car Tax", 0, core.Goal{
						Target:      1200000,
						OverallLeft: tt.overallLeft,
						TargetMonth: "2026-09-01",
						Cadence:     core.CadenceYearly,
						Frequency:   1,
						Day:         1,
					}),
				},
				Scheduled: tt.scheduled,
				DaysAhead: 90, // walks August through November
				Now:       testNow,
			})
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}

			var projected []Change
			for _, c := range changesFor(r, "Car Tax") {
				if c.Reason == ReasonYearlyPayment {
					projected = append(projected, c)
				}
			}

			if tt.wantNone {
				if len(projected) != 0 {
					t.Fatalf("expected no yearly payment, got %+v", projected)
				}
				return
			}
			if len(projected) != 1 {
				t.Fatalf("got %d yearly payments, want exactly 1: %+v", len(projected), projected)
			}
			day := mustDay(t, r, "2026-09-01")
			found := false
			for _, c := range day.Changes {
				if c.Reason == ReasonYearlyPayment {
					found = true
					if !c.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
						t.Errorf("amount = %s, want %s", c.Amount, tt.wantAmount)
					}
				}
			}
			if !found {
				t.Error("yearly payment not on the target month's goal day")
			}
		})
	}
}

func TestProjectGoal_NonNeedGoalsIgnored(t *testing.T) {
	r, err := Project(Input{
		Categories: []core.Category{
			{Name: "Vacation", Balance: 20000, Goal: &core.Goal{Type: "TB", Target: 100000, Day: 1}},
			{Name: "NoGoal", Balance: 30000},
		},
		DaysAhead: 60,
		Now:       testNow,
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	if got := changesFor(r, "Vacation"); len(got) != 0 {
		t.Errorf("non-NEED goal projected: %+v", got)
	}
	if got := changesFor(r, "NoGoal"); len(got) != 0 {
		t.Errorf("goal-less category projected: %+v", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same month", "2026-06-01", "2026-06-15", 0},
		{"next month", "2026-06-01", "2026-07-01", 1},
		{"across year end", "2026-12-01", "2027-03-01", 3},
		{"backwards", "2026-06-01", "2026-04-01", -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := core.ParseDate(tt.a)
			b, _ := core.ParseDate(tt.b)
			if got := monthsBetween(a, b); got != tt.want {
				t.Errorf("monthsBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCadenceFor(t *testing.T) {
	tests := []struct {
		code       int
		wantLabel  string
		wantMonths int
	}{
		{core.CadenceMonthly, "Monthly", 1},
		{core.CadenceQuarterly, "Quarterly", 3},
		{core.CadenceYearly, "Yearly", 12},
		{0, "Monthly", 1},
		{99, "Monthly", 1},
	}

	for _, tt := range tests {
		got := cadenceFor(tt.code)
		if got.Label != tt.wantLabel || got.Months != tt.wantMonths {
			t.Errorf("cadenceFor(%d) = %+v, want {%s %d}", tt.code, got, tt.wantLabel, tt.wantMonths)
		}
	}
}
