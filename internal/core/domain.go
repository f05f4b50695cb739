package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// GoalNeed is the only goal type that drives balance projection.
	// Savings and debt goal types are carried through unchanged but ignored.
	GoalNeed GoalType = "NEED"

	// Cadence codes as delivered by the upstream budgeting API.
	CadenceMonthly   = 1
	CadenceQuarterly = 3
	CadenceYearly    = 13
)

type (
	GoalType string

	// Account is a cash account as reported upstream. Balances are in
	// milliunits (1/1000 of the currency unit).
	Account struct {
		Name    string
		Balance int64
	}

	// Goal describes a category funding target. All optional fields use
	// their zero value for "absent": Day 0 means month-end, an empty
	// TargetMonth means the goal recurs unconditionally, Frequency 0 means
	// no cadence interval is computed, OverallLeft 0 means nothing left.
	Goal struct {
		Type        GoalType
		Target      int64  // milliunits
		OverallLeft int64  // milliunits
		TargetMonth string // "YYYY-MM-DD", first of month
		Cadence     int
		Frequency   int
		Day         int // 1-31
	}

	// Category is a budget category with its current available balance and
	// optional funding goal.
	Category struct {
		Name    string
		Balance int64 // milliunits
		Goal    *Goal
	}

	// ScheduledTransaction is a transaction already committed to occur on a
	// known future date.
	ScheduledTransaction struct {
		DateNext     string // "YYYY-MM-DD"
		Amount       int64  // milliunits, sign preserved
		CategoryName string
		AccountName  string
		PayeeName    string
		Memo         string
	}

	// Simulation is a caller-supplied hypothetical transaction. Amount is a
	// decimal string in major units and is never milliunit-scaled.
	Simulation struct {
		Date     string // "YYYY-MM-DD"
		Amount   string
		Reason   string
		Category string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category name")
	ErrInvalidDaysAhead = errors.New("days ahead cannot be negative")
)

// DateLayout is the wire format for all dates in the system.
const DateLayout = "2006-01-02"

// ParseDate parses a wire date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// NeedsProjection reports whether the category carries a NEED goal.
func (c Category) NeedsProjection() bool {
	return c.Goal != nil && c.Goal.Type == GoalNeed
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (t ScheduledTransaction) Validate() error {
	if _, err := ParseDate(t.DateNext); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (s Simulation) Validate() error {
	if _, err := ParseDate(s.Date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(s.Amount) == "" {
		return ErrInvalidAmount
	}
	return nil
}
