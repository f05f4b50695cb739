package forecast

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

// monthKey identifies a calendar month. Keyed by year and month rather than
// a date so day-of-month differences can never split one month in two.
type monthKey struct {
	year  int
	month time.Month
}

// projectGoals runs an independent projection for every category that
// carries a NEED goal.
func (l *ledger) projectGoals(categories []core.Category, sched scheduledDates, daysAhead int) error {
	for _, cat := range categories {
		if !cat.NeedsProjection() {
			continue
		}
		if err := l.projectGoal(cat, sched[cat.Name], daysAhead); err != nil {
			return err
		}
	}
	return nil
}

// projectGoal walks successive calendar months within the horizon and
// decides, per month, whether the category's goal produces a spending event
// and for how much. Amounts already covered by scheduled transactions in a
// month are subtracted so the same obligation is never counted twice.
//
// Branches, in priority order:
//  1. yearly cadence: spends only in the calendar month of the goal's
//     target month, at or past it, once per qualifying year
//  2. current month: a positive category balance is spent as-is, ignoring
//     target and cadence
//  3. explicit target month: the remaining overall amount on the target
//     month itself, then the target amount on each cadence interval after it
//  4. no target month: the target amount every future month
func (l *ledger) projectGoal(cat core.Category, dates map[string]struct{}, daysAhead int) error {
	goal := cat.Goal
	target := core.FromMilliunits(goal.Target)
	balance := core.FromMilliunits(cat.Balance)
	overallLeft := core.FromMilliunits(goal.OverallLeft)

	var targetMonth time.Time
	hasTargetMonth := goal.TargetMonth != ""
	if hasTargetMonth {
		parsed, err := core.ParseDate(goal.TargetMonth)
		if err != nil {
			return fmt.Errorf("goal target month for %q: %w", cat.Name, core.ErrInvalidDate)
		}
		targetMonth = parsed
	}

	// The effective interval exists only when upstream supplies a cadence
	// frequency; without it, only the target-month and current-month
	// branches can fire.
	interval := 0
	var cad cadence
	if goal.Frequency > 0 {
		cad = cadenceFor(goal.Cadence)
		interval = cad.Months * goal.Frequency
	}

	months := (daysAhead+29)/30 + 1
	applied := make(map[monthKey]struct{}, months)

	for offset := 0; offset < months; offset++ {
		first := time.Date(l.today.Year(), l.today.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		key := monthKey{first.Year(), first.Month()}
		if _, done := applied[key]; done {
			continue
		}

		daysInMonth := lastDayOfMonth(first)
		spendDay := daysInMonth
		if goal.Day >= 1 && goal.Day <= daysInMonth {
			spendDay = goal.Day
		}
		spendDate := time.Date(first.Year(), first.Month(), spendDay, 0, 0, 0, 0, time.UTC)
		date := spendDate.Format(core.DateLayout)

		currentMonth := key == (monthKey{l.today.Year(), l.today.Month()})
		offsetAmount := l.scheduledOffset(cat.Name, key, dates)

		// Yearly cadence never falls through to interval arithmetic.
		if goal.Cadence == core.CadenceYearly {
			if hasTargetMonth && !spendDate.Before(targetMonth) &&
				spendDate.Month() == targetMonth.Month() && spendDate.Year() >= targetMonth.Year() {
				remaining := target
				if overallLeft.IsPositive() {
					remaining = overallLeft
				}
				remaining = remaining.Sub(offsetAmount)
				if remaining.IsPositive() {
					l.append(date, expense(cat.Name, remaining, ReasonYearlyPayment))
				}
				applied[key] = struct{}{}
			}
			continue
		}

		if currentMonth && balance.IsPositive() {
			l.append(date, expense(cat.Name, balance, ReasonCurrentMonthBalance))
			continue
		}

		if hasTargetMonth {
			monthsSince := monthsBetween(targetMonth, first)
			switch {
			case monthsSince == 0:
				if overallLeft.IsPositive() {
					if remaining := overallLeft.Sub(offsetAmount); remaining.IsPositive() {
						l.append(date, expense(cat.Name, remaining, ReasonGoalTargetRemaining))
					}
				}
				applied[key] = struct{}{}
			case monthsSince > 0 && interval > 0:
				if monthsSince%interval == 0 {
					if remaining := target.Sub(offsetAmount); remaining.IsPositive() {
						reason := fmt.Sprintf("Recurring Spending (%s every %d)", cad.Label, goal.Frequency)
						l.append(date, expense(cat.Name, remaining, reason))
					}
					applied[key] = struct{}{}
				}
			}
			continue
		}

		if !currentMonth {
			if remaining := target.Sub(offsetAmount); remaining.IsPositive() {
				l.append(date, expense(cat.Name, remaining, ReasonFutureMonthTarget))
			}
		}
	}
	return nil
}

// scheduledOffset sums the absolute value of every scheduled-transaction
// change for the category within the given month. The dates set narrows the
// scan to the days that actually carry scheduled spending.
func (l *ledger) scheduledOffset(category string, key monthKey, dates map[string]struct{}) decimal.Decimal {
	total := decimal.Zero
	prefix := fmt.Sprintf("%04d-%02d-", key.year, key.month)
	for date := range dates {
		if len(date) < len(prefix) || date[:len(prefix)] != prefix {
			continue
		}
		entry, ok := l.days[date]
		if !ok {
			continue
		}
		for _, c := range entry.Changes {
			if c.Reason == ReasonScheduled && c.Category == category {
				total = total.Add(c.Amount.Abs())
			}
		}
	}
	return total
}

// expense builds a negative (outflow) change for a projected spending event.
func expense(category string, amount decimal.Decimal, reason string) Change {
	return Change{
		Reason:   reason,
		Amount:   amount.Neg(),
		Category: category,
	}
}

// lastDayOfMonth returns the number of days in t's month.
func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthsBetween counts whole calendar months from a to b, negative when b
// precedes a. Days of month are ignored.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
