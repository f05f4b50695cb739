// Package forecast projects a budget's future daily cash balance. It merges
// scheduled transactions, goal-driven recurring spending, and hypothetical
// simulations into a single per-day ledger and computes a running balance
// with full attribution of every change.
package forecast

import (
	"bytes"
	"encoding/json"
	"time"

	"saldo/internal/core"
)

// DefaultDaysAhead is the horizon used when a caller of the direct entry
// point does not specify one.
const DefaultDaysAhead = 30

// Input is everything one projection run consumes. A run is a pure function
// of its input; Now is read once and reused throughout so a run can never
// straddle a day boundary. A zero Now means the current wall clock.
type Input struct {
	Accounts    []core.Account
	Categories  []core.Category
	Scheduled   []core.ScheduledTransaction
	Simulations []core.Simulation
	DaysAhead   int
	Now         time.Time
}

// Result is the projected calendar: only days that carry at least one
// change, in ascending date order.
type Result []Day

// Project runs one projection. The ledger is built eagerly for every day in
// the horizon, scheduled transactions are merged first so goal projection
// can reconcile against them, simulations go in last, and a single forward
// pass computes the running balance.
func Project(in Input) (Result, error) {
	if in.DaysAhead < 0 {
		return nil, core.ErrInvalidDaysAhead
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	l := newLedger(today, core.SumBalances(in.Accounts), in.DaysAhead)

	sched, err := l.mergeScheduled(in.Scheduled)
	if err != nil {
		return nil, err
	}
	if err := l.projectGoals(in.Categories, sched, in.DaysAhead); err != nil {
		return nil, err
	}
	if err := l.injectSimulations(in.Simulations); err != nil {
		return nil, err
	}
	l.accumulate()

	return l.result(), nil
}

// Day returns the entry for the given date, if present.
func (r Result) Day(date string) (Day, bool) {
	for _, d := range r {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}

// MarshalJSON renders the result as a JSON object keyed by ISO date, keys in
// ascending order. Upstream consumers rely on the calendar being an ordered
// date→day mapping.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(day.Date)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(day)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
