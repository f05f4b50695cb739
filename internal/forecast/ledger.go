package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

// Change reasons emitted by the engine. The strings are part of the wire
// contract and are also matched by the goal projector when reconciling
// scheduled spending against projected spending.
const (
	ReasonInitialBalance      = "Initial Balance"
	ReasonScheduled           = "Scheduled Transaction"
	ReasonCurrentMonthBalance = "Current Month Balance"
	ReasonYearlyPayment       = "Yearly Payment"
	ReasonGoalTargetRemaining = "Remaining Spending (Goal Target)"
	ReasonFutureMonthTarget   = "Future Month Target"
	ReasonSimulation          = "Simulation"

	categoryStartingBalance = "Starting Balance"
	categoryMiscellaneous   = "Miscellaneous"
)

// Change is a single attributed balance movement on a day. Positive amounts
// are inflows, negative are outflows. Changes are append-only within a run.
type Change struct {
	Reason     string          `json:"reason"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Account    string          `json:"account,omitempty"`
	Payee      string          `json:"payee,omitempty"`
	Memo       string          `json:"memo,omitempty"`
	Simulation bool            `json:"is_simulation,omitempty"`
}

// Day is one ledger entry. Balance and BalanceDiff stay zero until the
// accumulator pass; days created for out-of-horizon simulations never get
// a running balance.
type Day struct {
	Date        string          `json:"-"`
	Balance     decimal.Decimal `json:"balance"`
	BalanceDiff decimal.Decimal `json:"balance_diff"`
	Changes     []Change        `json:"changes"`
}

// ledger is the date-indexed working state of one projection run. It holds
// exactly one entry per date in [today, today+horizon] plus any extra days
// created by simulations dated outside that range.
type ledger struct {
	today   time.Time // midnight UTC, captured once per run
	horizon int
	days    map[string]*Day
}

func newLedger(today time.Time, initialBalance decimal.Decimal, daysAhead int) *ledger {
	l := &ledger{
		today:   today,
		horizon: daysAhead,
		days:    make(map[string]*Day, daysAhead+1),
	}

	seed := today.Format(core.DateLayout)
	l.days[seed] = &Day{
		Date: seed,
		Changes: []Change{{
			Reason:   ReasonInitialBalance,
			Amount:   initialBalance,
			Category: categoryStartingBalance,
		}},
	}

	for day := 1; day <= daysAhead; day++ {
		date := today.AddDate(0, 0, day).Format(core.DateLayout)
		l.days[date] = &Day{Date: date}
	}
	return l
}

// append adds a change to an existing ledger day and reports whether the
// date was part of the ledger. Dates outside the initialized range are
// ignored, matching the silent-drop contract for out-of-horizon spending.
func (l *ledger) append(date string, c Change) bool {
	entry, ok := l.days[date]
	if !ok {
		return false
	}
	entry.Changes = append(entry.Changes, c)
	return true
}

// injectSimulations merges hypothetical transactions into the ledger,
// creating new days as needed. Simulation amounts are already in major
// units; they are parsed, never milliunit-scaled.
func (l *ledger) injectSimulations(sims []core.Simulation) error {
	for _, sim := range sims {
		day, err := core.ParseDate(sim.Date)
		if err != nil {
			return fmt.Errorf("simulation date %q: %w", sim.Date, core.ErrInvalidDate)
		}
		amount, err := decimal.NewFromString(sim.Amount)
		if err != nil {
			return fmt.Errorf("simulation amount %q: %w", sim.Amount, core.ErrInvalidAmount)
		}

		reason := sim.Reason
		if reason == "" {
			reason = ReasonSimulation
		}
		category := sim.Category
		if category == "" {
			category = categoryMiscellaneous
		}

		change := Change{
			Reason:     reason,
			Amount:     amount,
			Category:   category,
			Simulation: true,
		}

		date := day.Format(core.DateLayout)
		if !l.append(date, change) {
			l.days[date] = &Day{Date: date, Changes: []Change{change}}
		}
	}
	return nil
}

// accumulate performs the single chronological pass that turns per-day
// changes into a running balance. Only horizon days participate; days that
// exist solely for out-of-horizon simulations keep a zero balance. Must run
// after every other component has finished appending changes.
func (l *ledger) accumulate() {
	running := decimal.Zero
	for day := 0; day <= l.horizon; day++ {
		entry := l.days[l.today.AddDate(0, 0, day).Format(core.DateLayout)]

		diff := decimal.Zero
		for _, c := range entry.Changes {
			diff = diff.Add(c.Amount)
		}
		entry.BalanceDiff = diff
		running = running.Add(diff)
		entry.Balance = running
	}
}

// result drops days without changes and returns the rest in ascending date
// order.
func (l *ledger) result() Result {
	out := make(Result, 0, len(l.days))
	for _, entry := range l.days {
		if len(entry.Changes) == 0 {
			continue
		}
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
