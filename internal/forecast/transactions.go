package forecast

import (
	"fmt"

	"saldo/internal/core"
)

// scheduledDates records, per category, the set of ledger dates that carry a
// scheduled transaction. The goal projector uses it to find the months that
// need reconciliation without rescanning the whole ledger per category.
type scheduledDates map[string]map[string]struct{}

// mergeScheduled injects scheduled transactions into the ledger, sign
// preserved and amount converted to major units. Transactions dated outside
// the initialized horizon are dropped without a trace; malformed dates are
// fatal.
func (l *ledger) mergeScheduled(txns []core.ScheduledTransaction) (scheduledDates, error) {
	index := make(scheduledDates)
	for _, txn := range txns {
		day, err := core.ParseDate(txn.DateNext)
		if err != nil {
			return nil, fmt.Errorf("scheduled transaction date %q: %w", txn.DateNext, core.ErrInvalidDate)
		}

		date := day.Format(core.DateLayout)
		ok := l.append(date, Change{
			Reason:   ReasonScheduled,
			Amount:   core.FromMilliunits(txn.Amount),
			Category: txn.CategoryName,
			Account:  txn.AccountName,
			Payee:    txn.PayeeName,
			Memo:     txn.Memo,
		})
		if !ok {
			continue
		}

		if index[txn.CategoryName] == nil {
			index[txn.CategoryName] = make(map[string]struct{})
		}
		index[txn.CategoryName][date] = struct{}{}
	}
	return index, nil
}
