package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Reconcile outer-joins the budget and actual maps into one row per flow.
// No key from either side is dropped; the missing side defaults to zero.
// Variance is direction-dependent: expenses count under-spend as positive,
// incomes count over-plan as positive.
//
// When the period includes January and no opening-balance transaction has
// been logged yet (actual exactly zero), the budgeted opening balance is
// assumed realized so year-start totals are not artificially zero.
func Reconcile(budget, actual map[FlowKey]decimal.Decimal, includesJanuary bool) []ReconciliationRow {
	keys := make(map[FlowKey]struct{}, len(budget)+len(actual))
	for k := range budget {
		keys[k] = struct{}{}
	}
	for k := range actual {
		keys[k] = struct{}{}
	}

	rows := make([]ReconciliationRow, 0, len(keys))
	for key := range keys {
		planned := budget[key]
		real := actual[key]
		if includesJanuary && key.Category == OpeningBalanceCategory && real.IsZero() {
			real = planned
		}
		row := ReconciliationRow{
			Category:  key.Category,
			Direction: key.Direction,
			Planned:   planned,
			Actual:    real,
		}
		if key.Direction == Expense {
			row.Variance = planned.Sub(real)
		} else {
			row.Variance = real.Sub(planned)
		}
		rows = append(rows, row)
	}

	// Expenses first, then incomes, each sorted by category. Ordering is a
	// courtesy for the API surface, not an engine contract.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Direction != rows[j].Direction {
			return rows[i].Direction == Expense
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
