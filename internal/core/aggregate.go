package core

import (
	"github.com/shopspring/decimal"
)

// AggregateBudget sums planned amounts by (category, direction) over the
// requested months. Duplicate rows for the same flow are summed, never
// dropped: hand-edited sheets list the same category more than once.
// Annual "ALL" rows count once and only when the period spans the full year.
// Opening-balance rows are excluded unless the period includes January.
func AggregateBudget(rows []BudgetRow, months MonthSet) map[FlowKey]decimal.Decimal {
	includeJan := months.Contains("Jan")
	fullYear := len(months) == 12
	out := make(map[FlowKey]decimal.Decimal)
	for _, row := range rows {
		if row.Month == MonthAll {
			if !fullYear {
				continue
			}
		} else if !months.Contains(row.Month) {
			continue
		}
		if !includeJan && row.Category == OpeningBalanceCategory {
			continue
		}
		key := FlowKey{Category: row.Category, Direction: row.Direction}
		out[key] = out[key].Add(row.Planned)
	}
	return out
}

// AggregateActual sums ledger amounts by (category, direction) for the
// transactions falling in the given year and months. The same
// opening-balance exclusion as AggregateBudget applies.
func AggregateActual(txs []Transaction, year int, months MonthSet) map[FlowKey]decimal.Decimal {
	includeJan := months.Contains("Jan")
	out := make(map[FlowKey]decimal.Decimal)
	for _, tx := range txs {
		if tx.Date.Year() != year {
			continue
		}
		if !months.Contains(Months[int(tx.Date.Month())-1]) {
			continue
		}
		if !includeJan && tx.Category == OpeningBalanceCategory {
			continue
		}
		key := FlowKey{Category: tx.Category, Direction: tx.Direction}
		out[key] = out[key].Add(tx.Amount)
	}
	return out
}
