package core

import "github.com/shopspring/decimal"

// KPIs holds the summary ratios derived from the annual reconciliation.
// Operating income and expense exclude the opening balance. Every ratio is
// guarded against a zero or non-positive denominator and reports zero there.
type KPIs struct {
	SavingsEfficiency    decimal.Decimal `json:"savings_efficiency"`
	Growth               decimal.Decimal `json:"growth"`
	TargetAttainment     decimal.Decimal `json:"target_attainment"`
	ReturnOnResources    decimal.Decimal `json:"return_on_resources"`
	ClosingBalance       decimal.Decimal `json:"closing_balance"`
	ElapsedMonthFraction decimal.Decimal `json:"elapsed_month_fraction"`
}

// ComputeKPIs derives the four summary ratios. elapsedMonthFraction (elapsed
// months / 12) is carried through for the caller to pace the ratios against;
// it does not enter the formulas.
func ComputeKPIs(openingBalance, incomeActual, expenseActual, targetBalance, elapsedMonthFraction decimal.Decimal) KPIs {
	closing := openingBalance.Add(incomeActual).Sub(expenseActual)
	delta := closing.Sub(openingBalance)

	k := KPIs{
		ClosingBalance:       closing,
		ElapsedMonthFraction: elapsedMonthFraction,
	}
	if !incomeActual.IsZero() {
		k.SavingsEfficiency = incomeActual.Sub(expenseActual).Div(incomeActual)
	}
	if !openingBalance.IsZero() {
		k.Growth = delta.Div(openingBalance)
	}
	if targetSpan := targetBalance.Sub(openingBalance); targetSpan.IsPositive() {
		k.TargetAttainment = delta.Div(targetSpan)
	}
	if resources := openingBalance.Add(incomeActual); !resources.IsZero() {
		k.ReturnOnResources = delta.Div(resources)
	}
	return k
}
