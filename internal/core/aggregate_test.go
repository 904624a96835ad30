package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregateBudgetSumsDuplicates(t *testing.T) {
	rows := []BudgetRow{
		{Month: "Feb", Category: "AFFITTO", Direction: Expense, Planned: dec("500")},
		{Month: "Feb", Category: "AFFITTO", Direction: Expense, Planned: dec("50")},
		{Month: "Mar", Category: "AFFITTO", Direction: Expense, Planned: dec("500")},
		{Month: "Feb", Category: "STIPENDIO", Direction: Income, Planned: dec("1800")},
	}
	got := AggregateBudget(rows, Period{Kind: PeriodMonth, Index: 2}.MonthSet())

	if len(got) != 2 {
		t.Fatalf("got %d flows, want 2", len(got))
	}
	if v := got[FlowKey{"AFFITTO", Expense}]; !v.Equal(dec("550")) {
		t.Fatalf("AFFITTO = %s, want 550 (duplicates summed)", v)
	}
	if v := got[FlowKey{"STIPENDIO", Income}]; !v.Equal(dec("1800")) {
		t.Fatalf("STIPENDIO = %s", v)
	}
}

func TestAggregateBudgetExcludesOpeningBalanceWithoutJanuary(t *testing.T) {
	rows := []BudgetRow{
		{Month: "Jan", Category: OpeningBalanceCategory, Direction: Income, Planned: dec("10000")},
		{Month: "Feb", Category: "AFFITTO", Direction: Expense, Planned: dec("500")},
	}

	feb := AggregateBudget(rows, Period{Kind: PeriodMonth, Index: 2}.MonthSet())
	if _, ok := feb[FlowKey{OpeningBalanceCategory, Income}]; ok {
		t.Fatal("opening balance must be excluded when Jan is not in the period")
	}

	q1 := AggregateBudget(rows, Period{Kind: PeriodQuarter, Index: 1}.MonthSet())
	if v := q1[FlowKey{OpeningBalanceCategory, Income}]; !v.Equal(dec("10000")) {
		t.Fatalf("opening balance in Q1 = %s, want 10000", v)
	}
}

func TestAggregateBudgetAnnualRows(t *testing.T) {
	rows := []BudgetRow{
		{Month: MonthAll, Category: "ASSICURAZIONE", Direction: Expense, Planned: dec("600")},
	}
	year := AggregateBudget(rows, Period{Kind: PeriodYear}.MonthSet())
	if v := year[FlowKey{"ASSICURAZIONE", Expense}]; !v.Equal(dec("600")) {
		t.Fatalf("annual row over full year = %s, want 600", v)
	}
	feb := AggregateBudget(rows, Period{Kind: PeriodMonth, Index: 2}.MonthSet())
	if len(feb) != 0 {
		t.Fatal("annual rows only apply to full-year aggregation")
	}
}

func TestAggregateActual(t *testing.T) {
	txs := []Transaction{
		{Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), Category: "AFFITTO", Direction: Expense, Amount: dec("500")},
		{Date: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), Category: "AFFITTO", Direction: Expense, Amount: dec("25.50")},
		{Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), Category: "AFFITTO", Direction: Expense, Amount: dec("480")},
		{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Category: "AFFITTO", Direction: Expense, Amount: dec("500")},
		{Date: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), Category: "STIPENDIO", Direction: Income, Amount: dec("1800")},
	}
	got := AggregateActual(txs, 2026, Period{Kind: PeriodMonth, Index: 2}.MonthSet())

	if v := got[FlowKey{"AFFITTO", Expense}]; !v.Equal(dec("525.5")) {
		t.Fatalf("AFFITTO = %s, want 525.5", v)
	}
	if v := got[FlowKey{"STIPENDIO", Income}]; !v.Equal(dec("1800")) {
		t.Fatalf("STIPENDIO = %s", v)
	}
	if len(got) != 2 {
		t.Fatalf("got %d flows, want 2 (other years and months filtered)", len(got))
	}
}

func TestAggregateActualExcludesOpeningBalanceWithoutJanuary(t *testing.T) {
	txs := []Transaction{
		{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Category: OpeningBalanceCategory, Direction: Income, Amount: dec("9000")},
	}
	got := AggregateActual(txs, 2026, Period{Kind: PeriodSemester, Index: 2}.MonthSet())
	if len(got) != 0 {
		t.Fatal("S2 must not see the opening balance")
	}
}
