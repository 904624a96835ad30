package google

import (
	"testing"
	"time"

	"bilancio/internal/core"

	"github.com/shopspring/decimal"
)

func TestParseLedgerValues(t *testing.T) {
	values := [][]any{
		{"Data", "Descrizione", "Importo", "Tipo", "Categoria", "Mese", "Firma"},
		{"14/02/2026", "LIDL 1660", "17,44", "Uscita", "USCITE/PRANZO", "Feb-26", "20260214-17.44-LIDL 1660"},
		{"2026-01-05", "ACME SRL STIPENDIO", "1.250,00", "Entrata", "PERSONALE", "", ""},
		{"", "", "", "", ""},
		{"non-una-data", "qualcosa", "10", "Uscita", "VARIE"},
	}

	txs, skipped := parseLedgerValues(values)
	if len(txs) != 2 {
		t.Fatalf("parsed %d transactions, want 2", len(txs))
	}
	if skipped != 1 {
		t.Fatalf("skipped %d rows, want 1", skipped)
	}

	first := txs[0]
	if !first.Date.Equal(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", first.Date)
	}
	if !first.Amount.Equal(decimal.RequireFromString("17.44")) {
		t.Fatalf("amount = %s", first.Amount)
	}
	if first.Direction != core.Expense {
		t.Fatalf("direction = %q", first.Direction)
	}
	if first.Fingerprint != "20260214-17.44-LIDL 1660" {
		t.Fatalf("fingerprint = %q", first.Fingerprint)
	}

	second := txs[1]
	if second.Direction != core.Income {
		t.Fatalf("direction = %q", second.Direction)
	}
	if !second.Amount.Equal(decimal.RequireFromString("1250")) {
		t.Fatalf("amount = %s", second.Amount)
	}
	if second.PeriodLabel != "Jan-26" {
		t.Fatalf("derived period label = %q", second.PeriodLabel)
	}
	if second.Category != "PERSONALE" {
		t.Fatalf("category = %q", second.Category)
	}
}

func TestParseLedgerRowDefaultsCategoryToSentinel(t *testing.T) {
	tx, ok := parseLedgerRow([]any{"01/03/2026", "BONIFICO SCONOSCIUTO", "50", "Entrata", ""})
	if !ok {
		t.Fatal("row should parse")
	}
	if tx.Category != core.SentinelCategory {
		t.Fatalf("category = %q, want sentinel", tx.Category)
	}
}

func TestParseBudgetValues(t *testing.T) {
	values := [][]any{
		{"Categoria", "Tipo", "Gennaio", "Febbraio", "Marzo", "Anno"},
		{"AFFITTO", "Uscite", "650", "650,00", "", ""},
		{"STIPENDIO", "Entrate", "1.800,00", "1.800,00", "1.800,00", ""},
		{"ASSICURAZIONE", "Uscite", "", "", "", "480"},
		{"MISTERO", "boh", "10", "", "", ""},
	}

	rows, skipped := parseBudgetValues(values)
	if skipped != 1 {
		t.Fatalf("skipped %d rows, want 1", skipped)
	}

	want := []core.BudgetRow{
		{Month: "Jan", Category: "AFFITTO", Direction: core.Expense, Planned: decimal.RequireFromString("650")},
		{Month: "Feb", Category: "AFFITTO", Direction: core.Expense, Planned: decimal.RequireFromString("650")},
		{Month: "Jan", Category: "STIPENDIO", Direction: core.Income, Planned: decimal.RequireFromString("1800")},
		{Month: "Feb", Category: "STIPENDIO", Direction: core.Income, Planned: decimal.RequireFromString("1800")},
		{Month: "Mar", Category: "STIPENDIO", Direction: core.Income, Planned: decimal.RequireFromString("1800")},
		{Month: core.MonthAll, Category: "ASSICURAZIONE", Direction: core.Expense, Planned: decimal.RequireFromString("480")},
	}
	if len(rows) != len(want) {
		t.Fatalf("parsed %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		got := rows[i]
		if got.Month != w.Month || got.Category != w.Category || got.Direction != w.Direction || !got.Planned.Equal(w.Planned) {
			t.Fatalf("row %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestLedgerRowRoundTrip(t *testing.T) {
	tx := core.Transaction{
		Date:        time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC),
		Description: "Q8 CARBURANTE",
		Amount:      decimal.RequireFromString("42.5"),
		Direction:   core.Expense,
		Category:    "CARBURANTE",
		PeriodLabel: "Jul-26",
		Fingerprint: "20260709-42.5-Q8 CARBUR",
	}

	parsed, ok := parseLedgerRow(ledgerRow(tx))
	if !ok {
		t.Fatal("rendered row should parse back")
	}
	if !parsed.Date.Equal(tx.Date) || parsed.Description != tx.Description ||
		!parsed.Amount.Equal(tx.Amount) || parsed.Direction != tx.Direction ||
		parsed.Category != tx.Category || parsed.Fingerprint != tx.Fingerprint {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
}
