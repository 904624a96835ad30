package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/core"

	"github.com/shopspring/decimal"
)

func TestStoreLedger(t *testing.T) {
	s := New()
	ctx := context.Background()

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("fresh store has %d transactions", len(txs))
	}

	tx := core.Transaction{
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "CONAD CITY",
		Amount:      decimal.RequireFromString("23.1"),
		Direction:   core.Expense,
		Category:    "USCITE/PRANZO",
		PeriodLabel: "Mar-26",
		Fingerprint: "20260301-23.1-CONAD CITY",
	}
	if err := s.AppendTransactions(ctx, []core.Transaction{tx}); err != nil {
		t.Fatalf("AppendTransactions: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}

	txs, _ = s.ListTransactions(ctx)
	txs[0].Description = "mutated"
	again, _ := s.ListTransactions(ctx)
	if again[0].Description != "CONAD CITY" {
		t.Fatal("ListTransactions must return a copy")
	}
}

func TestStoreAppendError(t *testing.T) {
	s := New()
	wantErr := errors.New("sheet unavailable")
	s.SetAppendError(wantErr)

	err := s.AppendTransactions(context.Background(), []core.Transaction{{}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("AppendTransactions error = %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("failed append must not modify the ledger")
	}
}

func TestStoreCategoriesKeepSentinel(t *testing.T) {
	s := New()
	s.SetCategories([]string{"PERSONALE"}, []string{"CARBURANTE", "VARIE"})

	cats, err := s.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if !cats.Contains(core.Income, core.SentinelCategory) || !cats.Contains(core.Expense, core.SentinelCategory) {
		t.Fatal("sentinel must be present in both lists")
	}
	if !cats.Contains(core.Expense, "VARIE") {
		t.Fatal("configured category missing")
	}
}
