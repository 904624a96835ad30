package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewCategorySetEnsuresSentinel(t *testing.T) {
	cats := NewCategorySet([]string{"STIPENDIO"}, []string{"DA VERIFICARE", "AFFITTO"})
	if cats.Income[0] != SentinelCategory {
		t.Fatalf("sentinel not prepended to income list: %v", cats.Income)
	}
	if len(cats.Expense) != 2 {
		t.Fatalf("sentinel duplicated in expense list: %v", cats.Expense)
	}
}

func TestCategorySetContains(t *testing.T) {
	cats := NewCategorySet([]string{"STIPENDIO"}, []string{"AFFITTO"})
	if !cats.Contains(Income, "stipendio") {
		t.Fatal("Contains should be case-insensitive")
	}
	if cats.Contains(Income, "AFFITTO") {
		t.Fatal("lists are disjoint per direction")
	}
	if !cats.Contains(Expense, SentinelCategory) {
		t.Fatal("sentinel must be valid for both directions")
	}
}

func TestTransactionValidate(t *testing.T) {
	cats := NewCategorySet([]string{"STIPENDIO"}, []string{"AFFITTO"})
	base := Transaction{
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "affitto marzo",
		Amount:      dec("500"),
		Direction:   Expense,
		Category:    "AFFITTO",
	}
	if err := base.Validate(cats); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"negative amount", func(tx *Transaction) { tx.Amount = dec("-1") }, ErrInvalidAmount},
		{"bad direction", func(tx *Transaction) { tx.Direction = "Boh" }, ErrInvalidDirection},
		{"unknown category", func(tx *Transaction) { tx.Category = "SCONOSCIUTA" }, ErrUnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := base
			tc.mutate(&tx)
			if err := tx.Validate(cats); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPeriodLabelFor(t *testing.T) {
	d := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := PeriodLabelFor(d); got != "Jan-25" {
		t.Fatalf("PeriodLabelFor = %q, want Jan-25", got)
	}
}
