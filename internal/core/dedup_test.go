package core

import (
	"testing"
	"time"
)

func TestFilterNewRoundTrip(t *testing.T) {
	tx := Transaction{
		Date:        time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		Description: "LIDL 1660",
		Amount:      dec("17.44"),
		Direction:   Expense,
		Fingerprint: "20260214-17.44-LIDL 1660",
	}

	if got := FilterNew([]Transaction{tx}, map[string]struct{}{tx.Fingerprint: {}}); len(got) != 0 {
		t.Fatalf("known fingerprint not filtered: %v", got)
	}
	if got := FilterNew([]Transaction{tx}, map[string]struct{}{}); len(got) != 1 {
		t.Fatalf("unknown fingerprint filtered: %v", got)
	}
}

func TestFilterNewPreservesOrder(t *testing.T) {
	txs := []Transaction{
		{Fingerprint: "a"},
		{Fingerprint: "b"},
		{Fingerprint: "c"},
		{Fingerprint: "d"},
	}
	got := FilterNew(txs, map[string]struct{}{"b": {}})
	if len(got) != 3 || got[0].Fingerprint != "a" || got[1].Fingerprint != "c" || got[2].Fingerprint != "d" {
		t.Fatalf("got %v", got)
	}
}
