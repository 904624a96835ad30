package core

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testCats = NewCategorySet(
	[]string{"DA VERIFICARE", "STIPENDIO", "SALDO INIZIALE"},
	[]string{"DA VERIFICARE", "USCITE/PRANZO", "CARBURANTE", "VARIE"},
)

func testMsg(subject, body string) Message {
	return Message{
		Subject: subject,
		Body:    body,
		Date:    time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestExtractExpense(t *testing.T) {
	ex := NewExtractor("widiba")
	msg := testMsg(
		"Avviso operazione",
		"Gentile Cliente,\n la informiamo che da Widiba risulta un\n pagamento di 17,44 euro presso LIDL 1660.",
	)

	res, ok := ex.Extract(msg, testCats)
	if !ok {
		t.Fatal("message with bank token must be a candidate")
	}
	if !res.Recognized {
		t.Fatal("expected a recognized transaction")
	}
	tx := res.Transaction
	if !tx.Amount.Equal(decimal.RequireFromString("17.44")) {
		t.Fatalf("amount = %s, want 17.44", tx.Amount)
	}
	if tx.Direction != Expense {
		t.Fatalf("direction = %q, want expense", tx.Direction)
	}
	if tx.Description != "LIDL 1660" {
		t.Fatalf("description = %q", tx.Description)
	}
	if tx.Category != "USCITE/PRANZO" {
		t.Fatalf("category = %q", tx.Category)
	}
	if tx.PeriodLabel != "Feb-26" {
		t.Fatalf("period label = %q", tx.PeriodLabel)
	}
	if tx.Fingerprint != "20260214-17.44-LIDL 1660" {
		t.Fatalf("fingerprint = %q", tx.Fingerprint)
	}
}

func TestExtractIncome(t *testing.T) {
	ex := NewExtractor("widiba")
	msg := testMsg(
		"Widiba: accredito ricevuto",
		"hai ricevuto 1.250,00 euro da ACME SRL STIPENDIO.",
	)

	res, ok := ex.Extract(msg, testCats)
	if !ok || !res.Recognized {
		t.Fatalf("extract = (%+v, %v)", res, ok)
	}
	if res.Transaction.Direction != Income {
		t.Fatalf("direction = %q, want income", res.Transaction.Direction)
	}
	if !res.Transaction.Amount.Equal(decimal.RequireFromString("1250")) {
		t.Fatalf("amount = %s, want 1250", res.Transaction.Amount)
	}
	if res.Transaction.Category != "STIPENDIO" {
		t.Fatalf("category = %q", res.Transaction.Category)
	}
}

func TestExtractSkipsForeignMail(t *testing.T) {
	ex := NewExtractor("widiba")
	msg := testMsg("Newsletter", "pagamento di 10,00 euro presso QUALCOSA.")
	if _, ok := ex.Extract(msg, testCats); ok {
		t.Fatal("message without bank token must be skipped entirely")
	}
}

func TestExtractUnrecognized(t *testing.T) {
	ex := NewExtractor("widiba")
	msg := testMsg("Widiba: nuova comunicazione", "il suo estratto conto Widiba è disponibile online")

	res, ok := ex.Extract(msg, testCats)
	if !ok {
		t.Fatal("bank message must stay a candidate")
	}
	if res.Recognized {
		t.Fatal("no amount pattern should match")
	}
	tx := res.Transaction
	if !tx.Amount.IsZero() {
		t.Fatalf("placeholder amount = %s, want 0", tx.Amount)
	}
	if tx.Category != SentinelCategory {
		t.Fatalf("placeholder category = %q", tx.Category)
	}
	if tx.Description != msg.Subject {
		t.Fatalf("placeholder description = %q, want subject", tx.Description)
	}
	if !strings.HasPrefix(tx.Fingerprint, "ERR-20260214-") {
		t.Fatalf("fingerprint = %q", tx.Fingerprint)
	}
}

func TestExtractUnrecognizedFingerprintStable(t *testing.T) {
	ex := NewExtractor("widiba")
	msg := testMsg("Widiba: avviso", "testo senza importi")
	a, _ := ex.Extract(msg, testCats)
	b, _ := ex.Extract(msg, testCats)
	if a.Transaction.Fingerprint != b.Transaction.Fingerprint {
		t.Fatalf("ERR fingerprint unstable: %q vs %q",
			a.Transaction.Fingerprint, b.Transaction.Fingerprint)
	}

	other, _ := ex.Extract(testMsg("Widiba: altro avviso", "testo senza importi"), testCats)
	if other.Transaction.Fingerprint == a.Transaction.Fingerprint {
		t.Fatal("distinct subjects must not share an ERR fingerprint")
	}
}

func TestFingerprintStable(t *testing.T) {
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	amt := decimal.RequireFromString("99.90")
	a := Fingerprint(date, amt, "SUPERMERCATO CONAD OVEST")
	b := Fingerprint(date, amt, "SUPERMERCATO CONAD OVEST")
	if a != b {
		t.Fatalf("fingerprint unstable: %q vs %q", a, b)
	}
	if a != "20260102-99.9-SUPERMERCA" {
		t.Fatalf("fingerprint = %q", a)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	in := "  riga uno\n\travvicinata   a riga due \n"
	if got := CollapseWhitespace(in); got != "riga uno ravvicinata a riga due" {
		t.Fatalf("CollapseWhitespace = %q", got)
	}
}
