package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SentinelCategory marks transactions that need a manual category review.
	// Category lists coming from the spreadsheet are guaranteed to contain it.
	SentinelCategory = "DA VERIFICARE"

	// OpeningBalanceCategory is the pseudo-income category carrying funds over
	// from the prior fiscal year. It only participates in periods that include
	// January and is excluded from operating totals.
	OpeningBalanceCategory = "SALDO INIZIALE"
)

type (
	// Direction is the closed classification of a money flow.
	Direction string

	// Transaction is one ledger entry, either extracted from a bank
	// notification or entered manually.
	Transaction struct {
		Date        time.Time
		Description string
		Amount      decimal.Decimal
		Direction   Direction
		Category    string
		PeriodLabel string
		Fingerprint string
	}

	// BudgetRow is one planned amount for a month, category and direction.
	// Month is a canonical 3-letter code (Jan..Dec) or "ALL" for annual rows.
	BudgetRow struct {
		Month     string
		Category  string
		Direction Direction
		Planned   decimal.Decimal
	}

	// CategorySet holds the two ordered category lists supplied by the
	// spreadsheet. The engine only reads it; list order is priority order
	// for the classifier.
	CategorySet struct {
		Income  []string
		Expense []string
	}

	// FlowKey identifies one aggregated flow.
	FlowKey struct {
		Category  string
		Direction Direction
	}

	// ReconciliationRow is the merged budget-vs-actual line for one flow.
	ReconciliationRow struct {
		Category  string          `json:"category"`
		Direction Direction       `json:"direction"`
		Planned   decimal.Decimal `json:"planned"`
		Actual    decimal.Decimal `json:"actual"`
		Variance  decimal.Decimal `json:"variance"`
	}
)

const (
	Income  Direction = "Entrata"
	Expense Direction = "Uscita"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrUnknownCategory  = errors.New("category not in category set")
)

// NewCategorySet builds a CategorySet ensuring the sentinel is present in
// both lists, prepended when missing so it always wins ties last.
func NewCategorySet(income, expense []string) CategorySet {
	return CategorySet{
		Income:  ensureSentinel(income),
		Expense: ensureSentinel(expense),
	}
}

func ensureSentinel(cats []string) []string {
	for _, c := range cats {
		if strings.EqualFold(strings.TrimSpace(c), SentinelCategory) {
			return cats
		}
	}
	out := make([]string, 0, len(cats)+1)
	out = append(out, SentinelCategory)
	out = append(out, cats...)
	return out
}

// For returns the category list valid for the given direction.
func (c CategorySet) For(d Direction) []string {
	if d == Income {
		return c.Income
	}
	return c.Expense
}

// Contains reports whether name belongs to the list for the direction.
// Comparison is case-insensitive because the sheet is hand-edited.
func (c CategorySet) Contains(d Direction, name string) bool {
	name = strings.TrimSpace(name)
	for _, cat := range c.For(d) {
		if strings.EqualFold(strings.TrimSpace(cat), name) {
			return true
		}
	}
	return false
}

// PeriodLabelFor derives the display month label (e.g. "Jan-25") from a date.
func PeriodLabelFor(date time.Time) string {
	return date.Format("Jan-06")
}

// Validate checks a transaction against the supplied category set before it
// is committed to the ledger.
func (t Transaction) Validate(cats CategorySet) error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.Direction != Income && t.Direction != Expense {
		return ErrInvalidDirection
	}
	if !cats.Contains(t.Direction, t.Category) {
		return ErrUnknownCategory
	}
	return nil
}
