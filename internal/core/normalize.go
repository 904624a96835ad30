package core

import (
	"strconv"
	"strings"
	"unicode"
)

// MonthAll marks budget rows that apply to the whole year.
const MonthAll = "ALL"

// Months lists the canonical 3-letter month codes in calendar order.
var Months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// monthPrefixes maps the first three letters of localized month names to the
// canonical code. Italian first (the source spreadsheets use it), English as
// the tie-breaker where the prefixes differ.
var monthPrefixes = map[string]string{
	"gen": "Jan", "jan": "Jan",
	"feb": "Feb",
	"mar": "Mar",
	"apr": "Apr",
	"mag": "May", "may": "May",
	"giu": "Jun", "jun": "Jun",
	"lug": "Jul", "jul": "Jul",
	"ago": "Aug", "aug": "Aug",
	"set": "Sep", "sep": "Sep",
	"ott": "Oct", "oct": "Oct",
	"nov": "Nov",
	"dic": "Dec", "dec": "Dec",
}

// NormalizeMonth maps a free-text month label to a canonical code. It accepts
// localized month names (matched on the first three letters, case-insensitive),
// 1-2 digit month numbers and the annual marker "ALL". Unrecognized input is
// returned capitalized unchanged so the caller can surface it instead of
// silently dropping the row.
func NormalizeMonth(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if strings.EqualFold(s, MonthAll) {
		return MonthAll
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return Months[n-1]
	}
	lower := strings.ToLower(s)
	if len(lower) >= 3 {
		if code, ok := monthPrefixes[lower[:3]]; ok {
			return code
		}
	}
	return capitalize(s)
}

// MonthIndex returns the 1-based calendar index of a canonical month code.
func MonthIndex(code string) (int, bool) {
	for i, m := range Months {
		if m == code {
			return i + 1, true
		}
	}
	return 0, false
}

var (
	expenseTokens = []string{"uscit", "spes", "addebito", "prelievo", "out", "spend", "expense", "debit"}
	incomeTokens  = []string{"entrat", "accredit", "income", "revenue", "credit", "in"}
)

// NormalizeDirection maps a free-text type label to a Direction by substring
// match on known token families. The expense family is checked first so that
// ambiguous labels containing both (e.g. "uscita in contanti") stay expenses.
// The boolean is false when no token matches; callers surface the raw label
// capitalized in that case.
func NormalizeDirection(raw string) (Direction, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}
	for _, tok := range expenseTokens {
		if strings.Contains(lower, tok) {
			return Expense, true
		}
	}
	for _, tok := range incomeTokens {
		if strings.Contains(lower, tok) {
			return Income, true
		}
	}
	return "", false
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
