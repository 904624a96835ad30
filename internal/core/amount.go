// Package core implements the transaction extraction and budget
// reconciliation engine: amount/label normalization, notification parsing,
// keyword classification, fingerprint dedup, period aggregation and the
// budget-vs-actual merge. Every function is a pure transform of its inputs.
package core

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// thousandsOnly matches dot-grouped integers like "1.500" or "1.234.567":
// every group after the first is exactly three digits.
var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// parseAmount converts a raw amount string using the Italian bank convention:
// dot as thousands separator, comma as decimal separator. Currency symbols
// and whitespace are stripped first. When the string carries both separators
// the dot is removed and the comma becomes the decimal point; a lone comma is
// a decimal separator; dots without a comma are thousands separators when the
// digit grouping says so ("1.500" is fifteen hundred, "17.44" is not);
// otherwise the string is parsed as-is.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '€' || r == '$' || r == '£' {
			return -1
		}
		return r
	}, raw)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "EUR"), "eur")

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	case hasDot && thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}

// NormalizeAmount parses a locale-formatted amount and returns zero on any
// unparseable input. Budget sheets are hand-edited and frequently malformed,
// so this fails soft instead of propagating an error.
func NormalizeAmount(raw string) decimal.Decimal {
	d, err := parseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
