package core

import "strings"

// keywordRule maps a lowercase merchant/service substring to a category tag.
// Order matters: rules are tried top to bottom and the first hit wins, so the
// list is a slice rather than a map.
type keywordRule struct {
	keyword string
	target  string
}

var keywordRules = []keywordRule{
	{"lidl", "USCITE/PRANZO"},
	{"conad", "USCITE/PRANZO"},
	{"esselunga", "USCITE/PRANZO"},
	{"coop", "USCITE/PRANZO"},
	{"carrefour", "USCITE/PRANZO"},
	{"eurospin", "USCITE/PRANZO"},
	{"aldi", "USCITE/PRANZO"},
	{"ristorante", "USCITE/PRANZO"},
	{"pizzeria", "USCITE/PRANZO"},
	{"sushi", "USCITE/PRANZO"},
	{"mcdonald", "USCITE/PRANZO"},
	{"burger king", "USCITE/PRANZO"},
	{"bar ", "USCITE/PRANZO"},
	{"caffè", "USCITE/PRANZO"},
	{"eni", "CARBURANTE"},
	{"q8", "CARBURANTE"},
	{"esso", "CARBURANTE"},
	{"benzina", "CARBURANTE"},
	{"autostrade", "VARIE"},
	{"telepass", "VARIE"},
	{"amazon", "VARIE"},
	{"paypal", "PERSONALE"},
}

// Classify suggests a category for a transaction description. First the
// keyword table is consulted: for each keyword contained in the description,
// the allowed list is scanned for a category whose name contains the target
// tag, and the first match wins (list order is priority order). Then each
// allowed category name is tried as a direct substring of the description.
// When nothing matches the sentinel is returned; a human reviews every
// suggestion before commit, so a wrong guess is cheaper than no guess.
func Classify(description string, allowed []string) string {
	desc := strings.ToLower(description)

	for _, rule := range keywordRules {
		if !strings.Contains(desc, rule.keyword) {
			continue
		}
		tag := strings.ToLower(rule.target)
		for _, cat := range allowed {
			if strings.Contains(strings.ToLower(cat), tag) {
				return cat
			}
		}
	}

	for _, cat := range allowed {
		if strings.Contains(desc, strings.ToLower(cat)) {
			return cat
		}
	}

	return SentinelCategory
}
