package core

import (
	"fmt"
	"strings"
)

// Period selects the months a reconciliation covers: a single month, a
// quarter, a semester or the whole year.
type Period struct {
	Kind  PeriodKind
	Index int // month 1-12, quarter 1-4, semester 1-2; unused for year
}

type PeriodKind string

const (
	PeriodMonth    PeriodKind = "month"
	PeriodQuarter  PeriodKind = "quarter"
	PeriodSemester PeriodKind = "semester"
	PeriodYear     PeriodKind = "year"
)

// MonthSet is a set of canonical month codes.
type MonthSet map[string]struct{}

func (s MonthSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// ParsePeriod understands month names/numbers ("feb", "2"), quarters ("q1"),
// semesters ("s2") and "year". An empty string means the whole year.
func ParsePeriod(raw string) (Period, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "" || s == "year" || s == "anno" || s == "all":
		return Period{Kind: PeriodYear}, nil
	case strings.HasPrefix(s, "q") && len(s) == 2:
		if s[1] >= '1' && s[1] <= '4' {
			return Period{Kind: PeriodQuarter, Index: int(s[1] - '0')}, nil
		}
	case strings.HasPrefix(s, "s") && len(s) == 2:
		if s[1] == '1' || s[1] == '2' {
			return Period{Kind: PeriodSemester, Index: int(s[1] - '0')}, nil
		}
	default:
		if code := NormalizeMonth(s); code != "" {
			if idx, ok := MonthIndex(code); ok {
				return Period{Kind: PeriodMonth, Index: idx}, nil
			}
		}
	}
	return Period{}, fmt.Errorf("unrecognized period %q", raw)
}

// Months returns the canonical month codes the period spans.
func (p Period) Months() []string {
	switch p.Kind {
	case PeriodMonth:
		return []string{Months[p.Index-1]}
	case PeriodQuarter:
		start := (p.Index - 1) * 3
		return append([]string(nil), Months[start:start+3]...)
	case PeriodSemester:
		start := (p.Index - 1) * 6
		return append([]string(nil), Months[start:start+6]...)
	default:
		return append([]string(nil), Months[:]...)
	}
}

// MonthSet returns the period's months as a set.
func (p Period) MonthSet() MonthSet {
	set := make(MonthSet)
	for _, m := range p.Months() {
		set[m] = struct{}{}
	}
	return set
}

// ContainsJanuary reports whether the period includes the fiscal year's first
// month, which governs opening-balance handling.
func (p Period) ContainsJanuary() bool {
	return p.MonthSet().Contains("Jan")
}

func (p Period) String() string {
	switch p.Kind {
	case PeriodMonth:
		return Months[p.Index-1]
	case PeriodQuarter:
		return fmt.Sprintf("Q%d", p.Index)
	case PeriodSemester:
		return fmt.Sprintf("S%d", p.Index)
	default:
		return "year"
	}
}
