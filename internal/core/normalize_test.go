package core

import "testing"

func TestNormalizeMonth(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"Gen", "Jan"},
		{"gennaio", "Jan"},
		{"Jan", "Jan"},
		{"1", "Jan"},
		{"01", "Jan"},
		{"Mag", "May"},
		{"maggio", "May"},
		{"GIU", "Jun"},
		{"Dic", "Dec"},
		{"dicembre", "Dec"},
		{"12", "Dec"},
		{"Set", "Sep"},
		{"ottobre", "Oct"},
		{"all", "ALL"},
		{"boh", "Boh"},
		{"13", "13"},
		{"xy", "Xy"},
	}
	for _, tc := range cases {
		if got := NormalizeMonth(tc.in); got != tc.out {
			t.Fatalf("NormalizeMonth(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestNormalizeMonthIdempotent(t *testing.T) {
	for _, code := range Months {
		if got := NormalizeMonth(code); got != code {
			t.Fatalf("NormalizeMonth(%q) = %q, not idempotent", code, got)
		}
	}
	if got := NormalizeMonth(MonthAll); got != MonthAll {
		t.Fatalf("NormalizeMonth(ALL) = %q", got)
	}
}

func TestNormalizeDirection(t *testing.T) {
	cases := []struct {
		in  string
		dir Direction
		ok  bool
	}{
		{"Uscita", Expense, true},
		{"uscite", Expense, true},
		{"Spesa", Expense, true},
		{"out", Expense, true},
		{"Entrata", Income, true},
		{"entrate", Income, true},
		{"revenue", Income, true},
		{"Accredito", Income, true},
		{"income", Income, true},
		{"", "", false},
		{"boh", "", false},
	}
	for _, tc := range cases {
		dir, ok := NormalizeDirection(tc.in)
		if ok != tc.ok || dir != tc.dir {
			t.Fatalf("NormalizeDirection(%q) = (%q, %v), want (%q, %v)", tc.in, dir, ok, tc.dir, tc.ok)
		}
	}
}

func TestMonthIndex(t *testing.T) {
	if idx, ok := MonthIndex("Jan"); !ok || idx != 1 {
		t.Fatalf("MonthIndex(Jan) = (%d, %v)", idx, ok)
	}
	if idx, ok := MonthIndex("Dec"); !ok || idx != 12 {
		t.Fatalf("MonthIndex(Dec) = (%d, %v)", idx, ok)
	}
	if _, ok := MonthIndex("ALL"); ok {
		t.Fatal("MonthIndex(ALL) should not resolve")
	}
}
