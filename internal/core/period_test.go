package core

import "testing"

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in     string
		kind   PeriodKind
		index  int
		months int
	}{
		{"feb", PeriodMonth, 2, 1},
		{"Gen", PeriodMonth, 1, 1},
		{"7", PeriodMonth, 7, 1},
		{"q1", PeriodQuarter, 1, 3},
		{"Q4", PeriodQuarter, 4, 3},
		{"s1", PeriodSemester, 1, 6},
		{"S2", PeriodSemester, 2, 6},
		{"year", PeriodYear, 0, 12},
		{"", PeriodYear, 0, 12},
	}
	for _, tc := range cases {
		p, err := ParsePeriod(tc.in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", tc.in, err)
		}
		if p.Kind != tc.kind || p.Index != tc.index {
			t.Fatalf("ParsePeriod(%q) = %+v", tc.in, p)
		}
		if len(p.Months()) != tc.months {
			t.Fatalf("ParsePeriod(%q).Months() has %d months, want %d", tc.in, len(p.Months()), tc.months)
		}
	}
}

func TestParsePeriodRejectsGarbage(t *testing.T) {
	for _, in := range []string{"q5", "s3", "boh", "14"} {
		if _, err := ParsePeriod(in); err == nil {
			t.Fatalf("ParsePeriod(%q) should fail", in)
		}
	}
}

func TestPeriodContainsJanuary(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"gen", true},
		{"feb", false},
		{"q1", true},
		{"q2", false},
		{"s1", true},
		{"s2", false},
		{"year", true},
	}
	for _, tc := range cases {
		p, err := ParsePeriod(tc.in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", tc.in, err)
		}
		if got := p.ContainsJanuary(); got != tc.want {
			t.Fatalf("%q ContainsJanuary = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPeriodMonthsQuarter(t *testing.T) {
	p := Period{Kind: PeriodQuarter, Index: 2}
	months := p.Months()
	want := []string{"Apr", "May", "Jun"}
	for i, m := range want {
		if months[i] != m {
			t.Fatalf("Q2 months = %v", months)
		}
	}
}
