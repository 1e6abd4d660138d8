package core

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func TestMonthPeriod(t *testing.T) {
	cases := []struct {
		in    string
		year  int
		month time.Month
		label string
		ok    bool
	}{
		{"", 2026, time.August, "agosto 2026", true},
		{"2025-12", 2025, time.December, "diciembre 2025", true},
		{"3", 2026, time.March, "marzo 2026", true},
		{"03", 2026, time.March, "marzo 2026", true},
		{"13", 0, 0, "", false},
		{"0", 0, 0, "", false},
		{"2025-13", 0, 0, "", false},
		{"pepe", 0, 0, "", false},
	}
	for _, tc := range cases {
		p, err := MonthPeriod(tc.in, now)
		if !tc.ok {
			if err == nil {
				t.Fatalf("MonthPeriod(%q): expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidMonth) {
				t.Fatalf("MonthPeriod(%q): error %v is not ErrInvalidMonth", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("MonthPeriod(%q): %v", tc.in, err)
		}
		if p.Start.Year() != tc.year || p.Start.Month() != tc.month || p.Start.Day() != 1 {
			t.Fatalf("MonthPeriod(%q) start = %v", tc.in, p.Start)
		}
		if want := p.Start.AddDate(0, 1, 0); !p.End.Equal(want) {
			t.Fatalf("MonthPeriod(%q) end = %v, want %v", tc.in, p.End, want)
		}
		if p.Label != tc.label {
			t.Fatalf("MonthPeriod(%q) label = %q, want %q", tc.in, p.Label, tc.label)
		}
	}
}

func TestPeriodContains(t *testing.T) {
	p, err := MonthPeriod("2026-08", now)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Contains(p.Start) {
		t.Fatal("start should be inside")
	}
	if p.Contains(p.End) {
		t.Fatal("end is exclusive")
	}
	if p.Contains(p.Start.Add(-time.Second)) {
		t.Fatal("before start should be outside")
	}
	if !p.Contains(p.End.Add(-time.Second)) {
		t.Fatal("last instant should be inside")
	}
}

func TestYearPeriods(t *testing.T) {
	periods, year, err := YearPeriods("", now)
	if err != nil || year != 2026 || len(periods) != 12 {
		t.Fatalf("got %d periods, year %d, err %v", len(periods), year, err)
	}
	if periods[0].Label != "enero 2026" || periods[11].Label != "diciembre 2026" {
		t.Fatalf("labels: %q ... %q", periods[0].Label, periods[11].Label)
	}

	if _, _, err := YearPeriods("1999", now); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
	if _, _, err := YearPeriods("20x5", now); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
}
