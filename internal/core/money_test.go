package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"12500", 1250000, true},
		{"12500.50", 1250050, true},
		{"12.500", 1250000, true}, // three digits after the dot: thousands
		{"12,500", 1250000, true},
		{"12,500.50", 1250050, true},
		{"12.500,50", 1250050, true},
		{"12.5", 1250, true}, // one digit after the dot: tenths
		{"12,5", 1250, true},
		{"1.234.567", 123456700, true},
		{"1.234.567,89", 123456789, true},
		{"1.2.3", 1230, true}, // earlier separators are thousands
		{" 2.50 ", 250, true},
		{"12 500,50", 1250050, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{".5", 50, true},
		{"12.", 1200, true}, // trailing separator, no fraction: thousands
		{"", 0, false},
		{"   ", 0, false},
		{".", 0, false}, // separators with no digits at all
		{",", 0, false},
		{"..", 0, false},
		{".,", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"12a.50", 0, false},
		{"12.5a", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("ParseAmount(%q) = %d, %v; want %d", tc.in, got, err, tc.out)
			}
		} else {
			if err == nil {
				t.Fatalf("ParseAmount(%q) = %d, want error", tc.in, got)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{50, "0,50"},
		{100, "1,00"},
		{1250, "12,50"},
		{1250050, "12.500,50"},
		{123456789, "1.234.567,89"},
		{100000000, "1.000.000,00"},
		{-1250050, "-12.500,50"},
		{-5, "-0,05"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.out {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

// Parsing the canonical output shape of FormatAmount returns the
// original cents.
func TestFormatParseRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 1250, 99999, 1250050, 123456789} {
		got, err := ParseAmount(FormatAmount(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if got != cents {
			t.Fatalf("round trip %d: got %d", cents, got)
		}
	}
}
