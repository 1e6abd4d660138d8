package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Period is a half-open time interval [Start, End) with a display label.
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// MonthPeriod resolves a month selector into a period. The selector may
// be empty (the month of now), "YYYY-MM", or a bare month number which
// picks that month of the current year.
func MonthPeriod(input string, now time.Time) (Period, error) {
	input = strings.TrimSpace(input)

	year, month := now.Year(), int(now.Month())
	switch {
	case input == "":
	case strings.Contains(input, "-"):
		t, err := time.Parse("2006-01", input)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q (usá YYYY-MM, ej: 2025-12)", ErrInvalidMonth, input)
		}
		year, month = t.Year(), int(t.Month())
	default:
		m, err := strconv.Atoi(input)
		if err != nil || m < 1 || m > 12 {
			return Period{}, fmt.Errorf("%w: %q (debe ser un número entre 1 y 12)", ErrInvalidMonth, input)
		}
		month = m
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
		Label: fmt.Sprintf("%s %d", spanishMonths[month-1], year),
	}, nil
}

// YearPeriods returns the twelve month periods of a year. The selector
// may be empty (year of now) or "YYYY".
func YearPeriods(input string, now time.Time) ([]Period, int, error) {
	input = strings.TrimSpace(input)

	year := now.Year()
	if input != "" {
		y, err := strconv.Atoi(input)
		if err != nil || y < 2000 || y > 2100 {
			return nil, 0, fmt.Errorf("%w: %q (debe ser un número entre 2000 y 2100)", ErrInvalidYear, input)
		}
		year = y
	}

	periods := make([]Period, 0, 12)
	for m := 1; m <= 12; m++ {
		start := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		periods = append(periods, Period{
			Start: start,
			End:   start.AddDate(0, 1, 0),
			Label: fmt.Sprintf("%s %d", spanishMonths[m-1], year),
		})
	}
	return periods, year, nil
}
