// Package core holds the ledger domain: money parsing and formatting,
// entry classification and the 50/50 balance engine.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts human-entered money text into integer cents.
//
// Dots and commas are accepted interchangeably as thousands or decimal
// separators. The last separator counts as the decimal point only when
// exactly one or two digits follow it; every other separator is a
// thousands separator and is discarded. A one-digit fraction means
// tenths ("12500.5" reads as 12500.50).
//
// Examples:
//
//	ParseAmount("12500")     -> 1250000
//	ParseAmount("12500.50")  -> 1250050
//	ParseAmount("12.500")    -> 1250000 (three digits follow, so thousands)
//	ParseAmount("12,500.50") -> 1250050
//
// Returns ErrInvalidAmount when the cleaned input is not a non-negative
// number. Zero is a valid amount.
func ParseAmount(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(cleaned, "+") || strings.HasPrefix(cleaned, "-") {
		// Only plain non-negative values allowed
		return 0, ErrInvalidAmount
	}

	intPart := cleaned
	fracPart := ""
	if i := strings.LastIndexAny(cleaned, ".,"); i >= 0 {
		tail := cleaned[i+1:]
		if len(tail) >= 1 && len(tail) <= 2 && digitsOnly(tail) {
			intPart = cleaned[:i]
			fracPart = tail
		}
	}

	// Everything left of the decimal point loses its thousands separators.
	intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
	if intPart == "" {
		// Bare fractions like ".5" are fine; separator-only input is not.
		if fracPart == "" {
			return 0, ErrInvalidAmount
		}
		intPart = "0"
	}
	if !digitsOnly(intPart) {
		return 0, ErrInvalidAmount
	}

	// Right-pad the fraction so a single digit means tenths.
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when scaling to cents
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	var fracCents int64
	if fracPart != "" {
		fracCents = int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	}
	return iv*100 + fracCents, nil
}

// FormatAmount renders cents in the es-AR convention: dot groups
// thousands, comma separates the two fraction digits (1250050 ->
// "12.500,50"). Negative input renders the sign and the magnitude
// symmetrically.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	b.WriteString(sign)
	lead := len(whole) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(whole[:lead])
	for i := lead; i < len(whole); i += 3 {
		b.WriteByte('.')
		b.WriteString(whole[i : i+3])
	}
	b.WriteByte(',')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
