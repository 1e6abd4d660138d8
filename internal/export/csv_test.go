package export

import (
	"strings"
	"testing"
	"time"

	"gastos/internal/core"
)

func TestCSV(t *testing.T) {
	at := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	entries := []core.LedgerEntry{
		{
			ID:          "e1",
			AmountCents: 1250050,
			Description: "vino, \"reserva\"",
			Category:    "vinos",
			PaidBy:      "1",
			Kind:        core.KindExpense,
			Date:        at,
		},
		{
			ID:          "e2",
			AmountCents: 500000,
			Description: "devolución",
			Category:    "otros",
			PaidBy:      "2",
			Kind:        core.KindDebtPayment,
			Date:        at,
		},
	}
	members := map[string]core.Member{
		"1": {ID: "1", FirstName: "Ana"},
	}

	out, err := CSV(entries, members)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: %q", lines)
	}
	if !strings.HasPrefix(lines[0], "ID,Fecha,") {
		t.Fatalf("header: %q", lines[0])
	}
	// Amounts keep a dot decimal and no grouping for spreadsheets.
	if !strings.Contains(lines[1], "12500.50") {
		t.Fatalf("row: %q", lines[1])
	}
	// Fields with commas/quotes are escaped by the csv writer.
	if !strings.Contains(lines[1], `"vino, ""reserva"""`) {
		t.Fatalf("escaping: %q", lines[1])
	}
	// Unknown payers fall back to the generic display name.
	if !strings.Contains(lines[2], "Usuario") || !strings.Contains(lines[2], "Pago de deuda") {
		t.Fatalf("row: %q", lines[2])
	}
}

func TestPlainAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{1250, "12.50"},
		{1250050, "12500.50"},
	}
	for _, tc := range cases {
		if got := plainAmount(tc.in); got != tc.want {
			t.Fatalf("plainAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
