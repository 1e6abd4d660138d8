// Package export renders ledger entries as CSV documents for the /csv
// command.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"gastos/internal/core"
)

var header = []string{"ID", "Fecha", "Monto (ARS)", "Categoría", "Descripción", "Pagado por", "Tipo"}

// CSV renders entries as a CSV document. Member display names come
// from the members map keyed by member id; amounts use a dot decimal
// point so spreadsheets parse them as numbers.
func CSV(entries []core.LedgerEntry, members map[string]core.Member) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range entries {
		kind := "Gasto"
		if e.Kind.IsDebtPayment() {
			kind = "Pago de deuda"
		}
		record := []string{
			e.ID,
			e.Date.Format("2006-01-02"),
			plainAmount(e.AmountCents),
			e.Category,
			e.Description,
			members[e.PaidBy].DisplayName(),
			kind,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// plainAmount strips locale grouping from the display format: dot
// decimal, no thousands separators ("12500.50").
func plainAmount(cents int64) string {
	s := core.FormatAmount(cents)
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}
