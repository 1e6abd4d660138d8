package sheets

import (
	"context"

	"gastos/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	// EntryWriter appends a ledger entry as a spreadsheet row.
	EntryWriter interface {
		Append(ctx context.Context, e core.LedgerEntry) (rowRef string, err error)
	}

	// EntryRemover removes a previously appended entry by ledger id.
	EntryRemover interface {
		Remove(ctx context.Context, entryID string) error
	}
)
