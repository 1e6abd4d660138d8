// Package memory is an in-memory spreadsheet double for tests and
// local development without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"gastos/internal/core"
	ports "gastos/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []core.LedgerEntry
}

var (
	_ ports.EntryWriter  = (*Store)(nil)
	_ ports.EntryRemover = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, e core.LedgerEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, e)
	return fmt.Sprintf("row-%d", len(s.rows)), nil
}

func (s *Store) Remove(_ context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == entryID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a snapshot of the stored entries.
func (s *Store) Rows() []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LedgerEntry, len(s.rows))
	copy(out, s.rows)
	return out
}
