// Package storage persists workspaces, members and ledger entries in
// SQLite. The bot assumes a single writer; SQLite serializes the rest.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"gastos/internal/core"
)

// ErrNotFound is returned when a row does not exist or belongs to a
// different workspace.
var ErrNotFound = errors.New("not found")

// Fixed-width UTC layout so lexicographic order matches chronological
// order in range queries.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks database liveness for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FindOrCreateWorkspace returns the workspace for a chat id, creating
// it on first contact and refreshing the title when it changed.
func (r *SQLiteRepository) FindOrCreateWorkspace(ctx context.Context, id, title string) (core.Workspace, error) {
	var ws core.Workspace
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, created_at FROM workspaces WHERE id = ?`, id).
		Scan(&ws.ID, &ws.Title, &createdAt)
	switch {
	case err == sql.ErrNoRows:
		ws = core.Workspace{ID: id, Title: title, CreatedAt: time.Now().UTC()}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO workspaces (id, title, created_at) VALUES (?, ?, ?)`,
			ws.ID, ws.Title, ws.CreatedAt.Format(timeLayout))
		if err != nil {
			return core.Workspace{}, fmt.Errorf("insert workspace: %w", err)
		}
		return ws, nil
	case err != nil:
		return core.Workspace{}, fmt.Errorf("select workspace: %w", err)
	}

	if ws.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.Workspace{}, fmt.Errorf("parse workspace created_at: %w", err)
	}
	if title != "" && title != ws.Title {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE workspaces SET title = ? WHERE id = ?`, title, id); err != nil {
			return core.Workspace{}, fmt.Errorf("update workspace title: %w", err)
		}
		ws.Title = title
	}
	return ws, nil
}

// FindOrCreateMember upserts a member, refreshing display fields when
// provided.
func (r *SQLiteRepository) FindOrCreateMember(ctx context.Context, id, username, firstName string) (core.Member, error) {
	var m core.Member
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, first_name FROM members WHERE id = ?`, id).
		Scan(&m.ID, &m.Username, &m.FirstName)
	switch {
	case err == sql.ErrNoRows:
		m = core.Member{ID: id, Username: username, FirstName: firstName}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO members (id, username, first_name) VALUES (?, ?, ?)`,
			m.ID, m.Username, m.FirstName)
		if err != nil {
			return core.Member{}, fmt.Errorf("insert member: %w", err)
		}
		return m, nil
	case err != nil:
		return core.Member{}, fmt.Errorf("select member: %w", err)
	}

	if username != "" {
		m.Username = username
	}
	if firstName != "" {
		m.FirstName = firstName
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE members SET username = ?, first_name = ? WHERE id = ?`,
		m.Username, m.FirstName, m.ID); err != nil {
		return core.Member{}, fmt.Errorf("update member: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) MemberByID(ctx context.Context, id string) (core.Member, error) {
	var m core.Member
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, first_name FROM members WHERE id = ?`, id).
		Scan(&m.ID, &m.Username, &m.FirstName)
	if err == sql.ErrNoRows {
		return core.Member{}, ErrNotFound
	}
	if err != nil {
		return core.Member{}, fmt.Errorf("select member: %w", err)
	}
	return m, nil
}

// MembersByWorkspace lists the members who have entries in a
// workspace, ordered by their first activity. That order is load
// bearing: the balance engine pairs the first two.
func (r *SQLiteRepository) MembersByWorkspace(ctx context.Context, workspaceID string) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.username, m.first_name
		FROM members m
		JOIN (
			SELECT paid_by, MIN(created_at) AS first_seen
			FROM entries
			WHERE workspace_id = ?
			GROUP BY paid_by
		) e ON e.paid_by = m.id
		ORDER BY e.first_seen`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("select workspace members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		var m core.Member
		if err := rows.Scan(&m.ID, &m.Username, &m.FirstName); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CreateEntry inserts a ledger entry, assigning a fresh uuid when the
// entry has none.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("validate entry: %w", err)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Kind == "" {
		e.Kind = core.KindExpense
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (id, workspace_id, amount_cents, currency, description,
			category, paid_by, kind, date, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.WorkspaceID, e.AmountCents, e.Currency, e.Description,
		e.Category, e.PaidBy, string(e.Kind),
		e.Date.UTC().Format(timeLayout), e.CreatedAt.UTC().Format(timeLayout), e.CreatedBy)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("insert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"workspace_id", e.WorkspaceID,
		"amount_cents", e.AmountCents,
		"kind", string(e.Kind))

	return e, nil
}

const entryColumns = `id, workspace_id, amount_cents, currency, description,
	category, paid_by, kind, date, created_at, created_by`

func (r *SQLiteRepository) EntryByID(ctx context.Context, id string) (core.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return core.LedgerEntry{}, ErrNotFound
	}
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("select entry: %w", err)
	}
	return e, nil
}

// EntriesInPeriod returns a workspace's entries with date in
// [start, end), ordered by date.
func (r *SQLiteRepository) EntriesInPeriod(ctx context.Context, workspaceID string, start, end time.Time) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE workspace_id = ? AND date >= ? AND date < ?
		 ORDER BY date`,
		workspaceID, start.UTC().Format(timeLayout), end.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	return collectEntries(rows)
}

// SearchEntries finds entries whose description contains term
// (case-insensitive) within [start, end).
func (r *SQLiteRepository) SearchEntries(ctx context.Context, workspaceID, term string, start, end time.Time) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE workspace_id = ? AND date >= ? AND date < ?
		   AND description LIKE '%' || ? || '%' COLLATE NOCASE
		 ORDER BY date`,
		workspaceID, start.UTC().Format(timeLayout), end.UTC().Format(timeLayout), term)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	return collectEntries(rows)
}

// LastEntries returns the n most recently created entries.
func (r *SQLiteRepository) LastEntries(ctx context.Context, workspaceID string, n int) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE workspace_id = ?
		 ORDER BY created_at DESC LIMIT ?`, workspaceID, n)
	if err != nil {
		return nil, fmt.Errorf("select last entries: %w", err)
	}
	return collectEntries(rows)
}

// UpdateEntryAmount changes an entry's amount, scoped to a workspace.
func (r *SQLiteRepository) UpdateEntryAmount(ctx context.Context, id, workspaceID string, amountCents int64) (core.LedgerEntry, error) {
	if amountCents < 0 {
		return core.LedgerEntry{}, core.ErrInvalidAmount
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET amount_cents = ? WHERE id = ? AND workspace_id = ?`,
		amountCents, id, workspaceID)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("update entry amount: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.LedgerEntry{}, ErrNotFound
	}
	return r.EntryByID(ctx, id)
}

// DeleteEntry removes an entry, scoped to a workspace.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id, workspaceID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = ? AND workspace_id = ?`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Entry deleted", "id", id, "workspace_id", workspaceID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.LedgerEntry, error) {
	var e core.LedgerEntry
	var kind, date, createdAt string
	err := row.Scan(&e.ID, &e.WorkspaceID, &e.AmountCents, &e.Currency, &e.Description,
		&e.Category, &e.PaidBy, &kind, &date, &createdAt, &e.CreatedBy)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	e.Kind = core.EntryKind(kind)
	if e.Date, err = time.Parse(timeLayout, date); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("parse entry date: %w", err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("parse entry created_at: %w", err)
	}
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]core.LedgerEntry, error) {
	defer rows.Close()
	var entries []core.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
