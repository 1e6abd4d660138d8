// Package services orchestrates ledger operations across storage, the
// balance engine and the async sync pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/core"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindOrCreateWorkspace(ctx context.Context, id, title string) (core.Workspace, error)
	FindOrCreateMember(ctx context.Context, id, username, firstName string) (core.Member, error)
	MemberByID(ctx context.Context, id string) (core.Member, error)
	MembersByWorkspace(ctx context.Context, workspaceID string) ([]core.Member, error)
	CreateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error)
	EntryByID(ctx context.Context, id string) (core.LedgerEntry, error)
	EntriesInPeriod(ctx context.Context, workspaceID string, start, end time.Time) ([]core.LedgerEntry, error)
	SearchEntries(ctx context.Context, workspaceID, term string, start, end time.Time) ([]core.LedgerEntry, error)
	LastEntries(ctx context.Context, workspaceID string, n int) ([]core.LedgerEntry, error)
	UpdateEntryAmount(ctx context.Context, id, workspaceID string, amountCents int64) (core.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id, workspaceID string) error
}

// Publisher emits entry events for the sync worker. It may be nil when
// AMQP is not configured.
type Publisher interface {
	PublishEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error
}

// CategoryTotal is a category with its summed cents.
type CategoryTotal struct {
	Category string
	Cents    int64
}

// MonthSummary aggregates a month's ordinary spending.
type MonthSummary struct {
	Period     core.Period
	TotalCents int64
	ByCategory []CategoryTotal
}

// LedgerService implements the bot's ledger use cases.
type LedgerService struct {
	store     Store
	publisher Publisher
	currency  string
}

func NewLedgerService(store Store, publisher Publisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher, currency: "ARS"}
}

// RecordExpense parses the amount, upserts workspace and member, and
// stores an ordinary expense. An empty categoryOverride infers the
// category from the description.
func (s *LedgerService) RecordExpense(ctx context.Context, chatID, chatTitle, userID, username, firstName, amountInput, description, categoryOverride string) (core.LedgerEntry, error) {
	return s.record(ctx, chatID, chatTitle, userID, username, firstName, amountInput, description, categoryOverride, core.KindExpense)
}

// RecordDebtPayment stores a debt settlement made by the sender.
func (s *LedgerService) RecordDebtPayment(ctx context.Context, chatID, chatTitle, userID, username, firstName, amountInput, description string) (core.LedgerEntry, error) {
	if description == "" {
		description = "Pago de deuda"
	}
	return s.record(ctx, chatID, chatTitle, userID, username, firstName, amountInput, description, core.DefaultCategory, core.KindDebtPayment)
}

func (s *LedgerService) record(ctx context.Context, chatID, chatTitle, userID, username, firstName, amountInput, description, category string, kind core.EntryKind) (core.LedgerEntry, error) {
	amountCents, err := core.ParseAmount(amountInput)
	if err != nil {
		return core.LedgerEntry{}, err
	}

	if _, err := s.store.FindOrCreateWorkspace(ctx, chatID, chatTitle); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("workspace: %w", err)
	}
	member, err := s.store.FindOrCreateMember(ctx, userID, username, firstName)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("member: %w", err)
	}

	if kind == core.KindExpense {
		if category == "" {
			category = core.InferCategory(description)
		} else if !core.ValidCategory(category) {
			return core.LedgerEntry{}, fmt.Errorf("%w: %q", core.ErrInvalidCategory, category)
		}
	}

	now := time.Now().UTC()
	entry, err := s.store.CreateEntry(ctx, core.LedgerEntry{
		WorkspaceID: chatID,
		AmountCents: amountCents,
		Currency:    s.currency,
		Description: description,
		Category:    category,
		PaidBy:      member.ID,
		Kind:        kind,
		Date:        now,
		CreatedAt:   now,
		CreatedBy:   member.ID,
	})
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("create entry: %w", err)
	}

	s.publish(ctx, amqp.NewEntryRecorded(entry.ID, entry.WorkspaceID))
	return entry, nil
}

// MonthTotal sums a month's ordinary expenses. Debt payments move
// money between members, they are not spending.
func (s *LedgerService) MonthTotal(ctx context.Context, workspaceID, monthInput string, now time.Time) (int64, core.Period, error) {
	period, err := core.MonthPeriod(monthInput, now)
	if err != nil {
		return 0, core.Period{}, err
	}
	entries, err := s.store.EntriesInPeriod(ctx, workspaceID, period.Start, period.End)
	if err != nil {
		return 0, core.Period{}, fmt.Errorf("entries: %w", err)
	}

	var total int64
	for _, e := range entries {
		if !e.Kind.IsDebtPayment() {
			total += e.AmountCents
		}
	}
	return total, period, nil
}

// MonthByCategory aggregates a month's ordinary expenses per category,
// largest first.
func (s *LedgerService) MonthByCategory(ctx context.Context, workspaceID, monthInput string, now time.Time) (MonthSummary, error) {
	period, err := core.MonthPeriod(monthInput, now)
	if err != nil {
		return MonthSummary{}, err
	}
	entries, err := s.store.EntriesInPeriod(ctx, workspaceID, period.Start, period.End)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("entries: %w", err)
	}

	sums := make(map[string]int64)
	summary := MonthSummary{Period: period}
	for _, e := range entries {
		if e.Kind.IsDebtPayment() {
			continue
		}
		sums[e.Category] += e.AmountCents
		summary.TotalCents += e.AmountCents
	}
	for category, cents := range sums {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: category, Cents: cents})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if a.Cents != b.Cents {
			return a.Cents > b.Cents
		}
		return a.Category < b.Category
	})
	return summary, nil
}

// YearTotals returns every month of a year with its expense total.
func (s *LedgerService) YearTotals(ctx context.Context, workspaceID, yearInput string, now time.Time) ([]MonthSummary, int, error) {
	periods, year, err := core.YearPeriods(yearInput, now)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]MonthSummary, 0, len(periods))
	for _, period := range periods {
		entries, err := s.store.EntriesInPeriod(ctx, workspaceID, period.Start, period.End)
		if err != nil {
			return nil, 0, fmt.Errorf("entries: %w", err)
		}
		summary := MonthSummary{Period: period}
		for _, e := range entries {
			if !e.Kind.IsDebtPayment() {
				summary.TotalCents += e.AmountCents
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, year, nil
}

// Balance runs the 50/50 engine over the current month's snapshot.
// A nil result means there is nothing to settle.
func (s *LedgerService) Balance(ctx context.Context, workspaceID string, now time.Time) (*core.BalanceResult, core.Period, error) {
	period, err := core.MonthPeriod("", now)
	if err != nil {
		return nil, core.Period{}, err
	}
	entries, err := s.store.EntriesInPeriod(ctx, workspaceID, period.Start, period.End)
	if err != nil {
		return nil, core.Period{}, fmt.Errorf("entries: %w", err)
	}
	members, err := s.store.MembersByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, core.Period{}, fmt.Errorf("members: %w", err)
	}
	return core.ComputeBalance(entries, members), period, nil
}

// Find searches a month's entries by description.
func (s *LedgerService) Find(ctx context.Context, workspaceID, term, monthInput string, now time.Time) ([]core.LedgerEntry, core.Period, error) {
	period, err := core.MonthPeriod(monthInput, now)
	if err != nil {
		return nil, core.Period{}, err
	}
	entries, err := s.store.SearchEntries(ctx, workspaceID, term, period.Start, period.End)
	if err != nil {
		return nil, core.Period{}, fmt.Errorf("search: %w", err)
	}
	return entries, period, nil
}

// MonthEntries lists a month's entries for export, oldest first.
func (s *LedgerService) MonthEntries(ctx context.Context, workspaceID, monthInput string, now time.Time) ([]core.LedgerEntry, core.Period, error) {
	period, err := core.MonthPeriod(monthInput, now)
	if err != nil {
		return nil, core.Period{}, err
	}
	entries, err := s.store.EntriesInPeriod(ctx, workspaceID, period.Start, period.End)
	if err != nil {
		return nil, core.Period{}, fmt.Errorf("entries: %w", err)
	}
	return entries, period, nil
}

// LastEntries returns the n most recent entries.
func (s *LedgerService) LastEntries(ctx context.Context, workspaceID string, n int) ([]core.LedgerEntry, error) {
	return s.store.LastEntries(ctx, workspaceID, n)
}

// EntryByID fetches a single entry.
func (s *LedgerService) EntryByID(ctx context.Context, id string) (core.LedgerEntry, error) {
	return s.store.EntryByID(ctx, id)
}

// MemberByID fetches a single member.
func (s *LedgerService) MemberByID(ctx context.Context, id string) (core.Member, error) {
	return s.store.MemberByID(ctx, id)
}

// Members returns the workspace's members keyed by id, for rendering
// payer names.
func (s *LedgerService) Members(ctx context.Context, workspaceID string) (map[string]core.Member, error) {
	list, err := s.store.MembersByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("members: %w", err)
	}
	out := make(map[string]core.Member, len(list))
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

// RegisterMember upserts a member, used by the first-contact name flow.
func (s *LedgerService) RegisterMember(ctx context.Context, id, username, firstName string) (core.Member, error) {
	return s.store.FindOrCreateMember(ctx, id, username, firstName)
}

// UpdateEntryAmount re-parses the amount and updates the entry.
func (s *LedgerService) UpdateEntryAmount(ctx context.Context, id, workspaceID, amountInput string) (core.LedgerEntry, error) {
	amountCents, err := core.ParseAmount(amountInput)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	entry, err := s.store.UpdateEntryAmount(ctx, id, workspaceID, amountCents)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	s.publish(ctx, amqp.NewEntryRecorded(entry.ID, entry.WorkspaceID))
	return entry, nil
}

// DeleteEntry removes an entry and announces the deletion.
func (s *LedgerService) DeleteEntry(ctx context.Context, id, workspaceID string) error {
	if err := s.store.DeleteEntry(ctx, id, workspaceID); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewEntryDeleted(id, workspaceID))
	return nil
}

// publish is best effort: the entry is already stored locally, sync
// failures must not fail the user's command.
func (s *LedgerService) publish(ctx context.Context, msg *amqp.EntryEventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntryEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"event", msg.Event, "entry_id", msg.EntryID, "error", err)
	}
}
