// Package worker mirrors ledger entries into the spreadsheet as entry
// events arrive from the queue.
package worker

import (
	"context"
	"errors"
	"fmt"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/sheets"
	"gastos/internal/storage"
)

// EntrySource fetches the authoritative entry row for an event.
type EntrySource interface {
	EntryByID(ctx context.Context, id string) (core.LedgerEntry, error)
}

// Consumer delivers entry events until the context ends.
type Consumer interface {
	ConsumeEntryEvents(ctx context.Context, handler func(context.Context, *amqp.EntryEventMessage) error) error
}

// Sheet is the spreadsheet side of the sync.
type Sheet interface {
	sheets.EntryWriter
	sheets.EntryRemover
}

// SyncWorker applies entry events to the spreadsheet. Storage stays the
// source of truth; the sheet is a mirror that may lag.
type SyncWorker struct {
	entries  EntrySource
	sheet    Sheet
	consumer Consumer
	logger   *log.Logger
}

func NewSyncWorker(entries EntrySource, sheet Sheet, consumer Consumer, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		entries:  entries,
		sheet:    sheet,
		consumer: consumer,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run consumes events until the context is canceled.
func (w *SyncWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting sync worker", log.FieldOperation, log.OpStartup)
	return w.consumer.ConsumeEntryEvents(ctx, w.Handle)
}

// Handle applies one event. A returned error requeues the event.
func (w *SyncWorker) Handle(ctx context.Context, msg *amqp.EntryEventMessage) error {
	switch msg.Event {
	case amqp.EventEntryRecorded:
		return w.handleRecorded(ctx, msg)
	case amqp.EventEntryDeleted:
		return w.handleDeleted(ctx, msg)
	default:
		// Unknown events are dropped, requeueing them would loop forever.
		w.logger.WarnContext(ctx, "Ignoring unknown event", "event", msg.Event)
		return nil
	}
}

func (w *SyncWorker) handleRecorded(ctx context.Context, msg *amqp.EntryEventMessage) error {
	entry, err := w.entries.EntryByID(ctx, msg.EntryID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before we got to it; the deletion event will follow.
		w.logger.WarnContext(ctx, "Entry vanished before sync",
			log.FieldEntryID, msg.EntryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load entry %s: %w", msg.EntryID, err)
	}

	// Idempotent against redelivery: drop any earlier copy of the row
	// before appending the current state.
	if err := w.sheet.Remove(ctx, entry.ID); err != nil {
		return fmt.Errorf("remove stale row for %s: %w", entry.ID, err)
	}
	rowRef, err := w.sheet.Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("append entry %s: %w", entry.ID, err)
	}

	w.logger.InfoContext(ctx, "Synced entry to sheet",
		log.FieldEntryID, entry.ID,
		log.FieldWorkspaceID, entry.WorkspaceID,
		log.FieldAmountCents, entry.AmountCents,
		"row", rowRef)
	return nil
}

func (w *SyncWorker) handleDeleted(ctx context.Context, msg *amqp.EntryEventMessage) error {
	if err := w.sheet.Remove(ctx, msg.EntryID); err != nil {
		return fmt.Errorf("remove entry %s: %w", msg.EntryID, err)
	}
	w.logger.InfoContext(ctx, "Removed entry from sheet",
		log.FieldEntryID, msg.EntryID,
		log.FieldWorkspaceID, msg.WorkspaceID)
	return nil
}
