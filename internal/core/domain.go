package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// KindExpense marks money spent on behalf of the group.
	KindExpense EntryKind = "expense"
	// KindDebtPayment marks one member paying the other back.
	KindDebtPayment EntryKind = "debt_payment"
)

type (
	EntryKind string

	// Member is a participant identified by an opaque stable id.
	// Display fields are optional and never drive any computation.
	Member struct {
		ID        string
		Username  string
		FirstName string
	}

	// Workspace groups entries and members, keyed by chat id.
	Workspace struct {
		ID        string
		Title     string
		CreatedAt time.Time
	}

	// LedgerEntry is an immutable fact about money moving within a group.
	// AmountCents is always a non-negative integer number of minor units.
	LedgerEntry struct {
		ID          string
		WorkspaceID string
		AmountCents int64
		Currency    string
		Description string
		Category    string
		PaidBy      string // member id
		Kind        EntryKind
		Date        time.Time
		CreatedAt   time.Time
		CreatedBy   string // member id
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidYear     = errors.New("invalid year")
)

// IsDebtPayment reports whether the entry settles debt instead of adding
// a shared expense. Anything not explicitly a debt payment is ordinary.
func (k EntryKind) IsDebtPayment() bool {
	return k == KindDebtPayment
}

func (e LedgerEntry) Validate() error {
	if e.AmountCents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.PaidBy) == "" {
		return errors.New("empty payer")
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// DisplayName picks the best human name for a member.
func (m Member) DisplayName() string {
	if m.FirstName != "" {
		return m.FirstName
	}
	if m.Username != "" {
		return "@" + m.Username
	}
	return "Usuario"
}
