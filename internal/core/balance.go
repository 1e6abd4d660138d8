package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceResult is the outcome of a 50/50 split between the two parties
// under consideration. It is derived fresh on every call and never
// persisted.
//
// Net is signed: positive means PartyB owes PartyA, negative means
// PartyA owes PartyB. Share and Net carry exact halves so an odd total
// never loses its half cent before display.
type BalanceResult struct {
	PartyA Member
	PartyB Member

	// Cents of ordinary expenses paid by each party.
	PaidA int64
	PaidB int64

	// Cents of debt payments made by each party. A payment by A
	// reduces what B owes A.
	SettledByA int64
	SettledByB int64

	Total int64
	Share decimal.Decimal
	Net   decimal.Decimal

	// OverflowWarning is non-empty when the workspace has more than
	// two members; only the first two take part in the split.
	OverflowWarning string
}

// Settled reports whether the parties are even to the cent.
func (r *BalanceResult) Settled() bool {
	return r.Net.Abs().LessThan(decimal.NewFromInt(1))
}

// ComputeBalance reduces a snapshot of entries and members to a single
// signed balance between the first two members.
//
// A nil result means there is nothing to settle (no entries or no
// members); callers must render that as a distinct state, not as a zero
// balance. Entries attributed to neither selected party are silently
// excluded; that permissiveness is deliberate, the engine raises no
// errors for any well-formed input.
func ComputeBalance(entries []LedgerEntry, members []Member) *BalanceResult {
	if len(entries) == 0 || len(members) == 0 {
		return nil
	}

	partyA := members[0]
	partyB := partyA
	pairDegenerate := len(members) < 2
	if !pairDegenerate {
		partyB = members[1]
	}

	result := &BalanceResult{PartyA: partyA, PartyB: partyB}

	for _, e := range entries {
		switch {
		case e.PaidBy == partyA.ID:
			if e.Kind.IsDebtPayment() {
				result.SettledByA += e.AmountCents
			} else {
				result.PaidA += e.AmountCents
			}
		case !pairDegenerate && e.PaidBy == partyB.ID:
			// With a single member PartyB is an alias of PartyA;
			// the B side stays zero so entries count once.
			if e.Kind.IsDebtPayment() {
				result.SettledByB += e.AmountCents
			} else {
				result.PaidB += e.AmountCents
			}
		}
	}

	result.Total = result.PaidA + result.PaidB
	result.Share = decimal.NewFromInt(result.Total).Div(decimal.NewFromInt(2))

	// Base imbalance from ordinary spending, then settlement
	// adjustments: a payment by A shrinks B's debt toward A, a
	// payment by B grows it.
	result.Net = decimal.NewFromInt(result.PaidA).
		Sub(result.Share).
		Sub(decimal.NewFromInt(result.SettledByA)).
		Add(decimal.NewFromInt(result.SettledByB))

	if len(members) > 2 {
		result.OverflowWarning = fmt.Sprintf(
			"Este workspace tiene más de 2 miembros (%d). El balance considera solo los primeros 2 miembros activos.",
			len(members))
	}

	return result
}
