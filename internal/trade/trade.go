// Package trade implements the two-party item trade negotiation: items
// stay in each party's own inventory, referenced by slot, until both
// parties accept through all phases and the trade commits atomically.
package trade

import (
	"github.com/ashfall-games/worldcore/internal/ecs"
)

// Phase is where a PendingTrade sits in its negotiation.
type Phase int

const (
	PhaseMutate Phase = iota
	PhaseReview
	PhaseComplete
)

func (p Phase) next() Phase {
	switch p {
	case PhaseMutate:
		return PhaseReview
	case PhaseReview:
		return PhaseComplete
	default:
		return PhaseComplete
	}
}

// SlotID identifies one inventory slot within a party's own inventory.
type SlotID struct {
	Container string
	Index     int
}

// Inventory reports how many of the item in a slot a party actually owns,
// so an offer can never claim more than the party holds.
type Inventory interface {
	Amount(slot SlotID) uint32
}

// Action is one client-submitted trade mutation. Which is filled in by the
// server from the sender's identity, never trusted from the client, matching
// "clients submit TradeAction, the server adds the party's identity
// out-of-band."
type Action struct {
	Kind     ActionKind
	Item     SlotID
	Quantity uint32
	Ours     bool
	Phase    Phase // only meaningful for ActionAccept
}

type ActionKind int

const (
	ActionAddItem ActionKind = iota
	ActionRemoveItem
	ActionAccept
	ActionDecline
)

// Result is the terminal outcome of a trade once it leaves PhaseComplete.
type Result int

const (
	ResultCompleted Result = iota
	ResultDeclined
	ResultNotEnoughSpace
)

// PendingTrade is a two-party negotiation over item offers; items are never
// moved out of either party's inventory until the trade reaches
// PhaseComplete and the caller commits it atomically.
type PendingTrade struct {
	Parties     [2]ecs.EntityID
	Offers      [2]map[SlotID]uint32
	phase       Phase
	AcceptFlags [2]bool
}

// New starts a trade between party and counterparty in PhaseMutate.
func New(party, counterparty ecs.EntityID) *PendingTrade {
	return &PendingTrade{
		Parties: [2]ecs.EntityID{party, counterparty},
		Offers:  [2]map[SlotID]uint32{make(map[SlotID]uint32), make(map[SlotID]uint32)},
	}
}

// Phase reports the trade's current phase.
func (t *PendingTrade) Phase() Phase { return t.phase }

// ShouldCommit reports whether the trade has reached PhaseComplete and its
// offers should be applied atomically.
func (t *PendingTrade) ShouldCommit() bool { return t.phase == PhaseComplete }

// IsEmpty reports whether neither party has offered anything.
func (t *PendingTrade) IsEmpty() bool {
	return len(t.Offers[0]) == 0 && len(t.Offers[1]) == 0
}

// WhichParty returns the index of party within Parties, or false if it
// isn't one of the two.
func (t *PendingTrade) WhichParty(party ecs.EntityID) (int, bool) {
	for i, p := range t.Parties {
		if p == party {
			return i, true
		}
	}
	return 0, false
}

// Process applies one action submitted by who (an index into Parties), per
// the invariants: mutation only happens in PhaseMutate, an offer is capped
// at the party's owned quantity, any mutation resets both accept flags, and
// Accept only counts for the trade's current phase.
func (t *PendingTrade) Process(who int, action Action, inventories [2]Inventory) {
	switch action.Kind {
	case ActionAddItem:
		if t.phase != PhaseMutate || action.Quantity == 0 {
			return
		}
		target := who
		if !action.Ours {
			target = 1 - who
		}
		owned := inventories[target].Amount(action.Item)
		total := t.Offers[target][action.Item] + action.Quantity
		if total > owned {
			total = owned
		}
		t.Offers[target][action.Item] = total
		t.AcceptFlags = [2]bool{false, false}

	case ActionRemoveItem:
		if t.phase != PhaseMutate {
			return
		}
		target := who
		if !action.Ours {
			target = 1 - who
		}
		current := t.Offers[target][action.Item]
		if action.Quantity >= current {
			delete(t.Offers[target], action.Item)
		} else {
			t.Offers[target][action.Item] = current - action.Quantity
		}
		t.AcceptFlags = [2]bool{false, false}

	case ActionAccept:
		if t.phase == action.Phase && !t.IsEmpty() {
			t.AcceptFlags[who] = true
		}
		if t.AcceptFlags[0] && t.AcceptFlags[1] {
			t.phase = t.phase.next()
			t.AcceptFlags = [2]bool{false, false}
		}

	case ActionDecline:
		// handled by the caller dropping the trade; nothing to mutate here
	}
}
