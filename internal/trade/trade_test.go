package trade

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/ecs"
)

type fakeInventory struct{ amounts map[SlotID]uint32 }

func (f fakeInventory) Amount(slot SlotID) uint32 { return f.amounts[slot] }

func TestAddItemCapsAtOwnedQuantity(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b := reg.Create(), reg.Create()
	tr := New(a, b)
	slot := SlotID{Container: "inv", Index: 0}
	inv := [2]Inventory{
		fakeInventory{amounts: map[SlotID]uint32{slot: 5}},
		fakeInventory{},
	}

	tr.Process(0, Action{Kind: ActionAddItem, Item: slot, Quantity: 100, Ours: true}, inv)
	if tr.Offers[0][slot] != 5 {
		t.Fatalf("offer = %d, want capped at owned amount 5", tr.Offers[0][slot])
	}
}

func TestAddItemResetsBothAcceptFlags(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b := reg.Create(), reg.Create()
	tr := New(a, b)
	slot := SlotID{Container: "inv", Index: 0}
	inv := [2]Inventory{fakeInventory{amounts: map[SlotID]uint32{slot: 10}}, fakeInventory{}}

	tr.AcceptFlags = [2]bool{true, true}
	tr.Process(0, Action{Kind: ActionAddItem, Item: slot, Quantity: 1, Ours: true}, inv)
	if tr.AcceptFlags[0] || tr.AcceptFlags[1] {
		t.Fatal("mutating the trade should reset both accept flags")
	}
}

func TestMutationIgnoredOutsidePhaseMutate(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b := reg.Create(), reg.Create()
	tr := New(a, b)
	slot := SlotID{Container: "inv", Index: 0}
	inv := [2]Inventory{fakeInventory{amounts: map[SlotID]uint32{slot: 10}}, fakeInventory{}}

	tr.Process(0, Action{Kind: ActionAddItem, Item: slot, Quantity: 1, Ours: true}, inv)
	tr.Process(0, Action{Kind: ActionAccept, Phase: PhaseMutate}, inv)
	tr.Process(1, Action{Kind: ActionAccept, Phase: PhaseMutate}, inv)
	if tr.Phase() != PhaseReview {
		t.Fatalf("phase = %v, want PhaseReview after both accept", tr.Phase())
	}

	tr.Process(0, Action{Kind: ActionAddItem, Item: slot, Quantity: 1, Ours: true}, inv)
	if tr.Offers[0][slot] != 1 {
		t.Fatal("mutation after PhaseMutate must be ignored")
	}
}

func TestAcceptDoesNotCountForWrongPhase(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b := reg.Create(), reg.Create()
	tr := New(a, b)
	slot := SlotID{Container: "inv", Index: 0}
	inv := [2]Inventory{fakeInventory{amounts: map[SlotID]uint32{slot: 10}}, fakeInventory{}}
	tr.Process(0, Action{Kind: ActionAddItem, Item: slot, Quantity: 1, Ours: true}, inv)

	tr.Process(0, Action{Kind: ActionAccept, Phase: PhaseReview}, inv)
	if tr.AcceptFlags[0] {
		t.Fatal("an accept for a phase the trade isn't in must not register")
	}
}

func TestEmptyTradeCannotBeAccepted(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b := reg.Create(), reg.Create()
	tr := New(a, b)
	inv := [2]Inventory{fakeInventory{}, fakeInventory{}}

	tr.Process(0, Action{Kind: ActionAccept, Phase: PhaseMutate}, inv)
	if tr.AcceptFlags[0] {
		t.Fatal("an empty trade must not be acceptable")
	}
}

func TestManagerBeginEvictsPriorTrade(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b, c := reg.Create(), reg.Create(), reg.Create()
	m := NewManager()

	id1 := m.Begin(a, b)
	m.Begin(a, c)

	if _, ok := m.Get(id1); ok {
		t.Fatal("starting a new trade for a should evict the old one")
	}
	if _, ok := m.InTradeWith(b); ok {
		t.Fatal("b should no longer be in any trade")
	}
}

func TestManagerProcessIgnoresNonParty(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b, outsider := reg.Create(), reg.Create(), reg.Create()
	m := NewManager()
	id := m.Begin(a, b)
	slot := SlotID{Container: "inv", Index: 0}
	inv := [2]Inventory{fakeInventory{amounts: map[SlotID]uint32{slot: 10}}, fakeInventory{}}

	m.Process(id, outsider, Action{Kind: ActionAddItem, Item: slot, Quantity: 1, Ours: true}, inv)
	tr, _ := m.Get(id)
	if len(tr.Offers[0]) != 0 || len(tr.Offers[1]) != 0 {
		t.Fatal("a non-party action must be ignored")
	}
}

func TestManagerDeclineRemovesTradeAndReturnsOtherParty(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b := reg.Create(), reg.Create()
	m := NewManager()
	id := m.Begin(a, b)

	other, ok := m.Decline(id, a)
	if !ok || other != b {
		t.Fatalf("Decline = %v, %v, want b, true", other, ok)
	}
	if _, ok := m.Get(id); ok {
		t.Fatal("declined trade should no longer exist")
	}
	if _, ok := m.InTradeWith(b); ok {
		t.Fatal("b should be freed from the trade after decline")
	}
}
