package trade

import (
	"sync"

	"github.com/ashfall-games/worldcore/internal/ecs"
)

// ID identifies one in-flight trade.
type ID uint64

// Manager owns all in-flight trades and each entity's membership in at most
// one of them at a time.
type Manager struct {
	mu           sync.Mutex
	nextID       ID
	trades       map[ID]*PendingTrade
	entityTrades map[ecs.EntityID]ID
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		trades:       make(map[ID]*PendingTrade),
		entityTrades: make(map[ecs.EntityID]ID),
	}
}

// Begin starts a new trade between party and counterparty, evicting either
// party from any trade they were already in.
func (m *Manager) Begin(party, counterparty ecs.EntityID) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeEntityLocked(party)
	m.removeEntityLocked(counterparty)

	id := m.nextID
	m.nextID++
	m.trades[id] = New(party, counterparty)
	m.entityTrades[party] = id
	m.entityTrades[counterparty] = id
	return id
}

func (m *Manager) removeEntityLocked(entity ecs.EntityID) {
	if id, ok := m.entityTrades[entity]; ok {
		if t, ok := m.trades[id]; ok {
			delete(m.entityTrades, t.Parties[0])
			delete(m.entityTrades, t.Parties[1])
		}
		delete(m.trades, id)
	}
}

// Get returns the trade with id, if one is active.
func (m *Manager) Get(id ID) (*PendingTrade, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trades[id]
	return t, ok
}

// InTradeWith reports the trade id an entity currently participates in.
func (m *Manager) InTradeWith(entity ecs.EntityID) (ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.entityTrades[entity]
	return id, ok
}

// Process routes an Action from who into trade id's negotiation. An entity
// that isn't a party to the trade is ignored, matching "invalid client
// inputs are ignored silently" for a non-party trying to mutate a trade it
// has no part in.
func (m *Manager) Process(id ID, who ecs.EntityID, action Action, inventories [2]Inventory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trades[id]
	if !ok {
		return
	}
	party, ok := t.WhichParty(who)
	if !ok {
		return
	}
	t.Process(party, action, inventories)
}

// Decline removes trade id entirely and returns the other party, so the
// caller can notify them the trade ended.
func (m *Manager) Decline(id ID, who ecs.EntityID) (ecs.EntityID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trades[id]
	if !ok {
		return ecs.EntityID{}, false
	}
	party, ok := t.WhichParty(who)
	if !ok {
		return ecs.EntityID{}, false
	}
	delete(m.entityTrades, t.Parties[0])
	delete(m.entityTrades, t.Parties[1])
	delete(m.trades, id)
	return t.Parties[1-party], true
}

// Commit removes trade id once its caller has applied ShouldCommit's item
// transfer, freeing both parties to start a new trade.
func (m *Manager) Commit(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trades[id]; ok {
		delete(m.entityTrades, t.Parties[0])
		delete(m.entityTrades, t.Parties[1])
		delete(m.trades, id)
	}
}
