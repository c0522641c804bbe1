// Package sync decides, every tick and for every connected client, which
// components of which nearby entities actually need to go out over the
// wire: Tracker throttles each (client, entity) pair by distance and skips
// anything that hasn't changed since the last send.
package sync

import (
	"sync"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Components is the subset of entity state entity sync cares about: the
// fields a client needs to render and predict another entity.
type Components struct {
	Pos            vec.Vec3f
	Vel            vec.Vec3f
	Ori            float32
	CharacterState string // kind discriminator only, not exact equality
}

// Update carries only the fields that changed since the last sync for this
// (client, entity) pair; nil means "unchanged, omit from the wire package".
type Update struct {
	Entity         ecs.EntityID
	Pos            *vec.Vec3f
	Vel            *vec.Vec3f
	Ori            *float32
	CharacterState *string
}

// Empty reports whether every field was unchanged.
func (u Update) Empty() bool {
	return u.Pos == nil && u.Vel == nil && u.Ori == nil && u.CharacterState == nil
}

// Tracker remembers, per client, the last Components sent for each entity it
// knows about, so later ticks can diff against it.
type Tracker struct {
	mu   sync.Mutex
	last map[ecs.EntityID]map[ecs.EntityID]Components
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{last: make(map[ecs.EntityID]map[ecs.EntityID]Components)}
}

// Evaluate decides whether client should receive an update for entity this
// tick and, if so, returns the changed-component diff. isSelf marks entity
// as the client's own controlled entity: its physics is withheld unless
// forceUpdate is set, matching a client never needing its own predicted
// position echoed back except on a hard correction.
func (t *Tracker) Evaluate(client, entity ecs.EntityID, tick uint64, distance float64, forceUpdate, isSelf bool, current Components) (Update, bool) {
	if isSelf && !forceUpdate {
		return Update{}, false
	}
	if !Due(tick, ThrottleInterval(distance), forceUpdate) {
		return Update{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entities := t.last[client]
	if entities == nil {
		entities = make(map[ecs.EntityID]Components)
		t.last[client] = entities
	}
	prev, known := entities[entity]

	var u Update
	u.Entity = entity
	if !known || prev.Pos != current.Pos {
		p := current.Pos
		u.Pos = &p
	}
	if !known || prev.Vel != current.Vel {
		v := current.Vel
		u.Vel = &v
	}
	if !known || prev.Ori != current.Ori {
		o := current.Ori
		u.Ori = &o
	}
	if !known || prev.CharacterState != current.CharacterState {
		cs := current.CharacterState
		u.CharacterState = &cs
	}
	if u.Empty() {
		return Update{}, false
	}

	entities[entity] = current
	return u, true
}

// Forget drops tracked state for one entity under one client, e.g. once
// streaming sends that client a DeleteEntity for it.
func (t *Tracker) Forget(client, entity ecs.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if entities, ok := t.last[client]; ok {
		delete(entities, entity)
	}
}

// ForgetClient drops all tracked state for a client, e.g. on disconnect.
func (t *Tracker) ForgetClient(client ecs.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, client)
}
