// Package region implements the Region Manager: entities are grouped by the
// RegionKey of their position, with hysteresis against rapid border
// flapping and per-region enter/leave event logs for the sync and streaming
// layers to consume each tick.
package region

import (
	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// RegionKey identifies a region by its grid coordinate.
type RegionKey = vec.RegionKey

// EventKind distinguishes why an entity's membership in a region changed.
type EventKind uint8

const (
	EventEntered EventKind = iota
	EventLeft
)

// Event records one entity's membership change in a region during a tick.
type Event struct {
	Kind   EventKind
	Entity ecs.EntityID
	// Other names the region the entity came from (on Entered) or went to
	// (on Left); zero value means "had no region" (newly tracked / despawned).
	Other    RegionKey
	HasOther bool
}

// Region holds the entities currently within one RegionKey, plus the events
// that occurred this tick.
type Region struct {
	key       RegionKey
	entities  map[ecs.EntityID]struct{}
	neighbors [8]*Region
	events    []Event
}

func newRegion(key RegionKey) *Region {
	return &Region{key: key, entities: make(map[ecs.EntityID]struct{})}
}

// Key returns the region's coordinate.
func (r *Region) Key() RegionKey { return r.key }

// Entities returns the set of entities currently tracked in this region.
// The returned slice is a fresh copy safe to range over while the manager
// mutates the region.
func (r *Region) Entities() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(r.entities))
	for id := range r.entities {
		out = append(out, id)
	}
	return out
}

// Events returns this tick's enter/leave log, valid until the next Tick call.
func (r *Region) Events() []Event { return r.events }

// Neighbors returns the up-to-8 adjacent regions that currently exist; a nil
// entry means no region has been created there yet.
func (r *Region) Neighbors() [8]*Region { return r.neighbors }

func (r *Region) removable() bool {
	return len(r.entities) == 0 && len(r.events) == 0
}

func (r *Region) add(id ecs.EntityID, from RegionKey, hasFrom bool) {
	r.entities[id] = struct{}{}
	r.events = append(r.events, Event{Kind: EventEntered, Entity: id, Other: from, HasOther: hasFrom})
}

func (r *Region) remove(id ecs.EntityID, to RegionKey, hasTo bool) {
	delete(r.entities, id)
	r.events = append(r.events, Event{Kind: EventLeft, Entity: id, Other: to, HasOther: hasTo})
}
