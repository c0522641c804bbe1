// Package ecs implements a generic entity/component store: entities are
// generation-checked ids, components live in per-type sparse maps, and
// systems iterate via Join over whichever component sets they need.
package ecs

import "sync"

// EntityID packs an index and a generation counter. The generation
// increments every time an index is recycled, so a stale EntityID held past
// a Delete never aliases the entity that replaces it.
type EntityID struct {
	index      uint32
	generation uint32
}

// Registry allocates and recycles EntityIDs, tracking liveness by
// generation, grounded on the teacher's atomic-counter id allocation in
// entity.EntityManager but generalized to support recycling free slots.
type Registry struct {
	mu          sync.RWMutex
	generations []uint32
	free        []uint32
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a new EntityID, reusing a freed index when available.
func (r *Registry) Create() EntityID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		return EntityID{index: idx, generation: r.generations[idx]}
	}
	idx := uint32(len(r.generations))
	r.generations = append(r.generations, 0)
	return EntityID{index: idx, generation: 0}
}

// Delete retires id, bumping its generation so any other EntityID pointing
// at the same index is no longer considered alive.
func (r *Registry) Delete(id EntityID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(id.index) >= len(r.generations) || r.generations[id.index] != id.generation {
		return
	}
	r.generations[id.index]++
	r.free = append(r.free, id.index)
}

// IsAlive reports whether id still refers to a live entity.
func (r *Registry) IsAlive(id EntityID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int(id.index) < len(r.generations) && r.generations[id.index] == id.generation
}

// Count returns the number of currently live entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.generations) - len(r.free)
}
