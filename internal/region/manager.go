package region

import (
	"sync"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// tether is the hysteresis distance (in blocks) an entity must stray outside
// its current region's bounds before it migrates, preventing rapid
// switching near a border.
const tether = vec.Tether

// Manager tracks which Region each entity belongs to and migrates entities
// across region borders with hysteresis.
type Manager struct {
	mu      sync.Mutex
	regions map[RegionKey]*Region
	current map[ecs.EntityID]RegionKey
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		regions: make(map[RegionKey]*Region),
		current: make(map[ecs.EntityID]RegionKey),
	}
}

// Get returns the region at key, if one has been created.
func (m *Manager) Get(key RegionKey) (*Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regions[key]
	return r, ok
}

// RegionOf returns the region an entity currently belongs to.
func (m *Manager) RegionOf(id ecs.EntityID) (RegionKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.current[id]
	return k, ok
}

// Count returns the number of live regions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regions)
}

// Tick clears per-region event logs from the previous tick, then adds any
// newly-seen entities, migrates entities that have strayed past the tether
// distance from their region's border, and removes tracked entities that
// are absent from positions. positions gives each tracked entity's current
// block position.
func (m *Manager) Tick(positions map[ecs.EntityID]vec.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		r.events = r.events[:0]
	}

	for id, pos := range positions {
		key := pos.ToRegionKey()
		curKey, tracked := m.current[id]
		if !tracked {
			m.addEntity(id, key, RegionKey{}, false)
			continue
		}
		if key == curKey {
			continue
		}
		if withinTether(pos, curKey) {
			continue
		}
		m.regionFor(curKey).remove(id, key, true)
		m.addEntity(id, key, curKey, true)
	}

	for id, curKey := range m.current {
		if _, stillPositioned := positions[id]; stillPositioned {
			continue
		}
		m.regionFor(curKey).remove(id, RegionKey{}, false)
		delete(m.current, id)
	}

	for key, r := range m.regions {
		if r.removable() {
			m.detachNeighbors(r)
			delete(m.regions, key)
		}
	}
}

// withinTether reports whether pos is still close enough to the interior of
// its current region that a border crossing shouldn't trigger migration yet.
func withinTether(pos vec.Vec3, key RegionKey) bool {
	min := key.MinCorner()
	localX := pos.X - min.X
	localY := pos.Y - min.Y
	return localX >= -tether && localX < vec.RegionSize+tether &&
		localY >= -tether && localY < vec.RegionSize+tether
}

func (m *Manager) addEntity(id ecs.EntityID, key, from RegionKey, hasFrom bool) {
	m.regionFor(key).add(id, from, hasFrom)
	m.current[id] = key
}

func (m *Manager) regionFor(key RegionKey) *Region {
	if r, ok := m.regions[key]; ok {
		return r
	}
	r := newRegion(key)
	m.regions[key] = r
	m.attachNeighbors(r)
	return r
}

func neighborKeys(key RegionKey) [8]RegionKey {
	// Mirrors ChunkKey.Neighbors8 at region granularity.
	return [8]RegionKey{
		{X: key.X - 1, Y: key.Y - 1}, {X: key.X, Y: key.Y - 1}, {X: key.X + 1, Y: key.Y - 1},
		{X: key.X - 1, Y: key.Y}, {X: key.X + 1, Y: key.Y},
		{X: key.X - 1, Y: key.Y + 1}, {X: key.X, Y: key.Y + 1}, {X: key.X + 1, Y: key.Y + 1},
	}
}

// opposite maps a neighbor slot to the slot that points back: the 8-neighbor
// ordering above is symmetric under point reflection through the center, so
// this is simply the reverse index.
var opposite = [8]int{7, 6, 5, 4, 3, 2, 1, 0}

func (m *Manager) attachNeighbors(r *Region) {
	keys := neighborKeys(r.key)
	for i, k := range keys {
		if n, ok := m.regions[k]; ok {
			r.neighbors[i] = n
			n.neighbors[opposite[i]] = r
		}
	}
}

func (m *Manager) detachNeighbors(r *Region) {
	for i, n := range r.neighbors {
		if n != nil {
			n.neighbors[opposite[i]] = nil
		}
	}
}
