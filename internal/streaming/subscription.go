// Package streaming maintains each client's view-distance-derived region
// subscription and turns region enter/leave into CreateEntity/DeleteEntity
// messages, and wraps terrain chunk serialization for delivery. It builds
// on top of internal/region's per-region entity sets and enter/leave event
// log rather than keeping its own delta-versioned chunk store, the way the
// teacher's BlockDeltaManager did.
package streaming

import (
	"sync"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/region"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Snapshot is the initial unsynced component state sent with a CreateEntity,
// matching the fields entity sync itself tracks (Pos/Vel/Ori/CharacterState).
type Snapshot struct {
	Pos            vec.Vec3f
	Vel            vec.Vec3f
	Ori            float32
	CharacterState string
}

// SnapshotFunc looks up the current Snapshot for an entity. It returns false
// if the entity no longer exists (e.g. it despawned the same tick it left a
// region).
type SnapshotFunc func(id ecs.EntityID) (Snapshot, bool)

// CreateEntity is sent the first time an entity becomes visible to a client.
type CreateEntity struct {
	Entity   ecs.EntityID
	Snapshot Snapshot
}

// DeleteEntity is sent when an entity that was visible to a client stops
// being visible, either because the client's subscribed region set no
// longer includes it or the entity moved to a region outside that set.
type DeleteEntity struct {
	Entity ecs.EntityID
}

// ClientUpdate batches everything one client should receive this tick.
type ClientUpdate struct {
	Client  ecs.EntityID
	Creates []CreateEntity
	Deletes []DeleteEntity
}

// RegionRadius converts a view distance expressed in chunks (the unit
// clients configure, matching the original game's view-distance slider)
// into a region radius: the number of whole regions needed to cover that
// many chunks outward from the center region. Region granularity is coarser
// than chunk granularity (RegionSize is ChunkSize * 16), so small view
// distance changes within one region's span don't change the subscribed set.
func RegionRadius(viewDistanceChunks int) int {
	if viewDistanceChunks < 1 {
		viewDistanceChunks = 1
	}
	viewBlocks := viewDistanceChunks * vec.ChunkSize
	radius := viewBlocks / vec.RegionSize
	if viewBlocks%vec.RegionSize != 0 {
		radius++
	}
	if radius < 1 {
		radius = 1
	}
	return radius
}

func regionsInRadius(center region.RegionKey, radius int) map[region.RegionKey]struct{} {
	set := make(map[region.RegionKey]struct{}, (2*radius+1)*(2*radius+1))
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			set[region.RegionKey{X: center.X + int32(dx), Y: center.Y + int32(dy)}] = struct{}{}
		}
	}
	return set
}

// subscriber tracks one client's subscribed region set and the entities it
// currently knows about within that set.
type subscriber struct {
	viewDistance int
	regions      map[region.RegionKey]struct{}
	known        map[ecs.EntityID]struct{}
}

// Manager subscribes clients to a bounded region set around their position
// and, each tick, diffs that set (plus region enter/leave events for regions
// whose subscription didn't change) into Create/Delete messages.
type Manager struct {
	mu   sync.Mutex
	subs map[ecs.EntityID]*subscriber
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{subs: make(map[ecs.EntityID]*subscriber)}
}

// Subscribe registers a client with the given view distance (in chunks). A
// client must be subscribed before Sync produces any update for it.
func (m *Manager) Subscribe(client ecs.EntityID, viewDistanceChunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[client] = &subscriber{
		viewDistance: viewDistanceChunks,
		regions:      make(map[region.RegionKey]struct{}),
		known:        make(map[ecs.EntityID]struct{}),
	}
}

// UpdateViewDistance changes a subscribed client's view distance; it takes
// effect on the next Sync call.
func (m *Manager) UpdateViewDistance(client ecs.EntityID, viewDistanceChunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subs[client]; ok {
		s.viewDistance = viewDistanceChunks
	}
}

// Unsubscribe drops a client's subscription entirely. No further updates are
// produced for it until Subscribe is called again.
func (m *Manager) Unsubscribe(client ecs.EntityID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, client)
}

// Sync computes per-client Create/Delete updates for one tick. centers gives
// each subscribed client's current region (typically ToRegionKey() of its
// Pos); a client missing from centers is skipped for this tick. regions is
// the world's region.Manager, already ticked for this frame so its Events()
// reflect this tick's migrations. snapshot resolves entity component state
// for CreateEntity payloads.
func (m *Manager) Sync(regions *region.Manager, centers map[ecs.EntityID]region.RegionKey, snapshot SnapshotFunc) []ClientUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()

	var updates []ClientUpdate
	for client, sub := range m.subs {
		center, ok := centers[client]
		if !ok {
			continue
		}

		newSet := regionsInRadius(center, RegionRadius(sub.viewDistance))
		var creates []CreateEntity
		var deletes []DeleteEntity

		for key := range newSet {
			if _, wasSubscribed := sub.regions[key]; wasSubscribed {
				continue // unchanged region, handled via events below
			}
			if r, ok := regions.Get(key); ok {
				for _, id := range r.Entities() {
					creates = append(creates, m.tryCreate(sub, id, snapshot)...)
				}
			}
		}

		for key := range sub.regions {
			if _, stillSubscribed := newSet[key]; stillSubscribed {
				continue
			}
			if r, ok := regions.Get(key); ok {
				for _, id := range r.Entities() {
					if d, ok := m.tryDelete(sub, id); ok {
						deletes = append(deletes, d)
					}
				}
			}
		}

		for key := range newSet {
			if _, wasSubscribed := sub.regions[key]; !wasSubscribed {
				continue // already snapshotted wholesale above
			}
			r, ok := regions.Get(key)
			if !ok {
				continue
			}
			for _, ev := range r.Events() {
				switch ev.Kind {
				case region.EventEntered:
					creates = append(creates, m.tryCreate(sub, ev.Entity, snapshot)...)
				case region.EventLeft:
					wentToSubscribed := ev.HasOther
					if wentToSubscribed {
						if _, still := newSet[ev.Other]; !still {
							wentToSubscribed = false
						}
					}
					if !wentToSubscribed {
						if d, ok := m.tryDelete(sub, ev.Entity); ok {
							deletes = append(deletes, d)
						}
					}
				}
			}
		}

		sub.regions = newSet
		if len(creates) > 0 || len(deletes) > 0 {
			updates = append(updates, ClientUpdate{Client: client, Creates: creates, Deletes: deletes})
		}
	}
	return updates
}

func (m *Manager) tryCreate(sub *subscriber, id ecs.EntityID, snapshot SnapshotFunc) []CreateEntity {
	if _, known := sub.known[id]; known {
		return nil
	}
	snap, ok := snapshot(id)
	if !ok {
		return nil
	}
	sub.known[id] = struct{}{}
	return []CreateEntity{{Entity: id, Snapshot: snap}}
}

func (m *Manager) tryDelete(sub *subscriber, id ecs.EntityID) (DeleteEntity, bool) {
	if _, known := sub.known[id]; !known {
		return DeleteEntity{}, false
	}
	delete(sub.known, id)
	return DeleteEntity{Entity: id}, true
}
