package region

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickTracksNewEntity(t *testing.T) {
	m := NewManager()
	r := ecs.NewRegistry()
	id := r.Create()

	m.Tick(map[ecs.EntityID]vec.Vec3{id: {X: 10, Y: 10, Z: 0}})

	key, ok := m.RegionOf(id)
	require.True(t, ok)
	assert.Equal(t, vec.Vec3{X: 10, Y: 10}.ToRegionKey(), key)

	reg, ok := m.Get(key)
	require.True(t, ok)
	events := reg.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventEntered, events[0].Kind)
}

func TestTickRemovesDespawnedEntity(t *testing.T) {
	m := NewManager()
	r := ecs.NewRegistry()
	id := r.Create()

	m.Tick(map[ecs.EntityID]vec.Vec3{id: {X: 0, Y: 0, Z: 0}})
	m.Tick(map[ecs.EntityID]vec.Vec3{})

	_, ok := m.RegionOf(id)
	assert.False(t, ok)

	// The region only becomes removable once a tick passes with no new
	// events (the leave event itself keeps it alive for one tick).
	m.Tick(map[ecs.EntityID]vec.Vec3{})
	assert.Equal(t, 0, m.Count())
}

func TestTickMigratesAcrossTether(t *testing.T) {
	m := NewManager()
	r := ecs.NewRegistry()
	id := r.Create()

	m.Tick(map[ecs.EntityID]vec.Vec3{id: {X: 0, Y: 0, Z: 0}})
	startKey, _ := m.RegionOf(id)

	// Move far past the tether distance into the next region over.
	farPos := vec.Vec3{X: vec.RegionSize + vec.Tether + 5, Y: 0, Z: 0}
	m.Tick(map[ecs.EntityID]vec.Vec3{id: farPos})

	newKey, ok := m.RegionOf(id)
	require.True(t, ok)
	assert.NotEqual(t, startKey, newKey)
	assert.Equal(t, farPos.ToRegionKey(), newKey)
}

func TestTickHoldsWithinTether(t *testing.T) {
	m := NewManager()
	r := ecs.NewRegistry()
	id := r.Create()

	m.Tick(map[ecs.EntityID]vec.Vec3{id: {X: 0, Y: 0, Z: 0}})
	startKey, _ := m.RegionOf(id)

	// Just past the region border but within the tether.
	nearPos := vec.Vec3{X: vec.RegionSize + 2, Y: 0, Z: 0}
	m.Tick(map[ecs.EntityID]vec.Vec3{id: nearPos})

	heldKey, ok := m.RegionOf(id)
	require.True(t, ok)
	assert.Equal(t, startKey, heldKey)
}

func TestNeighborsAreLinkedBothWays(t *testing.T) {
	m := NewManager()
	r := ecs.NewRegistry()
	a := r.Create()
	b := r.Create()

	m.Tick(map[ecs.EntityID]vec.Vec3{
		a: {X: 0, Y: 0, Z: 0},
		b: {X: vec.RegionSize + vec.Tether + 5, Y: 0, Z: 0},
	})

	keyA, _ := m.RegionOf(a)
	keyB, _ := m.RegionOf(b)
	regA, _ := m.Get(keyA)
	regB, _ := m.Get(keyB)

	found := false
	for _, n := range regA.Neighbors() {
		if n == regB {
			found = true
		}
	}
	assert.True(t, found)
}
