package streaming

import (
	"errors"
	"testing"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/region"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionRadiusRoundsUpPartialRegions(t *testing.T) {
	assert.Equal(t, 1, RegionRadius(1))
	assert.Equal(t, 1, RegionRadius(16)) // exactly one region's worth of chunks
	assert.Equal(t, 2, RegionRadius(17)) // one chunk over spills into a second region
}

func snapshotOf(pos vec.Vec3f) SnapshotFunc {
	return func(id ecs.EntityID) (Snapshot, bool) {
		return Snapshot{Pos: pos, CharacterState: "idle"}, true
	}
}

func TestSyncSendsCreateEntityOnRegionEnter(t *testing.T) {
	reg := ecs.NewRegistry()
	client := reg.Create()
	target := reg.Create()

	regions := region.NewManager()
	regions.Tick(map[ecs.EntityID]vec.Vec3{target: {X: 10, Y: 10, Z: 0}})

	m := NewManager()
	m.Subscribe(client, 1)
	centers := map[ecs.EntityID]region.RegionKey{client: vec.Vec3{X: 0, Y: 0}.ToRegionKey()}

	updates := m.Sync(regions, centers, snapshotOf(vec.Vec3f{10, 10, 0}))

	require.Len(t, updates, 1)
	assert.Equal(t, client, updates[0].Client)
	require.Len(t, updates[0].Creates, 1)
	assert.Equal(t, target, updates[0].Creates[0].Entity)
	assert.Empty(t, updates[0].Deletes)
}

func TestSyncDoesNotRepeatCreateForAlreadyKnownEntity(t *testing.T) {
	reg := ecs.NewRegistry()
	client := reg.Create()
	target := reg.Create()

	regions := region.NewManager()
	regions.Tick(map[ecs.EntityID]vec.Vec3{target: {X: 0, Y: 0, Z: 0}})

	m := NewManager()
	m.Subscribe(client, 1)
	centers := map[ecs.EntityID]region.RegionKey{client: vec.Vec3{X: 0, Y: 0}.ToRegionKey()}

	first := m.Sync(regions, centers, snapshotOf(vec.Vec3f{}))
	require.Len(t, first, 1)

	regions.Tick(map[ecs.EntityID]vec.Vec3{target: {X: 0, Y: 0, Z: 0}}) // no migration, no new events
	second := m.Sync(regions, centers, snapshotOf(vec.Vec3f{}))
	assert.Empty(t, second)
}

func TestSyncSendsDeleteWhenClientSubscriptionLosesRegion(t *testing.T) {
	reg := ecs.NewRegistry()
	client := reg.Create()
	target := reg.Create()

	regions := region.NewManager()
	targetRegion := vec.Vec3{X: 10, Y: 10}.ToRegionKey()
	regions.Tick(map[ecs.EntityID]vec.Vec3{target: {X: 10, Y: 10, Z: 0}})

	m := NewManager()
	m.Subscribe(client, 1)
	near := map[ecs.EntityID]region.RegionKey{client: targetRegion}
	require.Len(t, m.Sync(regions, near, snapshotOf(vec.Vec3f{})), 1)

	far := map[ecs.EntityID]region.RegionKey{client: region.RegionKey{X: targetRegion.X + 50, Y: targetRegion.Y + 50}}
	regions.Tick(map[ecs.EntityID]vec.Vec3{target: {X: 10, Y: 10, Z: 0}})
	updates := m.Sync(regions, far, snapshotOf(vec.Vec3f{}))

	require.Len(t, updates, 1)
	require.Len(t, updates[0].Deletes, 1)
	assert.Equal(t, target, updates[0].Deletes[0].Entity)
	assert.Empty(t, updates[0].Creates)
}

func TestSyncSendsDeleteWhenEntityMigratesOutOfUnchangedSubscription(t *testing.T) {
	reg := ecs.NewRegistry()
	client := reg.Create()
	target := reg.Create()

	regions := region.NewManager()
	regions.Tick(map[ecs.EntityID]vec.Vec3{target: {X: 0, Y: 0, Z: 0}})

	m := NewManager()
	m.Subscribe(client, 1)
	centers := map[ecs.EntityID]region.RegionKey{client: vec.Vec3{X: 0, Y: 0}.ToRegionKey()}
	require.Len(t, m.Sync(regions, centers, snapshotOf(vec.Vec3f{})), 1)

	// Target migrates far beyond the tether, landing in a region outside the
	// client's (unchanged) subscribed set.
	farPos := vec.Vec3{X: 0, Y: 0}
	farPos.X += vec.RegionSize * 50
	regions.Tick(map[ecs.EntityID]vec.Vec3{target: farPos})

	updates := m.Sync(regions, centers, snapshotOf(vec.Vec3f{}))

	require.Len(t, updates, 1)
	require.Len(t, updates[0].Deletes, 1)
	assert.Equal(t, target, updates[0].Deletes[0].Entity)
}

func TestSyncSkipsUnsubscribedClient(t *testing.T) {
	reg := ecs.NewRegistry()
	client := reg.Create()
	target := reg.Create()

	regions := region.NewManager()
	regions.Tick(map[ecs.EntityID]vec.Vec3{target: {X: 0, Y: 0, Z: 0}})

	m := NewManager()
	centers := map[ecs.EntityID]region.RegionKey{client: vec.Vec3{X: 0, Y: 0}.ToRegionKey()}

	updates := m.Sync(regions, centers, snapshotOf(vec.Vec3f{}))
	assert.Empty(t, updates)
}

func TestSyncSkipsClientMissingFromCenters(t *testing.T) {
	reg := ecs.NewRegistry()
	client := reg.Create()

	regions := region.NewManager()
	m := NewManager()
	m.Subscribe(client, 1)

	updates := m.Sync(regions, map[ecs.EntityID]region.RegionKey{}, snapshotOf(vec.Vec3f{}))
	assert.Empty(t, updates)
}

func TestChunkStreamerDeliversEncodedData(t *testing.T) {
	chunk := world.NewChunk(vec.ChunkKey{X: 0, Y: 0}, 0, 4)
	var gotClient ecs.EntityID
	var gotKey vec.ChunkKey
	var gotEncoding world.ChunkEncoding
	streamer := NewChunkStreamer(false, func(client ecs.EntityID, key vec.ChunkKey, encoding world.ChunkEncoding, data []byte) error {
		gotClient = client
		gotKey = key
		gotEncoding = encoding
		assert.NotEmpty(t, data)
		return nil
	})

	reg := ecs.NewRegistry()
	client := reg.Create()
	require.NoError(t, streamer.Deliver(client, chunk))
	assert.Equal(t, client, gotClient)
	assert.Equal(t, chunk.Key, gotKey)
	assert.Equal(t, world.EncodingDeflate, gotEncoding)
}

func TestChunkStreamerPropagatesSendError(t *testing.T) {
	chunk := world.NewChunk(vec.ChunkKey{X: 0, Y: 0}, 0, 4)
	sendErr := errors.New("connection backpressure")
	streamer := NewChunkStreamer(false, func(ecs.EntityID, vec.ChunkKey, world.ChunkEncoding, []byte) error {
		return sendErr
	})

	reg := ecs.NewRegistry()
	client := reg.Create()
	err := streamer.Deliver(client, chunk)
	assert.ErrorIs(t, err, sendErr)
}
