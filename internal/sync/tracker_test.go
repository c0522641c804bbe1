package sync

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleIntervalTiers(t *testing.T) {
	assert.Equal(t, uint64(1), ThrottleInterval(50))
	assert.Equal(t, uint64(1), ThrottleInterval(100))
	assert.Equal(t, uint64(2), ThrottleInterval(150))
	assert.Equal(t, uint64(4), ThrottleInterval(200))
	assert.Equal(t, uint64(8), ThrottleInterval(250))
	assert.Equal(t, uint64(16), ThrottleInterval(300))
	assert.Equal(t, uint64(32), ThrottleInterval(301))
}

func TestDueBypassesThrottleWhenForced(t *testing.T) {
	assert.False(t, Due(3, 4, false))
	assert.True(t, Due(3, 4, true))
	assert.True(t, Due(4, 4, false))
}

func TestEvaluateSendsFullSnapshotOnFirstSight(t *testing.T) {
	tr := NewTracker()
	reg := ecs.NewRegistry()
	client, entity := reg.Create(), reg.Create()

	u, ok := tr.Evaluate(client, entity, 0, 10, false, false, Components{Pos: vec.Vec3f{1, 2, 3}, CharacterState: "idle"})
	require.True(t, ok)
	require.NotNil(t, u.Pos)
	assert.Equal(t, vec.Vec3f{1, 2, 3}, *u.Pos)
	require.NotNil(t, u.CharacterState)
	assert.Equal(t, "idle", *u.CharacterState)
}

func TestEvaluateOmitsUnchangedComponents(t *testing.T) {
	tr := NewTracker()
	reg := ecs.NewRegistry()
	client, entity := reg.Create(), reg.Create()

	base := Components{Pos: vec.Vec3f{1, 2, 3}, CharacterState: "idle"}
	_, ok := tr.Evaluate(client, entity, 0, 10, false, false, base)
	require.True(t, ok)

	moved := base
	moved.Pos = vec.Vec3f{4, 2, 3}
	u, ok := tr.Evaluate(client, entity, 1, 10, false, false, moved)
	require.True(t, ok)
	require.NotNil(t, u.Pos)
	assert.Nil(t, u.CharacterState)
	assert.Nil(t, u.Vel)
	assert.Nil(t, u.Ori)
}

func TestEvaluateReturnsFalseWhenNothingChangedAndDue(t *testing.T) {
	tr := NewTracker()
	reg := ecs.NewRegistry()
	client, entity := reg.Create(), reg.Create()

	base := Components{Pos: vec.Vec3f{1, 2, 3}, CharacterState: "idle"}
	_, ok := tr.Evaluate(client, entity, 0, 10, false, false, base)
	require.True(t, ok)

	_, ok = tr.Evaluate(client, entity, 1, 10, false, false, base)
	assert.False(t, ok)
}

func TestEvaluateSkipsOwnEntityUnlessForced(t *testing.T) {
	tr := NewTracker()
	reg := ecs.NewRegistry()
	client := reg.Create()

	_, ok := tr.Evaluate(client, client, 0, 0, false, true, Components{Pos: vec.Vec3f{1, 1, 1}})
	assert.False(t, ok)

	u, ok := tr.Evaluate(client, client, 0, 0, true, true, Components{Pos: vec.Vec3f{1, 1, 1}})
	require.True(t, ok)
	require.NotNil(t, u.Pos)
}

func TestEvaluateThrottlesDistantEntities(t *testing.T) {
	tr := NewTracker()
	reg := ecs.NewRegistry()
	client, entity := reg.Create(), reg.Create()

	base := Components{Pos: vec.Vec3f{1, 2, 3}}
	_, ok := tr.Evaluate(client, entity, 0, 400, false, false, base)
	require.True(t, ok) // tick 0 is always due regardless of interval

	moved := base
	moved.Pos = vec.Vec3f{9, 9, 9}
	_, ok = tr.Evaluate(client, entity, 1, 400, false, false, moved)
	assert.False(t, ok) // interval 32 at distance 400; tick 1 not due

	_, ok = tr.Evaluate(client, entity, 32, 400, false, false, moved)
	assert.True(t, ok)
}

func TestForgetClearsTrackedState(t *testing.T) {
	tr := NewTracker()
	reg := ecs.NewRegistry()
	client, entity := reg.Create(), reg.Create()

	base := Components{Pos: vec.Vec3f{1, 2, 3}}
	_, ok := tr.Evaluate(client, entity, 0, 10, false, false, base)
	require.True(t, ok)

	tr.Forget(client, entity)

	u, ok := tr.Evaluate(client, entity, 1, 10, false, false, base)
	require.True(t, ok) // forgotten, so treated as first sight again
	require.NotNil(t, u.Pos)
}
