package agent

import (
	"math/rand"
	"testing"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/stretchr/testify/assert"
)

func TestNewTunesByKind(t *testing.T) {
	villager := New(KindVillager, vec.Vec3f{})
	guard := New(KindGuard, vec.Vec3f{})

	assert.Less(t, villager.BaseSpeed, guard.BaseSpeed)
	assert.Equal(t, DispositionPassive, villager.Disposition)
	assert.Equal(t, DispositionGuard, guard.Disposition)
}

func TestGuardEngagesHostileTarget(t *testing.T) {
	a := New(KindGuard, vec.Vec3f{0, 0, 0})
	rng := rand.New(rand.NewSource(1))

	registry := ecs.NewRegistry()
	hostile := registry.Create()
	nearby := []Nearby{{ID: hostile, Pos: vec.Vec3f{2, 0, 0}, Hostile: true}}

	// Run enough ticks that the probabilistic target search triggers.
	found := false
	for i := 0; i < 200; i++ {
		Update(a, vec.Vec3f{0, 0, 0}, nearby, rng)
		if a.Activity == ActivityAttack {
			found = true
			break
		}
	}

	assert.True(t, found)
	assert.True(t, a.HasTarget)
	assert.Equal(t, hostile, a.Target)
}

func TestAttackGivesUpBeyondChaseDistance(t *testing.T) {
	a := New(KindGuard, vec.Vec3f{})
	registry := ecs.NewRegistry()
	target := registry.Create()
	a.Activity = ActivityAttack
	a.Target = target
	a.HasTarget = true

	nearby := []Nearby{{ID: target, Pos: vec.Vec3f{1000, 0, 0}}}
	rng := rand.New(rand.NewSource(2))

	Update(a, vec.Vec3f{0, 0, 0}, nearby, rng)

	assert.Equal(t, ActivityIdle, a.Activity)
	assert.False(t, a.HasTarget)
}

func TestAttackHoldsAtMinDistance(t *testing.T) {
	a := New(KindGuard, vec.Vec3f{})
	registry := ecs.NewRegistry()
	target := registry.Create()
	a.Activity = ActivityAttack
	a.Target = target
	a.HasTarget = true

	nearby := []Nearby{{ID: target, Pos: vec.Vec3f{1, 0, 0}}}
	rng := rand.New(rand.NewSource(3))

	move := Update(a, vec.Vec3f{0, 0, 0}, nearby, rng)

	assert.Equal(t, ActivityAttack, a.Activity)
	assert.Equal(t, vec.Vec3f{0, 0, 0}, move)
}

func TestTraderFollowsThenStopsNearby(t *testing.T) {
	a := New(KindTrader, vec.Vec3f{})
	registry := ecs.NewRegistry()
	player := registry.Create()
	a.Activity = ActivityFollow
	a.Target = player
	a.HasTarget = true

	far := []Nearby{{ID: player, Pos: vec.Vec3f{20, 0, 0}, IsPlayer: true}}
	rng := rand.New(rand.NewSource(4))
	move := Update(a, vec.Vec3f{0, 0, 0}, far, rng)
	assert.Greater(t, move.X(), float32(0))
	assert.Equal(t, ActivityFollow, a.Activity)

	near := []Nearby{{ID: player, Pos: vec.Vec3f{1, 0, 0}, IsPlayer: true}}
	Update(a, vec.Vec3f{0, 0, 0}, near, rng)
	assert.Equal(t, ActivityFollow, a.Activity)
}
