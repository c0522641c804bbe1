// Package sim wires the per-tick systems together in the fixed order the
// game relies on: agent AI, character-state FSM, physics, region
// reclassification, combat effects, health/death, and the streaming/sync
// hooks that react to the result — mirroring the teacher's WorldManager.Run
// driving a ticker loop over per-chunk event channels, generalized from
// 2D block chunks to the ECS/region world model.
package sim

import (
	"math/rand"

	"github.com/ashfall-games/worldcore/internal/agent"
	"github.com/ashfall-games/worldcore/internal/architect"
	"github.com/ashfall-games/worldcore/internal/combat"
	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/fsm"
	"github.com/ashfall-games/worldcore/internal/physics"
	"github.com/ashfall-games/worldcore/internal/region"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// defaultRespawnTickSkip, defaultMinSpawnDelay and defaultMaxRespawnsPerTick
// tune the architect queue NewWorld installs: check every 20 ticks, wait at
// least 100 ticks after death, spawn at most 4 replacements per check.
const (
	defaultRespawnTickSkip      = 20
	defaultMinSpawnDelay        = 100
	defaultMaxRespawnsPerTick   = 4
)

// World bundles every per-entity component store the tick loop touches. The
// zero value is not usable; use NewWorld.
type World struct {
	Entities *ecs.Registry

	Positions  *ecs.Store[vec.Vec3f]
	Velocities *ecs.Store[vec.Vec3f]
	Colliders  *ecs.Store[physics.Collider]
	OnGround   *ecs.Store[bool]
	Agents     *ecs.Store[*agent.Agent]
	States     *ecs.Store[*fsm.State]
	Health     *ecs.Store[*Health]
	Mounted    *ecs.Store[ecs.EntityID] // rider -> mount; a mounted rider's own physics is skipped

	Regions   *region.Manager
	Architect *architect.Queue

	// Respawn places a replacement for a queued Death; set by the caller
	// after NewWorld since it typically needs to spawn back into this same
	// World. Left nil, the architect queue still accumulates deaths but
	// never drains them.
	Respawn architect.Spawner

	Solid physics.Solid // terrain occupancy test, supplied by the caller

	beams         []*combat.Beam
	shockwaves    []*combat.Shockwave
	beamTrackers  map[*combat.Beam]*combat.HitTracker
	shockTrackers map[*combat.Shockwave]*combat.HitTracker

	rng *rand.Rand

	// Dead accumulates entities that died this tick (RunTick has already
	// enqueued each one on Architect); cleared at the start of every
	// RunTick.
	Dead []ecs.EntityID

	tick uint64
}

// Health is a minimal hit-point component; damage/regen rules beyond this
// live in whatever system applies combat effects.
type Health struct {
	Current float64
	Max     float64
}

// Alive reports whether Current is still above zero.
func (h *Health) Alive() bool { return h.Current > 0 }

// NewWorld constructs an empty World. solid is the terrain occupancy test
// physics.Resolve uses; seed drives agent wander randomness.
func NewWorld(solid physics.Solid, seed int64) *World {
	return &World{
		Entities:   ecs.NewRegistry(),
		Positions:  ecs.NewStore[vec.Vec3f](),
		Velocities: ecs.NewStore[vec.Vec3f](),
		Colliders:  ecs.NewStore[physics.Collider](),
		OnGround:   ecs.NewStore[bool](),
		Agents:     ecs.NewStore[*agent.Agent](),
		States:     ecs.NewStore[*fsm.State](),
		Health:     ecs.NewStore[*Health](),
		Mounted:    ecs.NewStore[ecs.EntityID](),
		Regions:    region.NewManager(),
		Architect:  architect.NewQueue(defaultRespawnTickSkip, defaultMinSpawnDelay, defaultMaxRespawnsPerTick),
		Solid:      solid,
		rng:        rand.New(rand.NewSource(seed)),

		beamTrackers:  make(map[*combat.Beam]*combat.HitTracker),
		shockTrackers: make(map[*combat.Shockwave]*combat.HitTracker),
	}
}

// SpawnBeam adds a beam effect to the world for subsequent ticks to sweep.
func (w *World) SpawnBeam(b *combat.Beam) { w.beams = append(w.beams, b) }

// SpawnShockwave adds a shockwave effect for subsequent ticks to sweep.
func (w *World) SpawnShockwave(s *combat.Shockwave) { w.shockwaves = append(w.shockwaves, s) }

// beamTracker returns b's per-tick hit dedup tracker, creating it on first
// use.
func (w *World) beamTracker(b *combat.Beam) *combat.HitTracker {
	t, ok := w.beamTrackers[b]
	if !ok {
		t = combat.NewHitTracker(combatHitWindow)
		w.beamTrackers[b] = t
	}
	return t
}

// shockTracker returns s's per-tick hit dedup tracker, creating it on first
// use.
func (w *World) shockTracker(s *combat.Shockwave) *combat.HitTracker {
	t, ok := w.shockTrackers[s]
	if !ok {
		t = combat.NewHitTracker(combatHitWindow)
		w.shockTrackers[s] = t
	}
	return t
}
