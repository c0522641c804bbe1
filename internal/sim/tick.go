package sim

import (
	"time"

	"github.com/ashfall-games/worldcore/internal/agent"
	"github.com/ashfall-games/worldcore/internal/architect"
	"github.com/ashfall-games/worldcore/internal/combat"
	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/fsm"
	"github.com/ashfall-games/worldcore/internal/physics"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// combatHitWindow is how often a beam/shockwave forgets who it already hit,
// letting a lingering effect re-damage a target it's still sweeping over.
const combatHitWindow = 100 * time.Millisecond

// gravity is the downward acceleration applied to any entity not resting on
// ground at the start of the tick, in blocks/s^2. physics.Resolve only
// integrates whatever velocity it's handed and resolves collisions — it has
// no notion of gravity itself, so the tick loop adds it here before
// resolving, matching the per-tick force integration the physics system
// performs upstream of its collision pass.
const gravity float32 = -30

// RunTick advances every system exactly once, in the fixed order the rest of
// the pipeline (region reclassification, streaming, sync) depends on:
// agent AI, character-state FSM, physics, region manager, combat effects,
// then health/death resolution. Terrain streaming and entity sync are the
// caller's concern — they read w.Regions' per-region events and w.Dead
// after RunTick returns.
func (w *World) RunTick(dt time.Duration) {
	w.Dead = w.Dead[:0]
	dtf := float32(dt.Seconds())
	w.tick++

	runAgents(w)
	runFSM(w, dt)
	runPhysics(w, dtf)
	runRegions(w)
	runCombat(w, dt)
	runDeathResolution(w)

	if w.Respawn != nil {
		w.Architect.Tick(w.tick, w.Respawn)
	}
}

func runAgents(w *World) {
	type snapshot struct {
		id  ecs.EntityID
		pos vec.Vec3f
	}
	var all []snapshot
	w.Positions.Each(func(id ecs.EntityID, pos vec.Vec3f) {
		all = append(all, snapshot{id, pos})
	})

	w.Agents.Each(func(id ecs.EntityID, a *agent.Agent) {
		pos, ok := w.Positions.Get(id)
		if !ok {
			return
		}

		nearby := make([]agent.Nearby, 0, len(all))
		for _, other := range all {
			if other.id == id {
				continue
			}
			health, hasHealth := w.Health.Get(other.id)
			dead := hasHealth && !health.Alive()
			_, isAgent := w.Agents.Get(other.id)
			nearby = append(nearby, agent.Nearby{
				ID:       other.id,
				Pos:      other.pos,
				Dead:     dead,
				IsPlayer: !isAgent,
				Hostile:  isAgent && other.id != id,
			})
		}

		move := agent.Update(a, pos, nearby, w.rng)
		vel, _ := w.Velocities.Get(id)
		vel[0], vel[1] = move.X(), move.Y()
		w.Velocities.Insert(id, vel)
	})
}

func runFSM(w *World, dt time.Duration) {
	w.States.Each(func(_ ecs.EntityID, s *fsm.State) {
		s.Advance(dt)
	})
}

func runPhysics(w *World, dtf float32) {
	w.Colliders.Each(func(id ecs.EntityID, collider physics.Collider) {
		if _, mounted := w.Mounted.Get(id); mounted {
			return // a rider's physics is driven by its mount
		}
		pos, ok := w.Positions.Get(id)
		if !ok {
			return
		}
		vel, _ := w.Velocities.Get(id)
		onGroundPrev, _ := w.OnGround.Get(id)
		if !onGroundPrev {
			vel[2] += gravity * dtf
		}

		newPos, newVel, onGround := physics.Resolve(pos, vel, dtf, collider, w.Solid)

		w.Positions.Insert(id, newPos)
		w.Velocities.Insert(id, newVel)
		w.OnGround.Insert(id, onGround)
	})
}

func runRegions(w *World) {
	positions := make(map[ecs.EntityID]vec.Vec3, w.Positions.Len())
	w.Positions.Each(func(id ecs.EntityID, pos vec.Vec3f) {
		positions[id] = vec.FloorVec3f(pos)
	})
	w.Regions.Tick(positions)
}

func runCombat(w *World, dt time.Duration) {
	liveBeams := w.beams[:0]
	for _, b := range w.beams {
		near, far, expired := b.Advance(dt)
		tracker := w.beamTracker(b)
		tracker.Advance(dt)

		w.Colliders.Each(func(id ecs.EntityID, collider physics.Collider) {
			if tracker.AlreadyHit(id) {
				return
			}
			target := w.targetFor(id, collider)
			if b.Hit(near, far, target) {
				tracker.MarkHit(id)
				w.applyHit(id, b.Damage)
			}
		})

		if expired {
			delete(w.beamTrackers, b)
		} else {
			liveBeams = append(liveBeams, b)
		}
	}
	w.beams = liveBeams

	liveShocks := w.shockwaves[:0]
	for _, s := range w.shockwaves {
		near, far, expired := s.Advance(dt)
		tracker := w.shockTracker(s)
		tracker.Advance(dt)

		w.Colliders.Each(func(id ecs.EntityID, collider physics.Collider) {
			if tracker.AlreadyHit(id) {
				return
			}
			target := w.targetFor(id, collider)
			if s.Hit(near, far, target) {
				tracker.MarkHit(id)
				w.applyHit(id, s.Damage)
			}
		})

		if expired {
			delete(w.shockTrackers, s)
		} else {
			liveShocks = append(liveShocks, s)
		}
	}
	w.shockwaves = liveShocks
}

func (w *World) targetFor(id ecs.EntityID, collider physics.Collider) combat.Target {
	pos, _ := w.Positions.Get(id)
	onGround, _ := w.OnGround.Get(id)
	health, hasHealth := w.Health.Get(id)
	dead := hasHealth && !health.Alive()
	return combat.Target{
		ID:       id,
		Pos:      pos,
		Radius:   collider.Radius,
		Height:   collider.Height,
		Dead:     dead,
		OnGround: onGround,
	}
}

func (w *World) applyHit(id ecs.EntityID, damage float64) {
	w.Health.Mutate(id, func(h **Health) {
		if *h == nil {
			return
		}
		(*h).Current -= damage
	})
}

func runDeathResolution(w *World) {
	var dead []ecs.EntityID
	w.Health.Each(func(id ecs.EntityID, h *Health) {
		if h != nil && !h.Alive() {
			dead = append(dead, id)
		}
	})
	for _, id := range dead {
		w.Dead = append(w.Dead, id)

		pos, _ := w.Positions.Get(id)
		body := "player"
		if a, ok := w.Agents.Get(id); ok {
			body = agentBodyName(a.Kind)
		}
		w.Architect.Enqueue(architect.Death{
			Entity:   id,
			Position: pos,
			Body:     body,
			DiedTick: w.tick,
		})

		w.Positions.Remove(id)
		w.Velocities.Remove(id)
		w.Colliders.Remove(id)
		w.OnGround.Remove(id)
		w.Agents.Remove(id)
		w.States.Remove(id)
		w.Health.Remove(id)
		w.Mounted.Remove(id)
		w.Entities.Delete(id)
	}
}

// agentBodyName maps an agent kind to the db body string the architect
// queue threads through to Respawn, matching persistence's Body fields
// being named by what they represent rather than a numeric enum.
func agentBodyName(kind agent.Kind) string {
	switch kind {
	case agent.KindTrader:
		return "trader"
	case agent.KindGuard:
		return "guard"
	default:
		return "villager"
	}
}
