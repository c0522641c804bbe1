package agent

import (
	"math/rand"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Nearby is a read-only snapshot of another entity relevant to this tick's
// decision, supplied by the caller (the sim tick loop queries the region
// manager / ecs stores for it — agent itself knows nothing about either).
type Nearby struct {
	ID       ecs.EntityID
	Pos      vec.Vec3f
	Hostile  bool
	Dead     bool
	IsPlayer bool
}

const (
	wanderSpeedFactor = 0.65
	wanderDeadZone    = 0.25 // bearing magnitude below which the agent holds still
	searchChance      = 0.1
	tradeChance       = 0.01
)

// Update advances an agent one tick given its current position and the
// entities visible nearby, and returns the horizontal move direction
// (already scaled by BaseSpeed) the caller should apply to velocity.
func Update(a *Agent, pos vec.Vec3f, nearby []Nearby, rng *rand.Rand) vec.Vec3f {
	move := bearing{}
	doIdle := false
	chooseTarget := false

	switch a.Activity {
	case ActivityIdle:
		move, chooseTarget = updateIdle(a, pos, rng)
	case ActivityFollow:
		move, doIdle = updateFollow(a, pos, nearby)
	case ActivityAttack:
		move, doIdle = updateAttack(a, pos, nearby)
	}

	if doIdle {
		a.Activity = ActivityIdle
		a.Bearing = bearing{}
		a.HasTarget = false
	}

	if chooseTarget {
		if target, ok := chooseAttackTarget(a, pos, nearby); ok {
			a.Activity = ActivityAttack
			a.Target = target
			a.HasTarget = true
			a.BeenClose = false
		}
	}

	// Guards and traders notice nearby players even while idle, mirroring the
	// teacher's post-state detection pass.
	if a.Disposition == DispositionGuard && a.Activity == ActivityIdle {
		if target, ok := closestPlayer(pos, nearby, a.DetectionRadius); ok {
			a.Activity = ActivityAttack
			a.Target = target
			a.HasTarget = true
			a.BeenClose = false
		}
	}
	if a.Kind == KindTrader && a.Activity == ActivityIdle {
		if target, ok := closestPlayer(pos, nearby, a.DetectionRadius); ok {
			a.Activity = ActivityFollow
			a.Target = target
			a.HasTarget = true
		}
	}

	return vec.Vec3f{float32(move.X), float32(move.Y), 0}
}

func updateIdle(a *Agent, pos vec.Vec3f, rng *rand.Rand) (bearing, bool) {
	drift := bearing{X: randSigned(rng), Y: randSigned(rng)}.scale(0.1)
	pull := bearing{}
	if a.Home != (vec.Vec3f{}) {
		toHome := bearing{X: float64(a.Home.X() - pos.X()), Y: float64(a.Home.Y() - pos.Y())}
		if d := toHome.magnitudeSquared(); d > a.WanderRadius*a.WanderRadius {
			pull = toHome.normalized().scale(0.02)
		}
	}

	a.Bearing = a.Bearing.add(drift).sub(a.Bearing.scale(0.01)).add(pull)

	var move bearing
	if a.Bearing.magnitudeSquared() > wanderDeadZone*wanderDeadZone {
		move = a.Bearing.normalized().scale(wanderSpeedFactor * a.BaseSpeed)
	}

	chooseTarget := rng.Float64() < searchChance
	return move, chooseTarget
}

func updateFollow(a *Agent, pos vec.Vec3f, nearby []Nearby) (bearing, bool) {
	target, ok := findNearby(a.Target, nearby)
	if !ok || target.Dead {
		return bearing{}, true
	}

	toTarget := bearing{X: float64(target.Pos.X() - pos.X()), Y: float64(target.Pos.Y() - pos.Y())}
	if toTarget.magnitudeSquared() <= a.AvgFollowDist*a.AvgFollowDist {
		if a.Kind == KindTrader {
			return bearing{}, false
		}
		return bearing{}, true
	}

	return toTarget.normalized().scale(a.BaseSpeed), false
}

func updateAttack(a *Agent, pos vec.Vec3f, nearby []Nearby) (bearing, bool) {
	target, ok := findNearby(a.Target, nearby)
	if !ok || target.Dead {
		return bearing{}, true
	}

	toTarget := bearing{X: float64(target.Pos.X() - pos.X()), Y: float64(target.Pos.Y() - pos.Y())}
	distSqrd := toTarget.magnitudeSquared()

	switch {
	case distSqrd < a.MinAttackDist*a.MinAttackDist:
		return bearing{}, false
	case distSqrd < a.MaxChaseDist*a.MaxChaseDist:
		a.BeenClose = true
		return toTarget.normalized().scale(a.BaseSpeed), false
	default:
		return bearing{}, true
	}
}

func findNearby(id ecs.EntityID, nearby []Nearby) (Nearby, bool) {
	for _, n := range nearby {
		if n.ID == id {
			return n, true
		}
	}
	return Nearby{}, false
}

func chooseAttackTarget(a *Agent, pos vec.Vec3f, nearby []Nearby) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := a.SearchRadius * a.SearchRadius
	found := false
	for _, n := range nearby {
		if n.Dead || !n.Hostile {
			continue
		}
		d := bearing{X: float64(n.Pos.X() - pos.X()), Y: float64(n.Pos.Y() - pos.Y())}.magnitudeSquared()
		if d < bestDist {
			bestDist = d
			best = n.ID
			found = true
		}
	}
	return best, found
}

func closestPlayer(pos vec.Vec3f, nearby []Nearby, radius float64) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := radius * radius
	found := false
	for _, n := range nearby {
		if n.Dead || !n.IsPlayer {
			continue
		}
		d := bearing{X: float64(n.Pos.X() - pos.X()), Y: float64(n.Pos.Y() - pos.Y())}.magnitudeSquared()
		if d < bestDist {
			bestDist = d
			best = n.ID
			found = true
		}
	}
	return best, found
}
