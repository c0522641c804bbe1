// Package agent implements the NPC brain: a small per-entity state machine
// (idle wander, follow, attack-chase) driven once per tick from nearby
// entity snapshots, with no pathfinding beyond straight-line chase — terrain
// avoidance and real combat resolution live in the physics and combat
// packages respectively.
package agent

import (
	"math"
	"math/rand"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Kind tunes an Agent's speed, senses, and default disposition.
type Kind string

const (
	KindVillager Kind = "villager"
	KindTrader   Kind = "trader"
	KindGuard    Kind = "guard"
)

// Activity is the agent's current top-level behavior.
type Activity int

const (
	ActivityIdle Activity = iota
	ActivityFollow
	ActivityAttack
)

// Disposition governs whether an agent searches for targets on its own.
type Disposition int

const (
	DispositionPassive Disposition = iota
	DispositionGuard
)

// Agent is the NPC brain component: state plus the tuning derived from Kind.
type Agent struct {
	Kind        Kind
	Disposition Disposition

	BaseSpeed       float64
	DetectionRadius float64
	SearchRadius    float64
	WanderRadius    float64
	AvgFollowDist   float64
	MaxFollowDist   float64
	MaxChaseDist    float64
	MinAttackDist   float64

	Home    vec.Vec3f
	Bearing bearing

	Activity  Activity
	Target    ecs.EntityID
	HasTarget bool
	BeenClose bool
}

// New returns an Agent tuned for kind, idling at home.
func New(kind Kind, home vec.Vec3f) *Agent {
	a := &Agent{
		Kind:            kind,
		Disposition:     DispositionPassive,
		BaseSpeed:       3.0,
		DetectionRadius: 8.0,
		SearchRadius:    12.0,
		WanderRadius:    10.0,
		AvgFollowDist:   6.0,
		MaxFollowDist:   12.0,
		MaxChaseDist:    24.0,
		MinAttackDist:   3.25,
		Home:            home,
		Activity:        ActivityIdle,
	}

	switch kind {
	case KindVillager:
		a.BaseSpeed = 2.0
		a.WanderRadius = 8.0
	case KindTrader:
		a.BaseSpeed = 1.5
		a.WanderRadius = 3.0
	case KindGuard:
		a.BaseSpeed = 4.0
		a.DetectionRadius = 12.0
		a.SearchRadius = 16.0
		a.WanderRadius = 15.0
		a.Disposition = DispositionGuard
	}

	return a
}

// bearing is a horizontal-plane direction/velocity scratch vector used only
// for wander drift; entity positions themselves are vec.Vec3f.
type bearing struct {
	X, Y float64
}

func (b bearing) scale(s float64) bearing {
	return bearing{X: b.X * s, Y: b.Y * s}
}

func (b bearing) add(o bearing) bearing {
	return bearing{X: b.X + o.X, Y: b.Y + o.Y}
}

func (b bearing) sub(o bearing) bearing {
	return bearing{X: b.X - o.X, Y: b.Y - o.Y}
}

func (b bearing) magnitudeSquared() float64 {
	return b.X*b.X + b.Y*b.Y
}

func (b bearing) normalized() bearing {
	mag := math.Hypot(b.X, b.Y)
	if mag == 0 {
		return bearing{}
	}
	return bearing{X: b.X / mag, Y: b.Y / mag}
}

func randSigned(rng *rand.Rand) float64 {
	return rng.Float64() - 0.5
}
