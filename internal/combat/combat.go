// Package combat implements the swept-volume hit detection shared by beams
// and shockwaves: both sweep an angular region outward from an owner each
// tick and test nearby entities against the annulus/wedge covered since the
// last tick, deduplicating repeat hits on the same target with a per-tick
// hit tracker.
package combat

import (
	"math"
	"time"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Target is a read-only snapshot of a candidate hit, supplied by the caller
// each tick — combat has no dependency on the ecs stores or region manager
// directly.
type Target struct {
	ID         ecs.EntityID
	Pos        vec.Vec3f
	Radius     float32
	Height     float32
	Dead       bool
	OnGround   bool
	Group      int
	HasGroup   bool
	Blocking   bool
	FacingDir  vec.Vec3f
}

// BlockAngleDeg is the full arc, centered on a blocking target's facing
// direction, within which an incoming hit counts as blocked.
const BlockAngleDeg = 180.0

// blockedDamageFactor is how much of a blocked hit's effect still lands.
const blockedDamageFactor = 0.1

// DamageMultiplier reports what fraction of a hit's effect should apply,
// given where it came from: 1.0 normally, blockedDamageFactor if the target
// is blocking and facing roughly toward the attacker.
func DamageMultiplier(attackerPos vec.Vec3f, target Target) float64 {
	if !target.Blocking {
		return 1.0
	}
	fx, fy := horizontal(target.FacingDir)
	tx, ty := horizontal(target.Pos)
	ax, ay := horizontal(attackerPos)
	toAttackerX, toAttackerY := ax-tx, ay-ty

	angle := angleBetween(fx, fy, toAttackerX, toAttackerY)
	if angle <= BlockAngleDeg*math.Pi/180/2 {
		return blockedDamageFactor
	}
	return 1.0
}

// HitTracker deduplicates repeat hits on the same target within one
// "tick_dur" window, then clears so the same target can be hit again on the
// next window — ported from Beam's hit_entities/timer/tick_dur fields.
type HitTracker struct {
	hit     map[ecs.EntityID]struct{}
	tickDur time.Duration
	timer   time.Duration
}

// NewHitTracker returns a tracker that forgets hit targets every tickDur.
func NewHitTracker(tickDur time.Duration) *HitTracker {
	return &HitTracker{hit: make(map[ecs.EntityID]struct{}), tickDur: tickDur}
}

// AlreadyHit reports whether id was hit within the current window.
func (t *HitTracker) AlreadyHit(id ecs.EntityID) bool {
	_, ok := t.hit[id]
	return ok
}

// MarkHit records id as hit for the remainder of the current window.
func (t *HitTracker) MarkHit(id ecs.EntityID) {
	t.hit[id] = struct{}{}
}

// Advance steps the window timer and clears the hit set once it elapses.
func (t *HitTracker) Advance(dt time.Duration) {
	t.timer += dt
	if t.timer >= t.tickDur {
		t.timer -= t.tickDur
		for id := range t.hit {
			delete(t.hit, id)
		}
	}
}

func horizontal(v vec.Vec3f) (float64, float64) {
	return float64(v.X()), float64(v.Y())
}

// angleBetween returns the unsigned angle in radians between two 2D
// directions, zero-safe for a zero-length input.
func angleBetween(ax, ay, bx, by float64) float64 {
	magA := math.Hypot(ax, ay)
	magB := math.Hypot(bx, by)
	if magA == 0 || magB == 0 {
		return 0
	}
	cos := (ax*bx + ay*by) / (magA * magB)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// sameGroup reports whether an owner's group and a target's group should be
// treated as friendly (no damage), matching GroupTarget::InGroup vs
// OutOfGroup: an ownerless effect only excludes the owner entity itself,
// handled by the caller comparing ids directly before calling a Hit check.
func sameGroup(ownerGroup int, ownerHasGroup bool, t Target) bool {
	if !ownerHasGroup || !t.HasGroup {
		return false
	}
	return ownerGroup == t.Group
}
