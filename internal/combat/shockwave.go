package combat

import (
	"math"
	"time"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Shockwave is a one-shot pulse: an angular arc expanding outward from
// Origin along Dir at Speed, hitting anything the expanding ring has swept
// through since the previous Advance. Unlike Beam it fires once and fades,
// so callers discard it once Advance reports expired.
type Shockwave struct {
	Origin         vec.Vec3f
	Dir            vec.Vec3f
	AngleDeg       float64 // full arc angle in degrees
	Speed          float64
	Duration       time.Duration
	RequiresGround bool
	Owner          ecs.EntityID
	HasOwner       bool
	OwnerGroup     int
	HasOwnerGroup  bool

	Damage    float64
	Knockback float64

	elapsed time.Duration
}

// NewShockwave starts a shockwave expanding from origin along dir.
func NewShockwave(origin, dir vec.Vec3f, angleDeg, speed float64, duration time.Duration, requiresGround bool, owner ecs.EntityID) *Shockwave {
	return &Shockwave{
		Origin:         origin,
		Dir:            dir,
		AngleDeg:       angleDeg,
		Speed:          speed,
		Duration:       duration,
		RequiresGround: requiresGround,
		Owner:          owner,
		HasOwner:       true,
	}
}

// Advance steps elapsed time and returns the ring [near, far] the shockwave
// swept this frame, and whether it has expired.
func (s *Shockwave) Advance(dt time.Duration) (near, far float64, expired bool) {
	start := s.elapsed
	s.elapsed += dt
	if s.elapsed > s.Duration {
		s.elapsed = s.Duration
	}
	near = s.Speed * start.Seconds()
	far = s.Speed * s.elapsed.Seconds()
	expired = s.elapsed >= s.Duration
	return near, far, expired
}

// Hit reports whether target falls within the arc-strip swept over
// [near, far], approximating ArcStrip.collides_with_circle: a distance band
// plus an angular wedge, widened by the angle the target's own radius
// subtends at its distance (so a wide target grazing the ring edge still
// registers). The original's exact circle-intersection-point geometry for a
// circle straddling the ring boundary is dropped in favor of this tangent
// approximation, the same tradeoff Beam.Hit makes.
func (s *Shockwave) Hit(near, far float64, target Target) bool {
	if target.Dead {
		return false
	}
	if s.RequiresGround && !target.OnGround {
		return false
	}
	if s.HasOwner {
		if target.ID == s.Owner {
			return false
		}
		if sameGroup(s.OwnerGroup, s.HasOwnerGroup, target) {
			return false
		}
	}

	ox, oy := horizontal(s.Origin)
	tx, ty := horizontal(target.Pos)
	dx, dy := tx-ox, ty-oy
	dist := math.Hypot(dx, dy)
	r := float64(target.Radius)

	if dist > far+r || dist < near-r {
		return false
	}

	halfAngle := s.AngleDeg * math.Pi / 180 / 2
	var padding float64
	if dist > r {
		padding = math.Asin(r / dist)
	} else {
		// Origin is within the target's own radius: any bearing counts.
		return true
	}

	dirX, dirY := horizontal(s.Dir)
	angle := angleBetween(dirX, dirY, dx, dy)
	return angle <= halfAngle+padding
}
