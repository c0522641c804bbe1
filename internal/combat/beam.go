package combat

import (
	"math"
	"time"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Beam is a continuously-firing swept wedge: a cone cross-section extruded
// outward from Origin along Dir at Speed, hitting anything the wedge has
// swept through since the previous Advance.
type Beam struct {
	Origin    vec.Vec3f
	Dir       vec.Vec3f
	HalfAngle float64 // radians
	Speed     float64 // world units/sec the leading edge travels
	Duration  time.Duration
	Owner     ecs.EntityID
	HasOwner  bool
	// OwnerGroup, when HasOwnerGroup is set, exempts every target sharing
	// the same group from being hit (party members, tamed companions).
	OwnerGroup    int
	HasOwnerGroup bool

	// Damage and Knockback are applied by the caller on a confirmed Hit;
	// combat only decides whether and how hard, never touches health or
	// velocity stores directly.
	Damage    float64
	Knockback float64

	elapsed time.Duration
}

// NewBeam starts a beam sweeping from origin along dir (need not be
// normalized). angle is the full cone angle in radians.
func NewBeam(origin, dir vec.Vec3f, angle float64, speed float64, duration time.Duration, owner ecs.EntityID) *Beam {
	return &Beam{
		Origin:    origin,
		Dir:       dir,
		HalfAngle: angle / 2,
		Speed:     speed,
		Duration:  duration,
		Owner:     owner,
		HasOwner:  true,
	}
}

// Advance steps elapsed time and returns the annulus [near, far] the beam's
// leading/trailing edges crossed this frame, and whether it has now expired.
// The trailing edge also moves so a beam occupies a travelling shell, not a
// distance-zero-rooted cone, matching frame_start_dist/frame_end_dist.
func (b *Beam) Advance(dt time.Duration) (near, far float64, expired bool) {
	start := b.elapsed
	b.elapsed += dt
	if b.elapsed > b.Duration {
		b.elapsed = b.Duration
	}
	near = b.Speed * start.Seconds()
	far = b.Speed * b.elapsed.Seconds()
	expired = b.elapsed >= b.Duration
	return near, far, expired
}

// Hit reports whether target falls within the wedge swept over [near, far],
// approximating sphere_wedge_cylinder_collision's in-plane case: a 2D
// distance-and-angle test against the beam's horizontal cross-section, with
// the target's radius padding both the distance band and the angle via its
// subtended half-angle. The off-plane endcap geometry the original handles
// for a wedge tilted steeply relative to the target cylinder is dropped —
// beams in this world are aimed roughly level, so that case contributes
// little and isn't worth the extra geometry.
func (b *Beam) Hit(near, far float64, target Target) bool {
	if target.Dead {
		return false
	}
	if b.HasOwner {
		if target.ID == b.Owner {
			return false
		}
		if sameGroup(b.OwnerGroup, b.HasOwnerGroup, target) {
			return false
		}
	}

	// Vertical containment: the beam's current height must overlap the
	// target's cylinder.
	beamZ := float64(b.Origin.Z())
	targetBottom := float64(target.Pos.Z())
	targetTop := targetBottom + float64(target.Height)
	if beamZ < targetBottom || beamZ > targetTop {
		return false
	}

	ox, oy := horizontal(b.Origin)
	tx, ty := horizontal(target.Pos)
	dx, dy := tx-ox, ty-oy
	dist := math.Hypot(dx, dy)

	r := float64(target.Radius)
	if dist < near-r || dist > far+r {
		return false
	}

	dirX, dirY := horizontal(b.Dir)
	angle := angleBetween(dirX, dirY, dx, dy)

	padding := 0.0
	if dist > r {
		padding = math.Asin(r / dist)
	} else {
		// Target center is within its own radius of the origin point;
		// treat as fully inside the wedge regardless of bearing.
		return true
	}
	return angle <= b.HalfAngle+padding
}
