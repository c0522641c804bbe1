// Package physics implements swept AABB-vs-voxel collision for entities
// moving through the terrain: sub-stepped integration, iterative push-out
// resolution along the minimum penetration axis, step-up onto low
// obstacles, and ground detection/snapping.
package physics

import (
	"math"

	"github.com/ashfall-games/worldcore/internal/vec"
)

// Solid reports whether the block at pos is filled, i.e. collidable.
type Solid func(pos vec.Vec3) bool

// Collider is an entity's cylinder-like bounding box: horizontal half-extent
// Radius and vertical extent Height, both in blocks, matching the
// player-AABB convention (min at the foot, max at head height).
type Collider struct {
	Radius float32
	Height float32
}

// maxAttempts bounds the per-substep resolution loop so a pathological
// (fully enclosed) spawn position can't hang a tick.
const maxAttempts = 32

// maxStepDistance is the largest single-substep displacement allowed before
// an additional substep is inserted, to avoid tunneling through thin walls.
const maxStepDistance = 0.3

// stepHopHeight is how far up an entity is lifted when stepping onto a
// ledge no taller than this.
const stepHopHeight = 1.0

// Resolve integrates pos by vel*dt against the terrain, sub-stepping and
// resolving penetration iteratively. It returns the resolved position,
// velocity (zeroed along any axis that was blocked), and whether the
// resolution ended with the entity supported from below.
func Resolve(pos vec.Vec3f, vel vec.Vec3f, dt float32, c Collider, solid Solid) (vec.Vec3f, vec.Vec3f, bool) {
	displacement := vel.Mul(dt)
	maxAbs := absMax3(displacement)
	increments := int(math.Ceil(float64(maxAbs / maxStepDistance)))
	if increments < 1 {
		increments = 1
	}

	onGround := false
	for step := 0; step < increments; step++ {
		pos = pos.Add(displacement.Mul(1.0 / float32(increments)))

		for attempt := 0; attempt < maxAttempts; attempt++ {
			block, blockBox, hit := firstCollision(pos, c, solid)
			if !hit {
				break
			}

			playerBox := aabbAt(pos, c)
			dir := collisionVector(playerBox, blockBox)
			minAxis := minAbsAxis(dir)
			resolve := resolveDirection(dir, minAxis)

			if resolve.Z() > 0 && vel.Z() <= 0 {
				onGround = true
			}

			if resolve.Z() == 0 && !collisionAt(pos.Add(vec.Vec3f{0, 0, 1.1}), c, solid) {
				pos = vec.Vec3f{pos.X(), pos.Y(), ceil32(pos.Z() + stepHopHeight)}
				onGround = true
				break
			}

			pos = pos.Add(resolve)
			vel = zeroBlockedAxes(vel, resolve)
			_ = block
		}
	}

	if !onGround && collisionAt(pos.Sub(vec.Vec3f{0, 0, 1.0}), c, solid) && vel.Z() < 0 && vel.Z() > -1 {
		pos = vec.Vec3f{pos.X(), pos.Y(), floor32g(pos.Z() - 0.05)}
		onGround = true
	}

	return pos, vel, onGround
}

func aabbAt(pos vec.Vec3f, c Collider) vec.AABB {
	return vec.NewAABBCentered(pos, c.Radius, c.Height)
}

func blockBounds(c Collider) (int32, int32) {
	h := int32(math.Ceil(float64(c.Radius)))
	v := int32(math.Ceil(float64(c.Height)))
	return h, v
}

func collisionAt(pos vec.Vec3f, c Collider, solid Solid) bool {
	playerBox := aabbAt(pos, c)
	hdist, vdist := blockBounds(c)
	base := vec.FloorVec3f(pos)
	for i := -hdist; i <= hdist; i++ {
		for j := -hdist; j <= hdist; j++ {
			for k := int32(-1); k <= vdist; k++ {
				bp := base.Add(vec.Vec3{X: i, Y: j, Z: k})
				if !solid(bp) {
					continue
				}
				if playerBox.Intersects(blockAABB(bp)) {
					return true
				}
			}
		}
	}
	return false
}

// firstCollision finds the block whose AABB the entity is penetrating most
// deeply, measured by the length of its minimum-axis collision vector
// ("maximum of the minimum collision axes"). The entity's velocity is not
// taken into account.
func firstCollision(pos vec.Vec3f, c Collider, solid Solid) (vec.Vec3, vec.AABB, bool) {
	playerBox := aabbAt(pos, c)
	hdist, vdist := blockBounds(c)
	base := vec.FloorVec3f(pos)

	var bestBlock vec.Vec3
	var bestBox vec.AABB
	found := false
	bestScore := float32(-1)

	for i := -hdist; i <= hdist; i++ {
		for j := -hdist; j <= hdist; j++ {
			for k := int32(-1); k <= vdist; k++ {
				bp := base.Add(vec.Vec3{X: i, Y: j, Z: k})
				if !solid(bp) {
					continue
				}
				bb := blockAABB(bp)
				if !playerBox.Intersects(bb) {
					continue
				}
				dir := collisionVector(playerBox, bb)
				score := minAbs3(dir)
				if score > bestScore {
					bestScore = score
					bestBlock = bp
					bestBox = bb
					found = true
				}
			}
		}
	}
	return bestBlock, bestBox, found
}

func blockAABB(bp vec.Vec3) vec.AABB {
	min := vec.Vec3f{float32(bp.X), float32(bp.Y), float32(bp.Z)}
	return vec.AABB{Min: min, Max: min.Add(vec.Vec3f{1, 1, 1})}
}

// collisionVector returns, per axis, the signed overlap needed to separate a
// from b along that axis alone (the minimum-translation vector candidate).
func collisionVector(a, b vec.AABB) vec.Vec3f {
	var out vec.Vec3f
	for axis := 0; axis < 3; axis++ {
		aMin, aMax := component(a.Min, axis), component(a.Max, axis)
		bMin, bMax := component(b.Min, axis), component(b.Max, axis)
		posOverlap := aMax - bMin
		negOverlap := aMin - bMax
		if posOverlap < -negOverlap {
			out = setComponent(out, axis, posOverlap)
		} else {
			out = setComponent(out, axis, negOverlap)
		}
	}
	return out
}

func resolveDirection(dir vec.Vec3f, axis int) vec.Vec3f {
	var out vec.Vec3f
	out = setComponent(out, axis, -component(dir, axis))
	return out
}

func zeroBlockedAxes(vel, resolve vec.Vec3f) vec.Vec3f {
	out := vel
	for axis := 0; axis < 3; axis++ {
		if component(resolve, axis) != 0 {
			out = setComponent(out, axis, 0)
		}
	}
	return out
}

func component(v vec.Vec3f, axis int) float32 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	default:
		return v.Z()
	}
}

func setComponent(v vec.Vec3f, axis int, value float32) vec.Vec3f {
	switch axis {
	case 0:
		v[0] = value
	case 1:
		v[1] = value
	default:
		v[2] = value
	}
	return v
}

func minAbsAxis(v vec.Vec3f) int {
	best := 0
	bestAbs := absf32(component(v, 0))
	for axis := 1; axis < 3; axis++ {
		a := absf32(component(v, axis))
		if a < bestAbs {
			bestAbs = a
			best = axis
		}
	}
	return best
}

func minAbs3(v vec.Vec3f) float32 {
	return absf32(component(v, minAbsAxis(v)))
}

func absMax3(v vec.Vec3f) float32 {
	m := absf32(v.X())
	if a := absf32(v.Y()); a > m {
		m = a
	}
	if a := absf32(v.Z()); a > m {
		m = a
	}
	return m
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func ceil32(v float32) float32 {
	return float32(math.Ceil(float64(v)))
}

func floor32g(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

// maxDismountScan caps how far upward FindDismountSpot searches for air
// above a rider's dismount column before giving up.
const maxDismountScan = 32

// FindDismountSpot scans upward from riderPos's column, starting at its
// current floor Z, for the first unoccupied block to place a dismounting
// rider. It returns riderPos unchanged with ok=false if no air is found
// within maxDismountScan blocks, in which case the caller should still
// force a position update to the client despite the position not having
// moved, since the mount link itself changed.
func FindDismountSpot(riderPos vec.Vec3f, solid Solid) (vec.Vec3f, bool) {
	column := vec.FloorVec3f(riderPos)
	for dz := int32(0); dz < maxDismountScan; dz++ {
		candidate := vec.Vec3{X: column.X, Y: column.Y, Z: column.Z + dz}
		if !solid(candidate) {
			return candidate.ToVec3f(), true
		}
	}
	return riderPos, false
}
