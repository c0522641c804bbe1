package vec

import "github.com/go-gl/mathgl/mgl32"

// Vec3f is the entity-space position/velocity type: a fractional-meter 3D
// vector. Orientation is a unit quaternion.
type Vec3f = mgl32.Vec3

// Quat is a unit quaternion used for entity orientation.
type Quat = mgl32.Quat

// IdentityQuat returns the "no rotation" orientation.
func IdentityQuat() Quat {
	return mgl32.QuatIdent()
}

// ToVec3f converts a BlockPos to the Vec3f at the block's center.
func (v Vec3) ToVec3f() Vec3f {
	return Vec3f{float32(v.X) + 0.5, float32(v.Y) + 0.5, float32(v.Z) + 0.5}
}

// FloorVec3f floors p down to the BlockPos containing it.
func FloorVec3f(p Vec3f) Vec3 {
	return Vec3{X: int32(floor32(p.X())), Y: int32(floor32(p.Y())), Z: int32(floor32(p.Z()))}
}

func floor32(f float32) float32 {
	i := float32(int32(f))
	if f < 0 && f != i {
		return i - 1
	}
	return i
}

// AABB is an axis-aligned bounding box in entity space, used by the physics
// system and the beam/shockwave collision tests.
type AABB struct {
	Min Vec3f
	Max Vec3f
}

// NewAABBCentered builds an AABB of the given radius/height centered
// horizontally on pos, spanning pos.Z up to pos.Z+height, matching the
// convention used for character colliders (radius, height).
func NewAABBCentered(pos Vec3f, radius, height float32) AABB {
	return AABB{
		Min: Vec3f{pos.X() - radius, pos.Y() - radius, pos.Z()},
		Max: Vec3f{pos.X() + radius, pos.Y() + radius, pos.Z() + height},
	}
}

// Translate returns the AABB shifted by delta.
func (b AABB) Translate(delta Vec3f) AABB {
	return AABB{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

// Union returns the bounding AABB enclosing both, used to build the swept
// volume between an old and new position.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3f{min32(b.Min.X(), o.Min.X()), min32(b.Min.Y(), o.Min.Y()), min32(b.Min.Z(), o.Min.Z())},
		Max: Vec3f{max32(b.Max.X(), o.Max.X()), max32(b.Max.Y(), o.Max.Y()), max32(b.Max.Z(), o.Max.Z())},
	}
}

// Intersects reports whether the two AABBs overlap.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y() &&
		b.Min.Z() < o.Max.Z() && b.Max.Z() > o.Min.Z()
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
