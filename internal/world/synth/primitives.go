// Package synth implements the Chunk Synthesizer: on-demand materialization
// of a 3D Chunk volume from World Map Cell metadata, cave networks,
// structures, and site plots.
package synth

import (
	"math"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
)

// Primitive is a volumetric constructive-geometry node: the only capability
// every shape exposes is a point-containment test. Plot authors compose
// primitives via Union/Intersect/Translate rather than subclassing a shape
// hierarchy.
type Primitive interface {
	Contains(p vec.Vec3) bool
}

// Prim wraps a Primitive with the union/intersect/translate/fill operations
// plot code chains together; the "chunk writer" it fills into is a sink
// parameter (a *world.Chunk), not an inherited base class.
type Prim struct {
	Primitive
}

// New wraps a raw Primitive for chaining.
func New(p Primitive) Prim { return Prim{p} }

func (p Prim) Union(o Prim) Prim {
	return Prim{unionPrim{p.Primitive, o.Primitive}}
}

func (p Prim) Intersect(o Prim) Prim {
	return Prim{intersectPrim{p.Primitive, o.Primitive}}
}

func (p Prim) Subtract(o Prim) Prim {
	return Prim{subtractPrim{p.Primitive, o.Primitive}}
}

func (p Prim) Translate(d vec.Vec3) Prim {
	return Prim{translatePrim{p.Primitive, d}}
}

// Fill writes b into every block of c that's inside both the primitive and
// the chunk's own volume. Evaluating the same primitive tree twice over the
// same chunk always produces the same writes: Contains is a pure function of
// the block position, so re-running Fill is idempotent.
func (p Prim) Fill(c *world.Chunk, key vec.ChunkKey, b world.Block) {
	minX, minY := int32(key.X)*vec.ChunkSize, int32(key.Y)*vec.ChunkSize
	for lx := int32(0); lx < vec.ChunkSize; lx++ {
		for ly := int32(0); ly < vec.ChunkSize; ly++ {
			wx, wy := minX+lx, minY+ly
			for z := c.Meta.MinZ; z < c.Meta.MaxZ; z++ {
				if !p.Contains(vec.Vec3{X: wx, Y: wy, Z: z}) {
					continue
				}
				c.Set(lx, ly, z-c.Meta.MinZ, b)
			}
		}
	}
}

type unionPrim struct{ a, b Primitive }

func (u unionPrim) Contains(p vec.Vec3) bool { return u.a.Contains(p) || u.b.Contains(p) }

type intersectPrim struct{ a, b Primitive }

func (i intersectPrim) Contains(p vec.Vec3) bool { return i.a.Contains(p) && i.b.Contains(p) }

type subtractPrim struct{ a, b Primitive }

func (s subtractPrim) Contains(p vec.Vec3) bool { return s.a.Contains(p) && !s.b.Contains(p) }

type translatePrim struct {
	inner Primitive
	d     vec.Vec3
}

func (t translatePrim) Contains(p vec.Vec3) bool {
	return t.inner.Contains(vec.Vec3{X: p.X - t.d.X, Y: p.Y - t.d.Y, Z: p.Z - t.d.Z})
}

// AABB is an axis-aligned box spanning [Min, Max) in all three axes.
type AABB struct{ Min, Max vec.Vec3 }

func (a AABB) Contains(p vec.Vec3) bool {
	return p.X >= a.Min.X && p.X < a.Max.X &&
		p.Y >= a.Min.Y && p.Y < a.Max.Y &&
		p.Z >= a.Min.Z && p.Z < a.Max.Z
}

// Cylinder is a vertical cylinder based at Base, extending Height blocks up.
type Cylinder struct {
	Base   vec.Vec3
	Radius float64
	Height float64
}

func (c Cylinder) Contains(p vec.Vec3) bool {
	if float64(p.Z) < float64(c.Base.Z) || float64(p.Z) >= float64(c.Base.Z)+c.Height {
		return false
	}
	dx := float64(p.X) + 0.5 - float64(c.Base.X)
	dy := float64(p.Y) + 0.5 - float64(c.Base.Y)
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Cone is a vertical cone: radius Radius at its Base, tapering to a point at
// Base.Z+Height.
type Cone struct {
	Base   vec.Vec3
	Radius float64
	Height float64
}

func (c Cone) Contains(p vec.Vec3) bool {
	dz := float64(p.Z) - float64(c.Base.Z)
	if dz < 0 || dz >= c.Height {
		return false
	}
	r := c.Radius * (1 - dz/c.Height)
	dx := float64(p.X) + 0.5 - float64(c.Base.X)
	dy := float64(p.Y) + 0.5 - float64(c.Base.Y)
	return dx*dx+dy*dy <= r*r
}

// Sphere is centered at Center with the given Radius.
type Sphere struct {
	Center vec.Vec3
	Radius float64
}

func (s Sphere) Contains(p vec.Vec3) bool {
	dx := float64(p.X) + 0.5 - float64(s.Center.X)
	dy := float64(p.Y) + 0.5 - float64(s.Center.Y)
	dz := float64(p.Z) + 0.5 - float64(s.Center.Z)
	return dx*dx+dy*dy+dz*dz <= s.Radius*s.Radius
}

// SegmentPrism is the set of XY points within Thickness/2 of the segment
// from A to B (cut square at both ends, not rounded), extruded Height blocks
// upward from the base Z interpolated along the segment — the shape the
// gnarling wall/parapet prisms are built from.
type SegmentPrism struct {
	A, B      vec.Vec3
	Thickness float64
	Height    float64
}

func (s SegmentPrism) Contains(p vec.Vec3) bool {
	// Project p onto the segment's XY line; reject if beyond either end or
	// farther than Thickness/2 from the line.
	ax, ay := float64(s.A.X), float64(s.A.Y)
	bx, by := float64(s.B.X), float64(s.B.Y)
	px, py := float64(p.X)+0.5, float64(p.Y)+0.5

	abx, aby := bx-ax, by-ay
	length2 := abx*abx + aby*aby
	if length2 == 0 {
		return false
	}
	t := ((px-ax)*abx + (py-ay)*aby) / length2
	if t < 0 || t > 1 {
		return false
	}
	closestX, closestY := ax+t*abx, ay+t*aby
	dx, dy := px-closestX, py-closestY
	if math.Sqrt(dx*dx+dy*dy) > s.Thickness/2 {
		return false
	}

	baseZ := float64(s.A.Z) + t*(float64(s.B.Z)-float64(s.A.Z))
	dz := float64(p.Z) - baseZ
	return dz >= 0 && dz < s.Height
}
