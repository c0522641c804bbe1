package synth

import (
	"math"
	"math/rand"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/block"
)

// sectionsPerWallSegment subdivides each wall corner-to-corner edge so the
// wall can follow slopes instead of a single long flat span.
const sectionsPerWallSegment = 3

// wallPoint is one vertex of the fortification's ordered wall loop, relative
// to the plot's Origin. IsTower marks a polygon corner, where a tower gets
// built; the interpolated in-between points do not get one.
type wallPoint struct {
	Pos     vec.Vec2
	IsTower bool
}

// Gnarling is the Gnarling fortification plot: an irregular circular wall
// with corner towers, a gate, and huts scattered inside.
type Gnarling struct {
	Origin       vec.Vec2
	Radius       int
	WallRadius   int
	WallPoints   []wallPoint
	GateIndex    int
	HutLocations []vec.Vec2
}

// GenerateGnarling authors a fortification centered at wpos: an irregular
// wall polygon sized and jittered from seed, one segment chosen as the
// unwalled gate, and huts barycentrically scattered inside triangles formed
// by the center and consecutive wall corners, rejecting candidates too close
// to an already-placed hut.
func GenerateGnarling(wpos vec.Vec2, seed int64) *Gnarling {
	rng := rand.New(rand.NewSource(seed ^ int64(wpos.X)*0x9E3779B9 ^ int64(wpos.Y)*0x85EBCA6B))

	unitSize := 10 + rng.Intn(10)
	numUnits := 5 + rng.Intn(5)
	variation := rng.Intn(50)
	wallRadius := unitSize*numUnits + variation
	radius := wallRadius + 50

	numPoints := wallRadius / 15
	if numPoints < 4 {
		numPoints = 4
	}

	corners := make([]vec.Vec2, numPoints)
	for i := 0; i < numPoints; i++ {
		angle := float64(i) / float64(numPoints) * 2 * math.Pi
		x := int(math.Cos(angle) * float64(wallRadius))
		y := int(math.Sin(angle) * float64(wallRadius))
		cv := wallRadius / 5
		x += rng.Intn(2*cv+1) - cv
		y += rng.Intn(2*cv+1) - cv
		corners[i] = vec.Vec2{X: x, Y: y}
	}

	gateIndex := rng.Intn(len(corners)) * sectionsPerWallSegment

	var wallPoints []wallPoint
	for i, pt := range corners {
		next := corners[0]
		if i+1 < len(corners) {
			next = corners[i+1]
		}
		for a := 0; a < sectionsPerWallSegment; a++ {
			p := vec.Vec2{
				X: pt.X + (next.X-pt.X)*a/sectionsPerWallSegment,
				Y: pt.Y + (next.Y-pt.Y)*a/sectionsPerWallSegment,
			}
			wallPoints = append(wallPoints, wallPoint{Pos: p, IsTower: a == 0})
		}
	}

	desiredHuts := (wallRadius * wallRadius) / 100
	var huts []vec.Vec2
	for i := 0; i < desiredHuts; i++ {
		loc, ok := attemptHutLoc(rng, corners, gateIndex/sectionsPerWallSegment, huts)
		if ok {
			huts = append(huts, loc)
		}
	}

	return &Gnarling{
		Origin:       wpos,
		Radius:       radius,
		WallRadius:   wallRadius,
		WallPoints:   wallPoints,
		GateIndex:    gateIndex,
		HutLocations: huts,
	}
}

func attemptHutLoc(rng *rand.Rand, corners []vec.Vec2, gateSection int, existing []vec.Vec2) (vec.Vec2, bool) {
	const maxAttempts = 16
	const minHutDistance2 = 15 * 15
	for attempt := 0; attempt < maxAttempts; attempt++ {
		section := rng.Intn(len(corners))
		if section == gateSection {
			continue
		}
		c1 := corners[section]
		c2 := corners[0]
		if section+1 < len(corners) {
			c2 = corners[section+1]
		}

		centerWeight := 0.2 + rng.Float64()*0.4
		c1Weight := rng.Float64() * (1 - centerWeight)
		c2Weight := 1 - centerWeight - c1Weight

		hutCenter := vec.Vec2{
			X: int(float64(c1.X)*c1Weight + float64(c2.X)*c2Weight),
			Y: int(float64(c1.Y)*c1Weight + float64(c2.Y)*c2Weight),
		}

		tooClose := false
		for _, loc := range existing {
			dx, dy := hutCenter.X-loc.X, hutCenter.Y-loc.Y
			if dx*dx+dy*dy < minHutDistance2 {
				tooClose = true
				break
			}
		}
		if !tooClose {
			return hutCenter, true
		}
	}
	return vec.Vec2{}, false
}

var gnarlingWood = block.RGB{R: 55, G: 25, B: 8}

// Render evaluates the fortification's primitive tree over the chunk's
// intersection with the plot, writing wall, tower, and hut geometry. A plot
// whose footprint straddles a chunk boundary is simply re-evaluated for each
// chunk it touches with the same deterministic inputs, so neighboring chunks
// stitch seamlessly.
func (g *Gnarling) Render(c *world.Chunk, key vec.ChunkKey, m *world.Map) {
	wood := world.Block{Kind: block.WoodBlockID, Tint: gnarlingWood}

	for i, wp := range g.WallPoints {
		if i >= g.GateIndex && i < g.GateIndex+sectionsPerWallSegment {
			continue // gate: leave this section unwalled
		}
		next := g.WallPoints[0]
		if i+1 < len(g.WallPoints) {
			next = g.WallPoints[i+1]
		}
		startXY := g.Origin.Add(wp.Pos)
		endXY := g.Origin.Add(next.Pos)
		startAlt := altApprox(m, startXY)
		endAlt := altApprox(m, endXY)

		start := vec.Vec3{X: int32(startXY.X), Y: int32(startXY.Y), Z: int32(startAlt) - 3}
		end := vec.Vec3{X: int32(endXY.X), Y: int32(endXY.Y), Z: int32(endAlt) - 3}
		New(SegmentPrism{A: start, B: end, Thickness: 3, Height: 6}).Fill(c, key, wood)

		midStart := vec.Vec3{X: start.X, Y: start.Y, Z: int32(startAlt)}
		midEnd := vec.Vec3{X: end.X, Y: end.Y, Z: int32(endAlt)}
		New(SegmentPrism{A: midStart, B: midEnd, Thickness: 1, Height: 8}).Fill(c, key, wood)

		topStart := vec.Vec3{X: start.X, Y: start.Y, Z: midStart.Z + 8}
		topEnd := vec.Vec3{X: end.X, Y: end.Y, Z: midEnd.Z + 8}
		New(SegmentPrism{A: topStart, B: topEnd, Thickness: 2, Height: 1}).Fill(c, key, wood)

		parStart := vec.Vec3{X: start.X, Y: start.Y, Z: topStart.Z}
		parEnd := vec.Vec3{X: end.X, Y: end.Y, Z: topEnd.Z}
		New(SegmentPrism{A: parStart, B: parEnd, Thickness: 1, Height: 2}).Fill(c, key, wood)
	}

	for _, wp := range g.WallPoints {
		if !wp.IsTower {
			continue
		}
		g.renderTower(c, key, m, wood, wp.Pos)
	}

	for _, loc := range g.HutLocations {
		g.renderHut(c, key, m, wood, loc)
	}
}

func (g *Gnarling) renderTower(c *world.Chunk, key vec.ChunkKey, m *world.Map, wood world.Block, rel vec.Vec2) {
	xy := g.Origin.Add(rel)
	alt := altApprox(m, xy)
	base := vec.Vec3{X: int32(xy.X), Y: int32(xy.Y), Z: int32(alt) - 3}

	const towerRadius, towerHeight = 5.0, 20.0
	New(Cylinder{Base: base, Radius: towerRadius, Height: towerHeight + 3}).Fill(c, key, wood)

	floor := vec.Vec3{X: base.X, Y: base.Y, Z: int32(alt)}
	New(Cylinder{Base: floor, Radius: towerRadius - 1, Height: towerHeight}).Fill(c, key, world.Air)

	topFloorZ := int32(alt + towerHeight - 2)
	New(Cylinder{Base: vec.Vec3{X: base.X, Y: base.Y, Z: topFloorZ}, Radius: towerRadius, Height: 1}).Fill(c, key, wood)

	for _, rpos := range [4]vec.Vec2{{X: -4, Y: -4}, {X: -4, Y: 3}, {X: 3, Y: -4}, {X: 3, Y: 3}} {
		poleBase := vec.Vec3{X: base.X + int32(rpos.X), Y: base.Y + int32(rpos.Y), Z: topFloorZ}
		New(Cylinder{Base: poleBase, Radius: 0.5, Height: 5}).Fill(c, key, wood)
	}

	roofCyl := New(Cylinder{Base: vec.Vec3{X: base.X, Y: base.Y, Z: topFloorZ + 5}, Radius: towerRadius + 1, Height: 3})
	roofSphere := New(Sphere{Center: vec.Vec3{X: base.X, Y: base.Y, Z: topFloorZ + 5 + 3 - 10}, Radius: 10})
	roofSphere.Intersect(roofCyl).Fill(c, key, wood)
}

func (g *Gnarling) renderHut(c *world.Chunk, key vec.ChunkKey, m *world.Map, wood world.Block, rel vec.Vec2) {
	xy := g.Origin.Add(rel)
	alt := int32(altApprox(m, xy))

	const hutRadius, wallHeight = 5.0, 4.0
	floorBase := vec.Vec3{X: int32(xy.X), Y: int32(xy.Y), Z: alt}
	New(Cylinder{Base: floorBase, Radius: hutRadius + 1, Height: 2}).Fill(c, key, wood)

	wallBase := vec.Vec3{X: floorBase.X, Y: floorBase.Y, Z: alt + 1}
	New(Cylinder{Base: wallBase, Radius: hutRadius, Height: wallHeight}).Fill(c, key, wood)
	New(Cylinder{Base: wallBase, Radius: hutRadius - 1, Height: wallHeight}).Fill(c, key, world.Air)

	roofBase := vec.Vec3{X: wallBase.X, Y: wallBase.Y, Z: alt + 1 + int32(wallHeight)}
	New(Cone{Base: roofBase, Radius: hutRadius + 1, Height: 3}).Fill(c, key, wood)
}
