package synth

import (
	"math"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/block"
	"github.com/ashfall-games/worldcore/internal/world/noise"
)

// Cave networks are a DAG of nodes laid on a coarse per-level grid, jittered
// deterministically within their cell; edges connect a cell to a handful of
// fixed neighbor offsets chosen by hashed random, and the tunnel between two
// connected nodes is a quadratic Bezier in XY (lateral curvature biased by a
// hashed sign) linearly interpolated in Z.

const (
	caveCellSize     = 128 // blocks, coarse grid cell edge for node placement
	caveAvgLevelDepth = 40 // blocks between successive cave levels
	caveMinLevel     = 1
	caveMaxLevel     = 3
	caveLaneSalt     = 37 // distinguishes cave hashed fields from mapgen's noise.Lane*
)

// caveNode is one vertex of the cave DAG: a jittered position at a given
// level, carrying its own world Z so tunnel endpoints can differ in depth.
type caveNode struct {
	wpos vec.Vec3
}

func toCaveCell(wpos vec.Vec2, level int) vec.Vec2 {
	offset := (level & 1) * caveCellSize / 2
	return vec.Vec2{X: floorDiv(wpos.X+offset, caveCellSize), Y: floorDiv(wpos.Y+offset, caveCellSize)}
}

func toCaveWpos(cell vec.Vec2, level int) vec.Vec2 {
	offset := (level & 1) * caveCellSize / 2
	return vec.Vec2{X: cell.X*caveCellSize - offset, Y: cell.Y*caveCellSize - offset}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// nodeAt returns the node hosted by cell at level, if that cell hosts one:
// presence is a coin-flip per cell (always true at level 0). At level 0
// only, a node whose map cell is ocean, lake or holds a site is dropped; no
// slope test is made.
func nodeAt(seed int64, cell vec.Vec2, level int, m *world.Map) (caveNode, bool) {
	lane := caveLaneSalt + level
	if level > 0 && noise.Unit(seed, lane, int32(cell.X), int32(cell.Y)) >= 0.5 {
		return caveNode{}, false
	}

	base := toCaveWpos(cell, level)
	dx := int(noise.Hash(seed, caveLaneSalt+100+level, int32(cell.X), int32(cell.Y)) % uint32(caveCellSize/2))
	dy := int(noise.Hash(seed, caveLaneSalt+200+level, int32(cell.X), int32(cell.Y)) % uint32(caveCellSize/2))
	wx := base.X + caveCellSize/4 + dx
	wy := base.Y + caveCellSize/4 + dy

	mapPos := vec.Vec2{X: wx / vec.ChunkSize, Y: wy / vec.ChunkSize}
	cellData := m.At(mapPos)
	altAtLevel := cellData.Alt + 8 - float64(caveAvgLevelDepth*level)

	if level == 0 {
		if cellData.River == world.RiverOcean || cellData.River == world.RiverLake || len(cellData.Sites) > 0 {
			return caveNode{}, false
		}
	}

	return caveNode{wpos: vec.Vec3{X: int32(wx), Y: int32(wy), Z: int32(altAtLevel)}}, true
}

type caveTunnel struct {
	a, b caveNode
}

// cellLocality is the set of neighbor cell offsets searched for tunnels
// passing near a given column, matching the original's 3x3-minus-opposite
// LOCALITY footprint collapsed to the offsets actually used below.
var cellLocality = []vec.Vec2{
	{X: 0, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: -1},
}

// tunnelsNear returns every tunnel whose cell-grid edge could plausibly pass
// near wpos2d at level: same-level lateral edges plus the edge descending to
// level+1, searched over the neighboring coarse cells.
func tunnelsNear(seed int64, wpos2d vec.Vec2, level int, m *world.Map) []caveTunnel {
	colCell := toCaveCell(wpos2d, level)
	var out []caveTunnel
	for _, rpos := range cellLocality {
		cellPos := colCell.Add(rpos)
		node, ok := nodeAt(seed, cellPos, level, m)
		if !ok {
			continue
		}
		lane := caveLaneSalt + level
		for _, dir := range [4]vec.Vec2{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}} {
			mid := cellPos.X*2 + dir.X
			useOdd := noise.Unit(seed, lane, int32(mid), int32(cellPos.Y*2+dir.Y)) < 0.5
			if (dir.X == 1 && dir.Y != 0) && (useOdd == (dir.Y == -1)) {
				continue
			}
			otherCell := cellPos.Add(dir)
			other, ok := nodeAt(seed, otherCell, level, m)
			if !ok {
				continue
			}
			out = append(out, caveTunnel{a: node, b: other})
		}
		// Tunnel descending to the next level down, anchored at this cell.
		belowCell := toCaveCell(toCaveWpos(cellPos, level).Add(vec.Vec2{X: caveCellSize / 2, Y: caveCellSize / 2}), level+1)
		if below, ok := nodeAt(seed, belowCell, level+1, m); ok {
			out = append(out, caveTunnel{a: node, b: below})
		}
	}
	return out
}

// quadraticPoint evaluates the Bezier curve through (start, control, end) at
// parameter t in [0,1].
func quadraticPoint(start, control, end [2]float64, t float64) [2]float64 {
	u := 1 - t
	return [2]float64{
		u*u*start[0] + 2*u*t*control[0] + t*t*end[0],
		u*u*start[1] + 2*u*t*control[1] + t*t*end[1],
	}
}

// quadraticNearest does a bounded-resolution sample search for the closest
// point on the Bezier to target, returning its parameter and distance. The
// spec calls only for "a quadratic Bezier" as the tunnel curve, not a
// specific nearest-point algorithm; solving the exact cubic isn't necessary
// for carving decisions made at block resolution, and this stays a pure,
// deterministic function of its inputs.
func quadraticNearest(start, control, end [2]float64, target [2]float64) (t float64, dist float64) {
	const steps = 24
	bestT, bestDist := 0.0, math.Inf(1)
	for i := 0; i <= steps; i++ {
		tt := float64(i) / steps
		p := quadraticPoint(start, control, end, tt)
		dx, dy := p[0]-target[0], p[1]-target[1]
		d := math.Sqrt(dx*dx + dy*dy)
		if d < bestDist {
			bestDist = d
			bestT = tt
		}
	}
	return bestT, bestDist
}

type tunnelBand struct {
	min, max int32
	zOffs    float64
}

func tunnelBandAt(seed int64, t caveTunnel, wpos2d vec.Vec2, cave *noise.Field) (tunnelBand, bool) {
	start := [2]float64{float64(t.a.wpos.X) + 0.5, float64(t.a.wpos.Y) + 0.5}
	end := [2]float64{float64(t.b.wpos.X) + 0.5, float64(t.b.wpos.Y) + 0.5}
	target := [2]float64{float64(wpos2d.X) + 0.5, float64(wpos2d.Y) + 0.5}

	curveMag := math.Pow(noise.Unit(seed, 13, t.a.wpos.X, t.a.wpos.Y), 0.25)
	curveSign := sign(noise.Signed(seed, 14, t.a.wpos.X, t.a.wpos.Y))
	mid := [2]float64{(start[0] + end[0]) / 2, (start[1] + end[1]) / 2}
	perp := [2]float64{-(end[1] - start[1]), end[0] - start[0]}
	control := [2]float64{
		mid[0] + perp[0]*0.5*4*curveMag*curveSign,
		mid[1] + perp[1]*0.5*4*curveMag*curveSign,
	}

	tParam, dist := quadraticNearest(start, control, end, target)
	if dist >= 64.0 {
		return tunnelBand{}, false
	}

	radius := lerp(6.0, 32.0, clamp01(cave.Sample01(target[0]/200.0, target[1]/200.0)))
	heightHere := math.Pow(math.Max(1-dist/radius, 0), 0.3) * radius
	if heightHere <= 0 {
		return tunnelBand{}, false
	}

	zOffs := cave.Sample01(target[0]/512.0, target[1]/512.0)*48.0*math.Min((1-math.Abs(tParam-0.5)*2)*8, 1)
	depth := lerp(float64(t.a.wpos.Z), float64(t.b.wpos.Z), tParam) + zOffs

	return tunnelBand{
		min:   int32(depth - heightHere*0.3),
		max:   int32(depth + heightHere*1.35),
		zOffs: zOffs,
	}, true
}

// applyCaves carves every cave tunnel passing near this chunk's columns into
// c, retexturing floor/ceiling per biome and scattering sprites.
func applyCaves(c *world.Chunk, key vec.ChunkKey, m *world.Map, seed int64, basis *noise.Basis) {
	cell := m.At(vec.Vec2{X: int(key.X), Y: int(key.Y)})
	minX, minY := key.X*vec.ChunkSize, key.Y*vec.ChunkSize

	for lx := int32(0); lx < vec.ChunkSize; lx++ {
		for ly := int32(0); ly < vec.ChunkSize; ly++ {
			wpos2d := vec.Vec2{X: int(minX + lx), Y: int(minY + ly)}
			for level := caveMinLevel; level <= caveMaxLevel; level++ {
				for _, t := range tunnelsNear(seed, wpos2d, level, m) {
					band, ok := tunnelBandAt(seed, t, wpos2d, basis.Cave)
					if !ok {
						continue
					}
					carveColumn(c, lx, ly, wpos2d, cell, band, seed, level, basis)
				}
			}
		}
	}
}

// carveColumn writes one tunnel band into a single column: air in the
// carved void, lava near the bottom if hot, weak rock (optionally glowing)
// for the stalactite-narrowed ceiling, a biome-retextured floor, and
// occasional sprite decoration on the floor.
func carveColumn(c *world.Chunk, lx, ly int32, wpos2d vec.Vec2, cell world.Cell, band tunnelBand, seed int64, level int, basis *noise.Basis) {
	below := clamp01((cell.Alt - float64(band.min)) / 50.0)
	humidity := lerp(cell.Humidity, basis.Cave.Sample01(float64(wpos2d.X)/1024.0, float64(wpos2d.Y)/1024.0), below)
	temp := lerp(cell.Temp, basis.Cave.Sample(float64(wpos2d.X)/2048.0, float64(wpos2d.Y)/2048.0), below)
	mineral := basis.Cave.Sample01(float64(wpos2d.X)/256.0, float64(wpos2d.Y)/256.0)

	exposed := float64(band.max) > cell.Alt
	cavernHeight := float64(band.max - band.min)
	stalactite := math.Max(basis.Cave.Sample01(float64(wpos2d.X)/16.0, float64(wpos2d.Y)/16.0)-0.5, 0) * 2 *
		clamp01((cell.Alt-float64(band.max))/8.0) * (8.0 + cavernHeight*0.4)

	lava := 0.0
	if temp > 1.5 {
		ln := math.Abs(basis.Cave.Sample01(float64(wpos2d.X)/64.0, float64(wpos2d.Y)/64.0)-0.5) - 0.2
		if ln < 0 {
			lava = math.Max(ln*clamp01((temp-1.5)*30)*64, -32)
		}
	}

	underground := clamp01((cell.Alt - float64(band.max)) / 80.0)
	mushroomGlow := underground * closeTo(humidity, 1.0, 0.6) * closeTo(temp, 0.25, 0.7)

	dirt := int32(1)
	if exposed {
		dirt = 0
	}
	bedrock := band.min + int32(lava)
	base := bedrock + int32(stalactite*0.4)
	floor := base + dirt
	ceiling := band.max - int32(stalactite)

	floorKind := block.WeakRockID
	if mushroomGlow > 0.3 {
		floorKind = block.MyceliumID
	} else if mushroomGlow > 0.05 {
		floorKind = block.MudID
	}

	rockKind := block.WeakRockID
	if noise.Unit(seed, caveLaneSalt+300+level, int32(wpos2d.X), int32(wpos2d.Y)) < mushroomGlow*mineral {
		rockKind = block.GlowingWeakRockID
	}

	for z := bedrock; z < band.max; z++ {
		lz := z - c.Meta.MinZ
		switch {
		case z < band.min-4:
			c.Set(lx, ly, lz, world.NewBlock(block.LavaBlockID))
		case z < base || z >= ceiling:
			c.Set(lx, ly, lz, world.NewBlock(rockKind))
		case z >= base && z < floor:
			c.Set(lx, ly, lz, world.NewBlock(floorKind))
		case z == floor && !exposed:
			c.Set(lx, ly, lz, scatterSprite(seed, wpos2d, mushroomGlow, humidity, mineral))
		default:
			c.Set(lx, ly, lz, world.Air)
		}
	}
}

func scatterSprite(seed int64, wpos2d vec.Vec2, mushroomGlow, humidity, mineral float64) world.Block {
	switch {
	case noise.Unit(seed, caveLaneSalt+400, int32(wpos2d.X), int32(wpos2d.Y)) < mushroomGlow*0.02:
		return world.NewBlock(block.MushroomSpriteID)
	case noise.Unit(seed, caveLaneSalt+401, int32(wpos2d.X), int32(wpos2d.Y)) < closeTo(humidity, 0.0, 0.5)*mineral*0.005:
		return world.NewBlock(block.CrystalSpriteID)
	default:
		return world.Air
	}
}

func closeTo(v, target, falloff float64) float64 {
	return clamp01(1 - math.Abs(v-target)/falloff)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
