package civ

import (
	"math"
	"math/rand"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
)

var diagonals = [8]vec.Vec2{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: 1},
	{X: 0, Y: 1}, {X: 1, Y: -1}, {X: 0, Y: -1}, {X: -1, Y: -1},
}

// gradientApprox is the max altitude delta to any neighbor, standing in for
// the source's internal slope estimate: the per-chunk unit it was computed
// in isn't reproducible here, so the threshold below is picked to admit
// typical rolling terrain and reject cliffs, not lifted verbatim.
func gradientApprox(m *world.Map, p vec.Vec2) float64 {
	c := m.At(p)
	max := 0.0
	for _, n := range p.Neighbors8() {
		d := math.Abs(c.Alt - m.At(n).Alt)
		if d > max {
			max = d
		}
	}
	return max
}

func locSuitableForWalking(m *world.Map, p vec.Vec2) bool {
	c := m.At(p)
	return c.River != world.RiverOcean && c.River != world.RiverLake
}

func locSuitableForSite(m *world.Map, p vec.Vec2) bool {
	return locSuitableForWalking(m, p) && gradientApprox(m, p) < gradientThreshold
}

func siteInDir(m *world.Map, a, dir vec.Vec2) bool {
	return locSuitableForSite(m, a) && locSuitableForSite(m, a.Add(dir))
}

// walkInDir returns the per-step cost of moving from a to a+dir, or false if
// the move is blocked.
func walkInDir(m *world.Map, a, dir vec.Vec2) (float64, bool) {
	b := a.Add(dir)
	if !locSuitableForWalking(m, a) || !locSuitableForWalking(m, b) {
		return 0, false
	}
	altA := m.At(a).Alt
	altB := m.At(b).Alt
	return math.Abs(altB-altA) / 2.5, true
}

// siteLocHint biases findSiteLoc's initial random guess to a disc around
// Origin instead of sampling uniformly over the whole map.
type siteLocHint struct {
	Origin vec.Vec2
	Radius float64
}

// findSiteLoc searches for a location suitable for a new site: from near (if
// given, a disc around origin; else uniform over the whole map), following
// each candidate's downhill pointer when it fails, and picking a fresh
// random candidate when the downhill trail runs out.
func findSiteLoc(m *world.Map, rng *rand.Rand, near *siteLocHint) (vec.Vec2, bool) {
	var loc *vec.Vec2
	for attempt := 0; attempt < findLocAttempts; attempt++ {
		var test vec.Vec2
		if loc != nil {
			test = *loc
		} else if near != nil {
			angle := rng.Float64() * 2 * math.Pi
			r := rng.Float64() * near.Radius
			test = vec.Vec2{
				X: near.Origin.X + int(math.Cos(angle)*r),
				Y: near.Origin.Y + int(math.Sin(angle)*r),
			}
		} else {
			test = vec.Vec2{X: rng.Intn(m.Width), Y: rng.Intn(m.Height)}
		}

		if locSuitableForSite(m, test) {
			return test, true
		}

		if d := m.At(test).Downhill; d != nil {
			loc = d
		} else {
			loc = nil
		}
	}
	return vec.Vec2{}, false
}

// orderedSet keeps insertion order so random element choice can be driven
// deterministically by a seeded rng (map iteration order is not stable).
type orderedSet struct {
	items []vec.Vec2
	index map[vec.Vec2]int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[vec.Vec2]int)}
}

func (s *orderedSet) has(p vec.Vec2) bool {
	_, ok := s.index[p]
	return ok
}

func (s *orderedSet) add(p vec.Vec2) {
	if s.has(p) {
		return
	}
	s.index[p] = len(s.items)
	s.items = append(s.items, p)
}

func (s *orderedSet) remove(p vec.Vec2) {
	i, ok := s.index[p]
	if !ok {
		return
	}
	last := len(s.items) - 1
	s.items[i] = s.items[last]
	s.index[s.items[i]] = i
	s.items = s.items[:last]
	delete(s.index, p)
}

func (s *orderedSet) len() int { return len(s.items) }

func (s *orderedSet) choose(rng *rand.Rand) (vec.Vec2, bool) {
	if len(s.items) == 0 {
		return vec.Vec2{}, false
	}
	return s.items[rng.Intn(len(s.items))], true
}

// establishPlace floods outward from loc over cardinal neighbors until the
// covered area reaches areaMax (the last step can overshoot it) or the
// frontier is exhausted. If more than areaMin cells are covered it registers
// the Place, stamps every covered cell's Place field, and aggregates natural
// resources; otherwise it registers nothing and reports false.
func (c *Civs) establishPlace(m *world.Map, rng *rand.Rand, loc vec.Vec2, areaMin, areaMax int) (world.PlaceID, bool) {
	dead := newOrderedSet()
	alive := newOrderedSet()
	alive.add(loc)

	for {
		cloc, ok := alive.choose(rng)
		if !ok {
			break
		}
		for _, dir := range cardinals {
			if !siteInDir(m, cloc, dir) {
				continue
			}
			rloc := cloc.Add(dir)
			if dead.has(rloc) {
				continue
			}
			if m.At(rloc).Place != 0 {
				continue
			}
			alive.add(rloc)
		}
		alive.remove(cloc)
		dead.add(cloc)

		if dead.len()+alive.len() >= areaMax {
			break
		}
	}
	if dead.len()+alive.len() <= areaMin {
		return 0, false
	}

	c.nextPlace++
	id := c.nextPlace
	place := &world.Place{ID: id, Cells: make(map[vec.Vec2]struct{})}

	for _, cell := range dead.items {
		place.Cells[cell] = struct{}{}
	}
	for _, cell := range alive.items {
		place.Cells[cell] = struct{}{}
	}
	for _, cellPos := range append(append([]vec.Vec2(nil), dead.items...), alive.items...) {
		cellVal := m.At(cellPos)
		cellVal.Place = id
		m.Set(cellPos, cellVal)
		includeChunk(place, cellVal, gradientApprox(m, cellPos))
	}

	c.Places[id] = place
	return id, true
}

func includeChunk(place *world.Place, cell world.Cell, gradient float64) {
	place.Wood += cell.TreeDensity
	place.Stone += cell.Rockiness
	if cell.River == world.RiverRiver {
		place.River = true
	}
	// 0.7x the site-placement gradient threshold, matching the ratio between
	// the two cutoffs (1.0 vs 0.7) in the original generator's slope units.
	if cell.Humidity > 0.35 && cell.Temp > -0.3 && cell.Temp < 0.75 && cell.Chaos < 0.5 && gradient < gradientThreshold*0.7 {
		place.Farmland += 1
	}
}

// findPath searches the cell grid for a walkable path between two map cells,
// used for fresh site-to-site routing. The straight-line heuristic can
// overestimate the cost of diagonal steps, so the path found is not always
// the cheapest one.
func findPath(m *world.Map, a, b vec.Vec2) ([]vec.Vec2, float64, bool) {
	heuristic := func(p vec.Vec2) float64 { return p.DistanceTo(b) }
	neighbors := func(p vec.Vec2) []vec.Vec2 {
		out := make([]vec.Vec2, 0, 8)
		for _, dir := range diagonals {
			if _, ok := walkInDir(m, p, dir); ok {
				out = append(out, p.Add(dir))
			}
		}
		return out
	}
	transition := func(x, y vec.Vec2) float64 {
		cost, ok := walkInDir(m, x, y.Sub(x))
		if !ok {
			return 1e18
		}
		return 1 + cost
	}
	goal := func(p vec.Vec2) bool { return p == b }

	return aStar(a, goal, heuristic, neighbors, transition, 20000)
}
