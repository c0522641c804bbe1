// Package civ implements the Civilization Generator: it reads a generated
// World Map and writes Site/Place/Track metadata back onto it, then
// simulates a bounded pre-history of settlement growth before the server
// ever starts.
package civ

import (
	"math/rand"
	"sort"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
)

// Config tunes the generator; zero-value Config picks DefaultConfig.
type Config struct {
	CivCount int // number of civilizations (and hence capital sites) to seed
	SimYears int // number of pre-history ticks to simulate, one per year
}

// DefaultConfig matches the teacher's originally observed tuning.
func DefaultConfig() Config {
	return Config{CivCount: 20, SimYears: 100}
}

const (
	siteAreaMin         = 64
	siteAreaMax         = 256
	maxNeighborDistance = 250.0
	gradientThreshold   = 40.0 // meters of altitude change across one cell
	routeRatioThreshold = 3.0
	birthAttempts       = 5
	findLocAttempts     = 100
)

var cardinals = [4]vec.Vec2{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

// Civ is a single civilization: a capital Site and its homeland Place.
type Civ struct {
	Capital  world.SiteID
	Homeland world.PlaceID
}

// trackRef indexes into Civs.Tracks.
type trackRef int

// Civs is the complete output of generation: every Place, Site and Track,
// plus the adjacency index used for road routing.
type Civs struct {
	Civilizations []Civ
	Places map[world.PlaceID]*world.Place
	Sites  map[world.SiteID]*world.Site
	Tracks []*world.Track

	trackMap  map[world.SiteID]map[world.SiteID]trackRef
	nextPlace world.PlaceID
	nextSite  world.SiteID
}

// Generate runs the full pipeline against m, mutating its cells' Place and
// Sites fields in place, and returns the generated civilization index.
func Generate(m *world.Map, seed int64, cfg Config) *Civs {
	if cfg.CivCount == 0 && cfg.SimYears == 0 {
		cfg = DefaultConfig()
	}
	c := &Civs{
		Places:   make(map[world.PlaceID]*world.Place),
		Sites:    make(map[world.SiteID]*world.Site),
		trackMap: make(map[world.SiteID]map[world.SiteID]trackRef),
	}
	// Civ generation is a sequential process (each site placement depends on
	// the sites placed before it via road routing), so it draws from a
	// conventional seeded PRNG rather than the purely positional hash used by
	// the map generator; determinism comes from the fixed seed and fixed
	// iteration order, not parallel-safety.
	rng := rand.New(rand.NewSource(seed ^ 0x636976 /* "civ" */))

	for i := 0; i < cfg.CivCount; i++ {
		c.birthCiv(m, rng)
	}
	for year := 0; year < cfg.SimYears; year++ {
		c.Tick(1.0)
	}
	return c
}

func (c *Civs) birthCiv(m *world.Map, rng *rand.Rand) bool {
	for attempt := 0; attempt < birthAttempts; attempt++ {
		loc, ok := findSiteLoc(m, rng, nil)
		if !ok {
			continue
		}
		site, ok := c.establishSite(m, rng, loc, world.SiteSettlement, 24)
		if !ok {
			continue
		}
		c.Civilizations = append(c.Civilizations, Civ{Capital: site, Homeland: c.Sites[site].Place})
		return true
	}
	return false
}

// establishSite creates a Site at loc (reusing its Place if one already
// covers loc, else growing a new one), then attempts to route roads to
// nearby existing sites.
func (c *Civs) establishSite(m *world.Map, rng *rand.Rand, loc vec.Vec2, kind world.SiteKind, population int) (world.SiteID, bool) {
	cell := m.At(loc)
	place := cell.Place
	if place == 0 {
		var ok bool
		place, ok = c.establishPlace(m, rng, loc, siteAreaMin, siteAreaMax)
		if !ok {
			return 0, false
		}
	}

	c.nextSite++
	id := c.nextSite
	site := &world.Site{ID: id, Place: place, Center: loc, Kind: kind, Population: population}
	c.Sites[id] = site

	cell = m.At(loc)
	if cell.Sites == nil {
		cell.Sites = make(map[world.SiteID]struct{})
	}
	cell.Sites[id] = struct{}{}
	m.Set(loc, cell)

	type candidate struct {
		id   world.SiteID
		dist float64
	}
	var nearby []candidate
	for otherID, other := range c.Sites {
		if otherID == id {
			continue
		}
		d := loc.DistanceTo(other.Center)
		if d < maxNeighborDistance {
			nearby = append(nearby, candidate{otherID, d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].dist != nearby[j].dist {
			return nearby[i].dist < nearby[j].dist
		}
		return nearby[i].id < nearby[j].id
	})

	take := 3 + rng.Intn(2) // 3 or 4, matching gen_range(3, 5) exclusive upper bound
	if take > len(nearby) {
		take = len(nearby)
	}
	for _, cand := range nearby[:take] {
		path, cost, ok := findPath(m, loc, c.Sites[cand.id].Center)
		if !ok {
			continue
		}
		if existingCost, ok := c.routeBetween(id, cand.id); ok && existingCost < cost*routeRatioThreshold {
			continue
		}
		c.addTrack(id, cand.id, path, cost)
	}

	return id, true
}

func (c *Civs) addTrack(a, b world.SiteID, path []vec.Vec2, cost float64) {
	c.Tracks = append(c.Tracks, &world.Track{A: a, B: b, Path: path, Cost: cost})
	ref := trackRef(len(c.Tracks) - 1)
	if c.trackMap[a] == nil {
		c.trackMap[a] = make(map[world.SiteID]trackRef)
	}
	c.trackMap[a][b] = ref
}

// trackBetween returns the direct track between two sites, checking both
// directions since tracks are recorded once under the site that discovered
// them.
func (c *Civs) trackBetween(a, b world.SiteID) (*world.Track, bool) {
	if dests, ok := c.trackMap[a]; ok {
		if ref, ok := dests[b]; ok {
			return c.Tracks[ref], true
		}
	}
	if dests, ok := c.trackMap[b]; ok {
		if ref, ok := dests[a]; ok {
			return c.Tracks[ref], true
		}
	}
	return nil, false
}

func (c *Civs) neighbors(site world.SiteID) []world.SiteID {
	seen := make(map[world.SiteID]struct{})
	var out []world.SiteID
	add := func(id world.SiteID) {
		if id == site {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for dest := range c.trackMap[site] {
		add(dest)
	}
	for from, dests := range c.trackMap {
		if _, ok := dests[site]; ok {
			add(from)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// routeBetween finds a composed route between two sites over the existing
// track graph (not a fresh grid search), used to decide whether a
// freshly-searched direct path is worth recording as a new Track. The
// center-distance heuristic can exceed a track's cost, so the route found is
// not always the cheapest one.
func (c *Civs) routeBetween(a, b world.SiteID) (float64, bool) {
	heuristic := func(p world.SiteID) float64 {
		return c.Sites[p].Center.DistanceTo(c.Sites[b].Center)
	}
	neighbors := func(p world.SiteID) []world.SiteID { return c.neighbors(p) }
	transition := func(x, y world.SiteID) float64 {
		t, ok := c.trackBetween(x, y)
		if !ok {
			return 1e18
		}
		return t.Cost
	}
	goal := func(p world.SiteID) bool { return p == b }

	_, cost, ok := aStar(a, goal, heuristic, neighbors, transition, 100)
	return cost, ok
}

// Tick advances every Settlement site by years simulated years: harvesting
// natural resources into stocks, then consuming food for population growth
// or decline.
func (c *Civs) Tick(years float64) {
	for _, site := range c.Sites {
		if site.Kind != world.SiteSettlement {
			continue
		}
		place := c.Places[site.Place]
		if place == nil {
			continue
		}
		collectStocks(site, place, years)
		consumeStocks(site, years)
	}
}

const (
	lumberRate = 0.5
	mineRate   = 0.3
	farmRate   = 0.4

	eatRate          = 0.15
	birthFoodCost    = 0.25
	maxAnnualBirths  = 0.15
)

func collectStocks(site *world.Site, place *world.Place, years float64) {
	pop := float64(site.Population)
	lumberjacks := 0.2 * pop
	miners := 0.15 * pop
	farmers := 0.4 * pop

	site.StockWood += years * minf(place.Wood, lumberjacks*lumberRate)
	site.StockStone += years * minf(place.Stone, miners*mineRate)
	site.StockFood += years * minf(place.Farmland, farmers*farmRate)
}

func consumeStocks(site *world.Site, years float64) {
	needed := float64(site.Population) * eatRate * years
	surplus := maxf(site.StockFood-needed, 0)
	deficit := maxf(needed-site.StockFood, 0)
	site.StockFood = maxf(site.StockFood-needed, 0)

	site.Population -= int(roundf(deficit * eatRate))
	births := roundf(surplus / birthFoodCost)
	birthCap := roundf(float64(site.Population) * maxAnnualBirths)
	if births > birthCap {
		births = birthCap
	}
	site.Population += int(births)
	if site.Population < 0 {
		site.Population = 0
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func roundf(v float64) float64 {
	if v < 0 {
		return -roundf(-v)
	}
	return float64(int64(v + 0.5))
}
