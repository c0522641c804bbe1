package world

import "github.com/ashfall-games/worldcore/internal/vec"

// RiverKind classifies a map cell's relationship to surface water.
type RiverKind uint8

const (
	RiverNone RiverKind = iota
	RiverRiver
	RiverLake
	RiverOcean
)

// PlaceID and SiteID are stable, never-reused ids. Zero is the not-present
// sentinel.
type PlaceID uint32
type SiteID uint32

// Cell is a single World Map Cell: per-chunk metadata produced by the map
// generator.
type Cell struct {
	Alt         float64 // surface altitude, fractional meters
	Basement    float64 // basement <= Alt
	WaterAlt    float64
	Temp        float64 // [-1, 1]
	Humidity    float64 // [0, 1]
	Chaos       float64 // [0, 1]
	TreeDensity float64
	Rockiness   float64
	Downhill    *vec.Vec2 // optional lower-neighbor pointer, nil for local minima
	River       RiverKind
	Place       PlaceID // 0 == none
	Sites       map[SiteID]struct{}
}

// Map is the grid of Cells produced once per seed by mapgen.Generate;
// civ.Generate afterwards writes the Place and Sites fields of its cells.
type Map struct {
	Seed   int64
	Width  int
	Height int
	cells  []Cell // row-major, Width*Height
}

// NewMap allocates an empty map grid.
func NewMap(seed int64, width, height int) *Map {
	return &Map{Seed: seed, Width: width, Height: height, cells: make([]Cell, width*height)}
}

func (m *Map) inBounds(p vec.Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// At returns the cell at p, or the zero Cell if out of bounds.
func (m *Map) At(p vec.Vec2) Cell {
	if !m.inBounds(p) {
		return Cell{}
	}
	return m.cells[p.Y*m.Width+p.X]
}

// Set overwrites the cell at p (used only during generation, by
// mapgen.Generate and civ.Generate).
func (m *Map) Set(p vec.Vec2, c Cell) {
	if !m.inBounds(p) {
		return
	}
	m.cells[p.Y*m.Width+p.X] = c
}

// SiteKind distinguishes settlements from other points of interest.
type SiteKind uint8

const (
	SiteSettlement SiteKind = iota
	SiteDungeon
)

// Place is a contiguous region of chunks with aggregated natural resources.
// Created once during civilization generation, never destroyed.
type Place struct {
	ID        PlaceID
	Cells     map[vec.Vec2]struct{}
	Wood      float64
	Stone     float64
	River     bool
	Farmland  float64 // annual productivity
}

// Site has a Place, a center, and a kind.
type Site struct {
	ID     SiteID
	Place  PlaceID
	Center vec.Vec2
	Kind   SiteKind

	// Settlement-only fields; zero for other kinds.
	Population int
	StockWood  float64
	StockStone float64
	StockFood  float64
}

// Track is a road-like connection between two Sites, stored as a path of
// chunk keys.
type Track struct {
	A, B SiteID
	Path []vec.Vec2
	Cost float64
}
