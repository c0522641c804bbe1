package synth

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/civ"
	"github.com/ashfall-games/worldcore/internal/world/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap(seed int64, w, h int) *world.Map {
	m := world.NewMap(seed, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(vec.Vec2{X: x, Y: y}, world.Cell{
				Alt:      64,
				Basement: 0,
				WaterAlt: 60,
				Temp:     0.2,
				Humidity: 0.5,
			})
		}
	}
	return m
}

func TestSynthesizeDeterministic(t *testing.T) {
	m := testMap(7, 8, 8)
	basis := noise.NewBasis(7)
	key := vec.ChunkKey{X: 3, Y: 3}

	c1 := Synthesize(key, m, nil, 7, basis)
	c2 := Synthesize(key, m, nil, 7, basis)

	require.Equal(t, c1.Depth, c2.Depth)
	for z := c1.Meta.MinZ; z < c1.Meta.MaxZ; z++ {
		for lx := int32(0); lx < vec.ChunkSize; lx++ {
			for ly := int32(0); ly < vec.ChunkSize; ly++ {
				lz := z - c1.Meta.MinZ
				assert.Equal(t, c1.Get(lx, ly, lz), c2.Get(lx, ly, lz))
			}
		}
	}
}

func TestSynthesizeFillsSurfaceBlock(t *testing.T) {
	m := testMap(11, 8, 8)
	basis := noise.NewBasis(11)
	key := vec.ChunkKey{X: 2, Y: 2}

	c := Synthesize(key, m, nil, 11, basis)
	cell := m.At(vec.Vec2{X: 2, Y: 2})
	lz := int32(cell.Alt) - c.Meta.MinZ
	surface := c.Get(5, 5, lz)
	assert.True(t, surface.Kind != 0, "surface column should not be air at altitude")
}

func TestSynthesizeWithPlotIsIdempotent(t *testing.T) {
	m := testMap(42, 16, 16)
	basis := noise.NewBasis(42)

	civs := &civ.Civs{
		Sites: map[world.SiteID]*world.Site{
			1: {ID: 1, Kind: world.SiteSettlement, Center: vec.Vec2{X: 8, Y: 8}},
		},
	}

	key := vec.ChunkKey{X: 8, Y: 8}
	c1 := Synthesize(key, m, civs, 42, basis)
	c2 := Synthesize(key, m, civs, 42, basis)

	for z := c1.Meta.MinZ; z < c1.Meta.MaxZ; z++ {
		for lx := int32(0); lx < vec.ChunkSize; lx++ {
			for ly := int32(0); ly < vec.ChunkSize; ly++ {
				lz := z - c1.Meta.MinZ
				assert.Equal(t, c1.Get(lx, ly, lz), c2.Get(lx, ly, lz))
			}
		}
	}
}

func TestGenerateGnarlingDeterministic(t *testing.T) {
	f1 := GenerateGnarling(vec.Vec2{X: 100, Y: 100}, 99)
	f2 := GenerateGnarling(vec.Vec2{X: 100, Y: 100}, 99)

	require.Equal(t, f1.WallRadius, f2.WallRadius)
	require.Equal(t, len(f1.WallPoints), len(f2.WallPoints))
	require.Equal(t, f1.GateIndex, f2.GateIndex)
	require.Equal(t, f1.HutLocations, f2.HutLocations)
}

func TestGenerateGnarlingGateWithinWallPoints(t *testing.T) {
	fort := GenerateGnarling(vec.Vec2{X: 0, Y: 0}, 5)
	assert.True(t, fort.GateIndex >= 0 && fort.GateIndex < len(fort.WallPoints))
}

func TestExtentForGivesHeadroomAboveWaterAndAltitude(t *testing.T) {
	cell := world.Cell{Alt: 50, Basement: -20, WaterAlt: 55}
	minZ, maxZ := ExtentFor(cell)
	assert.Less(t, minZ, int32(-20))
	assert.Greater(t, maxZ, int32(55))
}
