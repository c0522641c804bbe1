// Package mapgen implements the World Map Generator pipeline: noise basis,
// initial altitude, erosion by hillslope diffusion, river classification,
// biome fields, and basement.
package mapgen

import (
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/noise"
)

// Config tunes the generation pipeline; zero-value Config picks sane
// defaults via DefaultConfig.
type Config struct {
	ErosionPasses  int
	ErosionTimestep float64
	CellSize       float64
}

// DefaultConfig returns the baseline tuning used when no Config is supplied.
func DefaultConfig() Config {
	return Config{ErosionPasses: 12, ErosionTimestep: 200_000, CellSize: 1.0}
}

// Generate runs the full pipeline and returns a populated Map of the given
// size, seeded deterministically from seed.
func Generate(seed int64, width, height int, cfg Config) *world.Map {
	if cfg.CellSize == 0 {
		cfg = DefaultConfig()
	}
	basis := noise.NewBasis(seed)

	alt := newGrid(width, height)
	basement := newGrid(width, height)
	rockiness := newGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := initialAltitude(basis, seed, int32(x), int32(y))
			alt.set(x, y, a)
			basement.set(x, y, a-50-chaosAt(basis, int32(x), int32(y))*80)
			rockiness.set(x, y, clamp01(chaosAt(basis, int32(x), int32(y))*0.6+0.2))
		}
	}

	// Erosion: repeated ADI hillslope-diffusion passes, each settling slopes
	// toward equilibrium. Diffusivity is higher for softer (less rocky)
	// terrain. No uplift, stream-power erosion or deposition is applied, and
	// flow is routed only once, after the last pass.
	for pass := 0; pass < cfg.ErosionPasses; pass++ {
		diffuse(alt, basement, cfg.ErosionTimestep, cfg.CellSize, func(x, y int) float64 {
			return 5e-3 * (1 - rockiness.at(x, y)*0.7)
		})
	}

	downhillX := newGrid(width, height)
	downhillY := newGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy, ok := downhillNeighbor(alt, x, y)
			if !ok {
				downhillX.set(x, y, -1)
				downhillY.set(x, y, -1)
				continue
			}
			downhillX.set(x, y, float64(dx))
			downhillY.set(x, y, float64(dy))
		}
	}
	accum := flowAccumulation(alt, downhillX, downhillY)

	m := world.NewMap(seed, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := vec.Vec2{X: x, Y: y}
			a := alt.at(x, y)
			temp := temperatureAt(basis, int32(x), int32(y), a)
			humidity := humidityAt(basis, int32(x), int32(y))
			_, _, hasDownhill := downhillNeighbor(alt, x, y)

			var downhill *vec.Vec2
			dx, dy := int(downhillX.at(x, y)), int(downhillY.at(x, y))
			if dx >= 0 && dy >= 0 {
				d := vec.Vec2{X: dx, Y: dy}
				downhill = &d
			}

			river := classifyRiver(a, accum[y*width+x], !hasDownhill)
			cell := world.Cell{
				Alt:         a,
				Basement:    basement.at(x, y),
				WaterAlt:    seaLevel,
				Temp:        temp,
				Humidity:    humidity,
				Chaos:       chaosAt(basis, int32(x), int32(y)),
				TreeDensity: clamp01(humidity * (1 - rockiness.at(x, y)) * clamp01(1-absf(temp))),
				Rockiness:   rockiness.at(x, y),
				Downhill:    downhill,
				River:       river,
			}
			m.Set(p, cell)
		}
	}
	return m
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
