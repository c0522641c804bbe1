// Package noise implements the deterministic RNG and field sampler used by
// world generation: every value is a pure function of (seed, field tag,
// coord), never a running PRNG's mutable state, so generation is
// bit-identical across runs and safe to parallelize or resume partially.
package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/cespare/xxhash/v2"
	"encoding/binary"
)

// Lane indices for the fBm fields sampled during map generation.
const (
	LaneContinent = iota
	LaneChaos
	LaneTemperature
	LaneHumidity
	LaneCave
	LaneMarble
)

// Hash returns a deterministic uint32 for (seed, lane, coord). Never depends
// on call order or any mutable state.
func Hash(seed int64, lane int, x, y int32) uint32 {
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(seed))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(lane))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(x))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(y))
	return uint32(xxhash.Sum64(buf[:]))
}

// Unit returns Hash as a float64 in [0, 1), for weighted random choices such
// as sprite scatter probability and jittered positions.
func Unit(seed int64, lane int, x, y int32) float64 {
	return float64(Hash(seed, lane, x, y)) / float64(1<<32)
}

// Signed returns Hash as a float64 in [-1, 1), used for biased sign choices
// such as cave tunnel lateral curvature.
func Signed(seed int64, lane int, x, y int32) float64 {
	return Unit(seed, lane, x, y)*2 - 1
}

// Field is a fractal-Brownian-motion noise field: several octaves of Perlin
// noise summed at increasing frequency/decreasing amplitude, seeded so that
// Sample is a pure function of (seed, lane, coord) — the underlying
// perlin.Perlin generator is itself seeded once per (seed, lane) and never
// mutated afterward, so concurrent reads are safe.
type Field struct {
	p         *perlin.Perlin
	frequency float64
	amplitude float64
}

// NewField constructs a field for one named lane of a seed, matching mk48's
// server/terrain/noise.Generator octave-count convention (alpha=2, beta=2,
// n=octaves).
func NewField(seed int64, lane int, octaves int32, frequency, amplitude float64) *Field {
	laneSeed := seed ^ (int64(lane) * 0x9E3779B97F4A7C15)
	return &Field{
		p:         perlin.NewPerlin(2.0, 2.0, octaves, laneSeed),
		frequency: frequency,
		amplitude: amplitude,
	}
}

// Sample returns the field's value at (x, y) in (-amplitude, amplitude).
func (f *Field) Sample(x, y float64) float64 {
	return f.p.Noise2D(x*f.frequency, y*f.frequency) * f.amplitude
}

// Sample01 returns Sample normalized to [0, 1].
func (f *Field) Sample01(x, y float64) float64 {
	v := f.Sample(x, y) / f.amplitude
	return (v + 1) / 2
}

// Basis bundles the six fBm lanes the map generator samples from.
type Basis struct {
	Continent   *Field
	Chaos       *Field
	Temperature *Field
	Humidity    *Field
	Cave        *Field
	Marble      *Field
}

// NewBasis constructs every lane deterministically from seed.
func NewBasis(seed int64) *Basis {
	return &Basis{
		Continent:   NewField(seed, LaneContinent, 6, 0.0015, 1.0),
		Chaos:       NewField(seed, LaneChaos, 4, 0.004, 1.0),
		Temperature: NewField(seed, LaneTemperature, 3, 0.0008, 1.0),
		Humidity:    NewField(seed, LaneHumidity, 3, 0.001, 1.0),
		Cave:        NewField(seed, LaneCave, 4, 0.02, 1.0),
		Marble:      NewField(seed, LaneMarble, 3, 0.05, 1.0),
	}
}
