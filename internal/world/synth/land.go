package synth

import (
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
)

// altApprox looks up the surface altitude at a world XY position via its
// containing World Map Cell. Cells carry altitude at chunk granularity, so
// this is an approximation for plot geometry that spans sub-chunk offsets
// from a site's center — adequate for placing foundations, not for
// per-block height-mapping.
func altApprox(m *world.Map, wpos vec.Vec2) float64 {
	cellPos := vec.Vec2{X: wpos.X / vec.ChunkSize, Y: wpos.Y / vec.ChunkSize}
	return m.At(cellPos).Alt
}
