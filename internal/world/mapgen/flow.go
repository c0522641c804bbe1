package mapgen

import (
	"math"
	"sort"

	"github.com/ashfall-games/worldcore/internal/vec"
)

// downhillNeighbor returns the steepest-descent neighbor of (x, y), or
// (-1, -1, false) if the cell is a local minimum (a lake/sink candidate).
// Ties are broken by neighbor order, matching the fixed Neighbors8 ordering
// so the result is deterministic.
func downhillNeighbor(alt *grid, x, y int) (int, int, bool) {
	h := alt.at(x, y)
	best := 0.0
	bx, by := -1, -1
	found := false
	for _, n := range (vec.Vec2{X: x, Y: y}).Neighbors8() {
		if n.X < 0 || n.Y < 0 || n.X >= alt.nx || n.Y >= alt.ny {
			continue
		}
		slope := h - alt.at(n.X, n.Y)
		if n.X != x && n.Y != y {
			slope /= math.Sqrt2 // diagonal neighbors are farther away
		}
		if slope > best {
			best = slope
			bx, by = n.X, n.Y
			found = true
		}
	}
	return bx, by, found
}

// flowAccumulation computes drainage area per cell by routing each cell's
// unit contribution downhill to its terminal sink, following the teacher's
// single-direction (D8-like) flow model rather than the original's
// multiple-flow-direction solver — adequate for river classification at
// world-map granularity.
func flowAccumulation(alt *grid, downhillX, downhillY *grid) []float64 {
	n := alt.nx * alt.ny
	accum := make([]float64, n)
	for i := range accum {
		accum[i] = 1
	}

	// Process cells from highest to lowest altitude so each cell's
	// accumulated flow is finalized before it's added to its downhill
	// neighbor.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return alt.data[order[i]] > alt.data[order[j]] })

	for _, idx := range order {
		x, y := idx%alt.nx, idx/alt.nx
		dx := int(downhillX.at(x, y))
		dy := int(downhillY.at(x, y))
		if dx < 0 || dy < 0 {
			continue
		}
		accum[dy*alt.nx+dx] += accum[idx]
	}
	return accum
}
