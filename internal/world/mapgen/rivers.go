package mapgen

import "github.com/ashfall-games/worldcore/internal/world"

// riverAccumThreshold is the drainage area (in cell-units) above which a
// cell's flow is considered a classified river rather than overland sheet
// flow.
const riverAccumThreshold = 40.0

func classifyRiver(alt float64, accum float64, isSink bool) world.RiverKind {
	switch {
	case alt <= seaLevel:
		return world.RiverOcean
	case isSink && accum > riverAccumThreshold:
		return world.RiverLake
	case accum > riverAccumThreshold:
		return world.RiverRiver
	default:
		return world.RiverNone
	}
}
