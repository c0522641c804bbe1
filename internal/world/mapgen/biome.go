package mapgen

import "github.com/ashfall-games/worldcore/internal/world"

// BiomeOf classifies a cell's biome tag from its climate/terrain fields,
// used to seed ChunkMeta.Biome and the synthesizer's surface-block choice.
func BiomeOf(c world.Cell) string {
	switch {
	case c.River == world.RiverOcean:
		return "ocean"
	case c.River == world.RiverLake:
		return "lake"
	case c.Temp < -0.4:
		return "tundra"
	case c.Temp > 0.5 && c.Humidity < 0.25:
		return "desert"
	case c.Humidity > 0.7 && c.Temp > 0:
		return "jungle"
	case c.Rockiness > 0.6:
		return "mountain"
	case c.TreeDensity > 0.4:
		return "forest"
	default:
		return "grassland"
	}
}
