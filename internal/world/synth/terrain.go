package synth

import (
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/block"
	"github.com/ashfall-games/worldcore/internal/world/mapgen"
)

// dirtDepth is how many layers of Dirt sit under the biome surface block.
const dirtDepth = 4

// biomeSurface picks the per-biome surface block: grass/sand/snow over dirt
// over stone, keyed on the same climate fields the map generator used to
// tag the cell's biome.
func biomeSurface(cell world.Cell) block.BlockID {
	switch mapgen.BiomeOf(cell) {
	case "tundra":
		return block.SnowBlockID
	case "desert":
		return block.SandBlockID
	case "ocean", "lake":
		return block.SandBlockID
	default:
		return block.GrassBlockID
	}
}

// fillTerrain writes the base terrain for a single chunk's columns: stone
// from the cell's basement up to a few layers below the surface, dirt, then
// the biome surface kind; water fills from the surface up to the cell's
// water altitude. World Map Cells carry altitude at chunk granularity, so
// every column in a chunk shares the same base profile — fine-grained
// per-block texture comes from caves and structures layered on top, not
// from intra-chunk altitude jitter.
func fillTerrain(c *world.Chunk, cell world.Cell) {
	alt := int32(cell.Alt)
	waterAlt := int32(cell.WaterAlt)
	basement := int32(cell.Basement)
	surface := biomeSurface(cell)

	for lx := int32(0); lx < vec.ChunkSize; lx++ {
		for ly := int32(0); ly < vec.ChunkSize; ly++ {
			for z := c.Meta.MinZ; z < c.Meta.MaxZ; z++ {
				lz := z - c.Meta.MinZ
				switch {
				case z < basement:
					// below the generated volume; leave air
				case z < alt-dirtDepth:
					c.Set(lx, ly, lz, world.NewBlock(block.StoneBlockID))
				case z < alt:
					c.Set(lx, ly, lz, world.NewBlock(block.DirtBlockID))
				case z == alt:
					c.Set(lx, ly, lz, world.NewBlock(surface))
				case z < waterAlt:
					c.Set(lx, ly, lz, world.NewBlock(block.WaterBlockID))
				}
			}
		}
	}
}

// ExtentFor computes the chunk's vertical bounds: deep enough below basement
// for several cave levels, and with headroom above altitude for structures.
func ExtentFor(cell world.Cell) (minZ, maxZ int32) {
	minZ = int32(cell.Basement) - caveMaxDepthBelowBasement
	maxZ = int32(cell.Alt)
	if wa := int32(cell.WaterAlt); wa > maxZ {
		maxZ = wa
	}
	maxZ += structureHeadroom
	return minZ, maxZ
}
