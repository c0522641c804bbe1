package implementations

import "github.com/ashfall-games/worldcore/internal/world/block"

// Terrain fill kinds: ground, liquid, and biome-surface blocks.

func init() {
	block.Register(block.AirBlockID, block.NewBasic(block.AirBlockID, "Air", false, block.RGB{}))
	block.Register(block.WaterBlockID, block.NewBasic(block.WaterBlockID, "Water", false, block.RGB{R: 40, G: 90, B: 200}))
	block.Register(block.LavaBlockID, block.NewBasic(block.LavaBlockID, "Lava", false, block.RGB{R: 220, G: 90, B: 20}))
	block.Register(block.SandBlockID, block.NewBasic(block.SandBlockID, "Sand", true, block.RGB{R: 220, G: 200, B: 140}))
	block.Register(block.WoodBlockID, block.NewBasic(block.WoodBlockID, "Wood", true, block.RGB{R: 110, G: 75, B: 40}))
	block.Register(block.StoneBlockID, block.NewBasic(block.StoneBlockID, "Stone", true, block.RGB{R: 120, G: 120, B: 120}))
	block.Register(block.DirtBlockID, block.NewBasic(block.DirtBlockID, "Dirt", true, block.RGB{R: 95, G: 65, B: 40}))
	block.Register(block.GrassBlockID, block.NewBasic(block.GrassBlockID, "Grass", true, block.RGB{R: 70, G: 140, B: 60}))
	block.Register(block.SnowBlockID, block.NewBasic(block.SnowBlockID, "Snow", true, block.RGB{R: 235, G: 240, B: 245}))
}
