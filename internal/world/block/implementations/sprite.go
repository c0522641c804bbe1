package implementations

import "github.com/ashfall-games/worldcore/internal/world/block"

// spriteBehavior carries per-sprite orientation/mirror attributes in
// addition to the shared Basic properties.
type spriteBehavior struct {
	block.Basic
}

func (s spriteBehavior) CreateMetadata() block.Metadata {
	return block.Metadata{"orientation": 0, "mirror": false}
}

func newSprite(id block.BlockID, name string, filled bool, tint block.RGB) spriteBehavior {
	return spriteBehavior{Basic: block.NewBasicSprite(id, name, filled, tint)}
}

func init() {
	block.Register(block.ChestSpriteID, newSprite(block.ChestSpriteID, "Chest", true, block.RGB{R: 150, G: 110, B: 50}))
	block.Register(block.LanternSpriteID, newSprite(block.LanternSpriteID, "Lantern", false, block.RGB{R: 255, G: 210, B: 120}))
	block.Register(block.MushroomSpriteID, newSprite(block.MushroomSpriteID, "Mushroom", false, block.RGB{R: 200, G: 60, B: 60}))
	block.Register(block.CrystalSpriteID, newSprite(block.CrystalSpriteID, "Crystal", false, block.RGB{R: 140, G: 200, B: 230}))
}
