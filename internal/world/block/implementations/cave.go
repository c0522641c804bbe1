package implementations

import "github.com/ashfall-games/worldcore/internal/world/block"

// Cave-specific rock and floor retexturing kinds: the floor is retextured
// per biome (dry mud, mycelium, lava-proximate rock).

func init() {
	block.Register(block.WeakRockID, block.NewBasic(block.WeakRockID, "Weak Rock", true, block.RGB{R: 100, G: 95, B: 90}))
	block.Register(block.GlowingWeakRockID, block.NewBasic(block.GlowingWeakRockID, "Glowing Weak Rock", true, block.RGB{R: 80, G: 200, B: 180}))
	block.Register(block.MudID, block.NewBasic(block.MudID, "Mud", true, block.RGB{R: 60, G: 45, B: 35}))
	block.Register(block.MyceliumID, block.NewBasic(block.MyceliumID, "Mycelium", true, block.RGB{R: 120, G: 90, B: 130}))
}
