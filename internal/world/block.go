package world

import "github.com/ashfall-games/worldcore/internal/world/block"

// Block is a fixed-size value: kind, tint, and an optional sprite tag with
// sprite-specific attributes. Blocks are by-value and never aliased.
type Block struct {
	Kind   block.BlockID
	Tint   block.RGB
	Sprite block.Metadata // nil unless Kind carries a sprite
}

// NewBlock создаёт блок с тинтом и метаданными по умолчанию для указанного типа.
func NewBlock(kind block.BlockID) Block {
	behavior, exists := block.Get(kind)
	if !exists {
		return Block{Kind: kind}
	}
	b := Block{Kind: kind, Tint: behavior.DefaultTint()}
	if behavior.IsSprite() {
		b.Sprite = behavior.CreateMetadata()
	}
	return b
}

// Filled reports whether the block occludes and is solid for collision.
// A sprite-bearing block is non-filled unless the sprite is explicitly
// solid (its behavior declares Filled()==true).
func (b Block) Filled() bool {
	behavior, exists := block.Get(b.Kind)
	if !exists {
		return false
	}
	return behavior.Filled()
}

// IsSprite reports whether the block carries a sprite tag.
func (b Block) IsSprite() bool {
	return b.Sprite != nil
}

// Clone returns a deep copy of the block (sprite metadata is copied, never shared).
func (b Block) Clone() Block {
	if b.Sprite == nil {
		return b
	}
	cp := make(block.Metadata, len(b.Sprite))
	for k, v := range b.Sprite {
		cp[k] = v
	}
	return Block{Kind: b.Kind, Tint: b.Tint, Sprite: cp}
}

// Air is the zero-value block: empty, non-filled.
var Air = Block{Kind: block.AirBlockID}
