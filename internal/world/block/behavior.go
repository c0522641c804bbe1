package block

// Metadata holds sprite-specific attributes (orientation, mirror, ...).
type Metadata map[string]interface{}

// RGB is a fixed-point tint applied on top of a block kind's default color.
type RGB struct {
	R, G, B uint8
}

// BlockBehavior describes the static properties of a block kind: whether it
// occludes/collides (Filled), its default tint, and whether it carries a
// sprite tag. The voxel Block is an immutable by-value record, so behavior
// here is descriptive, not simulated, unlike a tickable per-block behavior.
type BlockBehavior interface {
	ID() BlockID
	Name() string
	// Filled reports whether the block occludes and is solid for collision.
	Filled() bool
	DefaultTint() RGB
	// IsSprite reports whether this kind carries a non-filled sprite tag by
	// default.
	IsSprite() bool
	CreateMetadata() Metadata
}

// Basic is the common implementation shared by most registered kinds;
// per-kind behaviors in the implementations subpackage embed it and override
// CreateMetadata where a kind needs sprite-specific attributes.
type Basic struct {
	id     BlockID
	name   string
	filled bool
	tint   RGB
	sprite bool
}

// NewBasic constructs a Basic behavior for a simple, non-sprite block kind.
func NewBasic(id BlockID, name string, filled bool, tint RGB) Basic {
	return Basic{id: id, name: name, filled: filled, tint: tint}
}

// NewBasicSprite constructs a Basic behavior for a sprite-bearing kind.
func NewBasicSprite(id BlockID, name string, filled bool, tint RGB) Basic {
	return Basic{id: id, name: name, filled: filled, tint: tint, sprite: true}
}

func (b Basic) ID() BlockID              { return b.id }
func (b Basic) Name() string             { return b.name }
func (b Basic) Filled() bool             { return b.filled }
func (b Basic) DefaultTint() RGB         { return b.tint }
func (b Basic) IsSprite() bool           { return b.sprite }
func (b Basic) CreateMetadata() Metadata { return nil }
