package persistence

import "github.com/ashfall-games/worldcore/internal/vec"

// CharacterID identifies one persisted character record.
type CharacterID uint64

// Body is the cosmetic appearance a player picks at character creation,
// mirroring the teacher's per-field byte encoding rather than a single
// opaque blob so individual fields can be validated and migrated.
type Body struct {
	Species    uint8
	BodyType   uint8
	HairStyle  uint8
	Beard      uint8
	Eyes       uint8
	Accessory  uint8
	HairColor  uint8
	Skin       uint8
	EyeColor   uint8
}

// InventorySlot is one stack in a character's inventory.
type InventorySlot struct {
	Item  string
	Count uint32
}

// PetRecord is a tamed companion bound to a character.
type PetRecord struct {
	Name string
	Body Body
}

// SkillSetRecord holds a character's unlocked skills and skill groups as
// their stable db strings, the encoded form EncodeSkill/DecodeSkill
// round-trip through. Storing the encoded strings (not the Skill structs)
// means a record loaded from disk is validated against the current
// registry on every read via Validate.
type SkillSetRecord struct {
	Skills []string
	Groups []string
}

// Validate decodes every stored string, failing fatally on the first one
// that isn't recognized rather than silently dropping it.
func (s SkillSetRecord) Validate() error {
	for _, str := range s.Skills {
		if _, err := DecodeSkill(str); err != nil {
			return err
		}
	}
	for _, str := range s.Groups {
		if _, err := DecodeSkillGroup(str); err != nil {
			return err
		}
	}
	return nil
}

// CharacterRecord is the full externally-persisted state for one
// character: body, position, inventory, skill set, pets, keyed by
// CharacterID.
type CharacterRecord struct {
	ID       CharacterID
	Name     string
	Body     Body
	Position vec.Vec3f
	Inventory []InventorySlot
	Skills   SkillSetRecord
	Pets     []PetRecord
}
