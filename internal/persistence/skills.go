// Package persistence implements externally-keyed character storage: a
// stable string encoding for skills/skill-groups and a badger-backed
// character repository keyed by character id, grounded on the teacher's
// internal/storage badger usage generalized from chunk deltas to full
// character records.
package persistence

import "fmt"

// Skill is a weapon/general ability unlock, identified by the same
// Category/Variant pair the game's stable skill encoding round-trips
// through. The game logic that grants or checks skills lives elsewhere;
// this package only needs the encoding to be faithful and total.
type Skill struct {
	Category string
	Variant  string
}

// SkillGroup gates an entire weapon's skill tree behind one unlock, or
// covers the "General" group that's always available.
type SkillGroup struct {
	Kind   string // "General" or "Weapon"
	Weapon string // only meaningful when Kind == "Weapon"
}

// skillTable lists every (Skill, db string) pair the game recognizes,
// transcribed from the stable encoding so Encode/Decode stay exhaustive
// and symmetric. Unlike the original, weapon kinds with no skill tree
// (Dagger, Shield, Spear, the *Simple tools, Debug, Farming, Empty,
// Unique, and the General group unlock) have no entry here: those group
// unlocks aren't persisted.
var skillTable = []struct {
	skill Skill
	str   string
}{
	{Skill{"General", "HealthIncrease"}, "General HealthIncrease"},
	{Skill{"General", "EnergyIncrease"}, "General EnergyIncrease"},

	{Skill{"Sword", "InterruptingAttacks"}, "Sword InterruptingAttacks"},
	{Skill{"Sword", "TsCombo"}, "Sword TsCombo"},
	{Skill{"Sword", "TsDamage"}, "Sword TsDamage"},
	{Skill{"Sword", "TsRegen"}, "Sword TsRegen"},
	{Skill{"Sword", "TsSpeed"}, "Sword TsSpeed"},
	{Skill{"Sword", "DCost"}, "Sword DCost"},
	{Skill{"Sword", "DDrain"}, "Sword DDrain"},
	{Skill{"Sword", "DDamage"}, "Sword DDamage"},
	{Skill{"Sword", "DScaling"}, "Sword DScaling"},
	{Skill{"Sword", "DSpeed"}, "Sword DSpeed"},
	{Skill{"Sword", "DInfinite"}, "Sword DInfinite"},
	{Skill{"Sword", "UnlockSpin"}, "Sword UnlockSpin"},
	{Skill{"Sword", "SDamage"}, "Sword SDamage"},
	{Skill{"Sword", "SSpeed"}, "Sword SSpeed"},
	{Skill{"Sword", "SCost"}, "Sword SCost"},
	{Skill{"Sword", "SSpins"}, "Sword SSpins"},

	{Skill{"Axe", "DsCombo"}, "Axe DsCombo"},
	{Skill{"Axe", "DsDamage"}, "Axe DsDamage"},
	{Skill{"Axe", "DsSpeed"}, "Axe DsSpeed"},
	{Skill{"Axe", "DsRegen"}, "Axe DsRegen"},
	{Skill{"Axe", "SInfinite"}, "Axe SInfinite"},
	{Skill{"Axe", "SHelicopter"}, "Axe SHelicopter"},
	{Skill{"Axe", "SDamage"}, "Axe SDamage"},
	{Skill{"Axe", "SSpeed"}, "Axe SSpeed"},
	{Skill{"Axe", "SCost"}, "Axe SCost"},
	{Skill{"Axe", "UnlockLeap"}, "Axe UnlockLeap"},
	{Skill{"Axe", "LDamage"}, "Axe LDamage"},
	{Skill{"Axe", "LKnockback"}, "Axe LKnockback"},
	{Skill{"Axe", "LCost"}, "Axe LCost"},
	{Skill{"Axe", "LDistance"}, "Axe LDistance"},

	{Skill{"Hammer", "SsKnockback"}, "Hammer SsKnockback"},
	{Skill{"Hammer", "SsDamage"}, "Hammer SsDamage"},
	{Skill{"Hammer", "SsSpeed"}, "Hammer SsSpeed"},
	{Skill{"Hammer", "SsRegen"}, "Hammer SsRegen"},
	{Skill{"Hammer", "CDamage"}, "Hammer CDamage"},
	{Skill{"Hammer", "CKnockback"}, "Hammer CKnockback"},
	{Skill{"Hammer", "CDrain"}, "Hammer CDrain"},
	{Skill{"Hammer", "CSpeed"}, "Hammer CSpeed"},
	{Skill{"Hammer", "UnlockLeap"}, "Hammer UnlockLeap"},
	{Skill{"Hammer", "LDamage"}, "Hammer LDamage"},
	{Skill{"Hammer", "LCost"}, "Hammer LCost"},
	{Skill{"Hammer", "LDistance"}, "Hammer LDistance"},
	{Skill{"Hammer", "LKnockback"}, "Hammer LKnockback"},
	{Skill{"Hammer", "LRange"}, "Hammer LRange"},

	{Skill{"Bow", "ProjSpeed"}, "Bow ProjSpeed"},
	{Skill{"Bow", "BDamage"}, "Bow BDamage"},
	{Skill{"Bow", "BRegen"}, "Bow BRegen"},
	{Skill{"Bow", "CDamage"}, "Bow CDamage"},
	{Skill{"Bow", "CKnockback"}, "Bow CKnockback"},
	{Skill{"Bow", "CProjSpeed"}, "Bow CProjSpeed"},
	{Skill{"Bow", "CDrain"}, "Bow CDrain"},
	{Skill{"Bow", "CSpeed"}, "Bow CSpeed"},
	{Skill{"Bow", "CMove"}, "Bow CMove"},
	{Skill{"Bow", "UnlockRepeater"}, "Bow UnlockRepeater"},
	{Skill{"Bow", "RDamage"}, "Bow RDamage"},
	{Skill{"Bow", "RGlide"}, "Bow RGlide"},
	{Skill{"Bow", "RArrows"}, "Bow RArrows"},
	{Skill{"Bow", "RCost"}, "Bow RCost"},

	{Skill{"Staff", "BExplosion"}, "Staff BExplosion"},
	{Skill{"Staff", "BDamage"}, "Staff BDamage"},
	{Skill{"Staff", "BRegen"}, "Staff BRegen"},
	{Skill{"Staff", "BRadius"}, "Staff BRadius"},
	{Skill{"Staff", "FDamage"}, "Staff FDamage"},
	{Skill{"Staff", "FRange"}, "Staff FRange"},
	{Skill{"Staff", "FDrain"}, "Staff FDrain"},
	{Skill{"Staff", "FVelocity"}, "Staff FVelocity"},
	{Skill{"Staff", "UnlockShockwave"}, "Staff UnlockShockwave"},
	{Skill{"Staff", "SDamage"}, "Staff SDamage"},
	{Skill{"Staff", "SKnockback"}, "Staff SKnockback"},
	{Skill{"Staff", "SRange"}, "Staff SRange"},
	{Skill{"Staff", "SCost"}, "Staff SCost"},

	{Skill{"Sceptre", "BHeal"}, "Sceptre BHeal"},
	{Skill{"Sceptre", "BDamage"}, "Sceptre BDamage"},
	{Skill{"Sceptre", "BRange"}, "Sceptre BRange"},
	{Skill{"Sceptre", "BLifesteal"}, "Sceptre BLifesteal"},
	{Skill{"Sceptre", "BRegen"}, "Sceptre BRegen"},
	{Skill{"Sceptre", "BCost"}, "Sceptre BCost"},
	{Skill{"Sceptre", "PHeal"}, "Sceptre PHeal"},
	{Skill{"Sceptre", "PDamage"}, "Sceptre PDamage"},
	{Skill{"Sceptre", "PRadius"}, "Sceptre PRadius"},
	{Skill{"Sceptre", "PCost"}, "Sceptre PCost"},
	{Skill{"Sceptre", "PProjSpeed"}, "Sceptre PProjSpeed"},

	{Skill{"Roll", "ImmuneMelee"}, "Roll ImmuneMelee"},
	{Skill{"Roll", "Cost"}, "Roll Cost"},
	{Skill{"Roll", "Strength"}, "Roll Strength"},
	{Skill{"Roll", "Duration"}, "Roll Duration"},
}

var groupTable = []struct {
	group SkillGroup
	str   string
}{
	{SkillGroup{Kind: "Weapon", Weapon: "Sword"}, "Weapon Sword"},
	{SkillGroup{Kind: "Weapon", Weapon: "Axe"}, "Weapon Axe"},
	{SkillGroup{Kind: "Weapon", Weapon: "Hammer"}, "Weapon Hammer"},
	{SkillGroup{Kind: "Weapon", Weapon: "Bow"}, "Weapon Bow"},
	{SkillGroup{Kind: "Weapon", Weapon: "Staff"}, "Weapon Staff"},
	{SkillGroup{Kind: "Weapon", Weapon: "Sceptre"}, "Weapon Sceptre"},
}

var (
	skillToString = map[Skill]string{}
	stringToSkill = map[string]Skill{}
	groupToString = map[SkillGroup]string{}
	stringToGroup = map[string]SkillGroup{}
)

func init() {
	for _, e := range skillTable {
		skillToString[e.skill] = e.str
		stringToSkill[e.str] = e.skill
	}
	for _, e := range groupTable {
		groupToString[e.group] = e.str
		stringToGroup[e.str] = e.group
	}
}

// ErrUnknownSkill marks a db string that matches no recognized skill or
// skill group. Per the persisted-state contract, this is a fatal
// persistence error, never a silent default.
var ErrUnknownSkill = fmt.Errorf("persistence: unknown skill string")

// EncodeSkill returns the stable db string for s, or ErrUnknownSkill if s
// isn't a recognized, persistable skill.
func EncodeSkill(s Skill) (string, error) {
	str, ok := skillToString[s]
	if !ok {
		return "", fmt.Errorf("%w: %+v", ErrUnknownSkill, s)
	}
	return str, nil
}

// DecodeSkill parses a db string back into a Skill, failing on any string
// outside the recognized set rather than guessing at a default skill.
func DecodeSkill(str string) (Skill, error) {
	s, ok := stringToSkill[str]
	if !ok {
		return Skill{}, fmt.Errorf("%w: %q", ErrUnknownSkill, str)
	}
	return s, nil
}

// EncodeSkillGroup returns the stable db string for g.
func EncodeSkillGroup(g SkillGroup) (string, error) {
	str, ok := groupToString[g]
	if !ok {
		return "", fmt.Errorf("%w: %+v", ErrUnknownSkill, g)
	}
	return str, nil
}

// DecodeSkillGroup parses a db string back into a SkillGroup.
func DecodeSkillGroup(str string) (SkillGroup, error) {
	g, ok := stringToGroup[str]
	if !ok {
		return SkillGroup{}, fmt.Errorf("%w: %q", ErrUnknownSkill, str)
	}
	return g, nil
}
