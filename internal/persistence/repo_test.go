package persistence

import (
	"os"
	"testing"

	"github.com/ashfall-games/worldcore/internal/vec"
)

func setupTestRepo(t *testing.T) (*BadgerCharacterRepository, string) {
	tempDir, err := os.MkdirTemp("", "persistence-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	repo, err := NewBadgerCharacterRepository(tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("failed to open repository: %v", err)
	}
	return repo, tempDir
}

func cleanupTestRepo(repo *BadgerCharacterRepository, tempDir string) {
	if repo != nil {
		repo.Close()
	}
	if tempDir != "" {
		os.RemoveAll(tempDir)
	}
}

func sampleRecord(id CharacterID) CharacterRecord {
	return CharacterRecord{
		ID:       id,
		Name:     "Thistle",
		Body:     Body{Species: 1, BodyType: 0, HairStyle: 3},
		Position: vec.Vec3f{10, 64, 10},
		Inventory: []InventorySlot{
			{Item: "common.items.food.apple", Count: 4},
		},
		Skills: SkillSetRecord{
			Skills: []string{"Sword TsCombo", "General HealthIncrease"},
			Groups: []string{"Weapon Sword"},
		},
		Pets: []PetRecord{{Name: "Rex", Body: Body{Species: 2}}},
	}
}

func TestSaveAndLoadCharacterRoundTrips(t *testing.T) {
	repo, dir := setupTestRepo(t)
	defer cleanupTestRepo(repo, dir)

	rec := sampleRecord(42)
	if err := repo.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(42)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != rec.Name || got.Position != rec.Position {
		t.Fatalf("Load = %+v, want %+v", got, rec)
	}
	if len(got.Skills.Skills) != 2 || len(got.Skills.Groups) != 1 {
		t.Fatalf("Load skills = %+v", got.Skills)
	}
}

func TestLoadMissingCharacterReturnsErrNotFound(t *testing.T) {
	repo, dir := setupTestRepo(t)
	defer cleanupTestRepo(repo, dir)

	if _, err := repo.Load(999); err != ErrNotFound {
		t.Fatalf("Load(missing) = %v, want ErrNotFound", err)
	}
}

func TestSaveRejectsRecordWithUnknownSkillString(t *testing.T) {
	repo, dir := setupTestRepo(t)
	defer cleanupTestRepo(repo, dir)

	rec := sampleRecord(1)
	rec.Skills.Skills = append(rec.Skills.Skills, "Sword NotReal")
	if err := repo.Save(rec); err == nil {
		t.Fatal("expected Save to reject an unrecognized skill string")
	}
}

func TestDeleteRemovesCharacter(t *testing.T) {
	repo, dir := setupTestRepo(t)
	defer cleanupTestRepo(repo, dir)

	rec := sampleRecord(7)
	if err := repo.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Load(7); err != ErrNotFound {
		t.Fatalf("Load after Delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingCharacterIsNoop(t *testing.T) {
	repo, dir := setupTestRepo(t)
	defer cleanupTestRepo(repo, dir)

	if err := repo.Delete(12345); err != nil {
		t.Fatalf("Delete(missing) = %v, want nil", err)
	}
}
