package mount

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/physics"
	"github.com/ashfall-games/worldcore/internal/vec"
)

func alwaysExists(ecs.EntityID) bool { return true }

func TestMountLinksRiderAndMount(t *testing.T) {
	reg := ecs.NewRegistry()
	horse, rider := reg.Create(), reg.Create()
	m := NewManager(alwaysExists)

	if err := m.Mount(horse, rider); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got, ok := m.MountOf(rider); !ok || got != horse {
		t.Fatalf("MountOf(rider) = %v, %v, want %v, true", got, ok, horse)
	}
	if got, ok := m.RiderOf(horse); !ok || got != rider {
		t.Fatalf("RiderOf(horse) = %v, %v, want %v, true", got, ok, rider)
	}
}

func TestMountRejectsSelfMount(t *testing.T) {
	reg := ecs.NewRegistry()
	a := reg.Create()
	m := NewManager(alwaysExists)
	if err := m.Mount(a, a); err != ErrNotMountable {
		t.Fatalf("Mount(a, a) = %v, want ErrNotMountable", err)
	}
}

func TestMountRejectsDoubleRider(t *testing.T) {
	reg := ecs.NewRegistry()
	horse, riderA, riderB := reg.Create(), reg.Create(), reg.Create()
	m := NewManager(alwaysExists)
	if err := m.Mount(horse, riderA); err != nil {
		t.Fatalf("first Mount: %v", err)
	}
	if err := m.Mount(horse, riderB); err != ErrNotMountable {
		t.Fatalf("second rider on same mount = %v, want ErrNotMountable", err)
	}
}

func TestMountRejectsRiderAlreadyMounted(t *testing.T) {
	reg := ecs.NewRegistry()
	horseA, horseB, rider := reg.Create(), reg.Create(), reg.Create()
	m := NewManager(alwaysExists)
	if err := m.Mount(horseA, rider); err != nil {
		t.Fatalf("first Mount: %v", err)
	}
	if err := m.Mount(horseB, rider); err != ErrNotMountable {
		t.Fatalf("rider mounting a second mount = %v, want ErrNotMountable", err)
	}
}

func TestMountRejectsEndpointsAlreadyInOppositeRoles(t *testing.T) {
	reg := ecs.NewRegistry()
	a, b, c, d := reg.Create(), reg.Create(), reg.Create(), reg.Create()
	m := NewManager(alwaysExists)
	// a carries b as a rider; c carries d as a rider.
	if err := m.Mount(a, b); err != nil {
		t.Fatalf("Mount(a,b): %v", err)
	}
	if err := m.Mount(c, d); err != nil {
		t.Fatalf("Mount(c,d): %v", err)
	}
	// Mounting c onto b would make b (already a rider) a mount and c
	// (already a mount) a rider, chaining a-b-c-d.
	if err := m.Mount(b, c); err != ErrNotMountable {
		t.Fatalf("Mount(b,c) with both endpoints in the opposite role = %v, want ErrNotMountable", err)
	}
}

func TestMountRejectsNonexistentEntity(t *testing.T) {
	reg := ecs.NewRegistry()
	horse, rider := reg.Create(), reg.Create()
	m := NewManager(func(e ecs.EntityID) bool { return e != rider })
	if err := m.Mount(horse, rider); err != ErrNoSuchEntity {
		t.Fatalf("Mount = %v, want ErrNoSuchEntity", err)
	}
}

func TestDismountUnlinksAndReturnsMount(t *testing.T) {
	reg := ecs.NewRegistry()
	horse, rider := reg.Create(), reg.Create()
	m := NewManager(alwaysExists)
	m.Mount(horse, rider)

	got, ok := m.Dismount(rider)
	if !ok || got != horse {
		t.Fatalf("Dismount = %v, %v, want %v, true", got, ok, horse)
	}
	if _, ok := m.MountOf(rider); ok {
		t.Fatal("rider should no longer be mounted")
	}
	if _, ok := m.RiderOf(horse); ok {
		t.Fatal("horse should no longer carry a rider")
	}
}

func TestDismountOfUnmountedRiderFails(t *testing.T) {
	reg := ecs.NewRegistry()
	rider := reg.Create()
	m := NewManager(alwaysExists)
	if _, ok := m.Dismount(rider); ok {
		t.Fatal("dismounting an unmounted rider should report false")
	}
}

func TestFindDismountSpotScansUpwardForAir(t *testing.T) {
	solid := func(p vec.Vec3) bool { return p.Z < 65 }
	pos := vec.Vec3{X: 0, Y: 0, Z: 60}.ToVec3f()
	spot, ok := physics.FindDismountSpot(pos, solid)
	if !ok {
		t.Fatal("expected to find air above the solid column")
	}
	if spot.Z() != 65 {
		t.Fatalf("spot.Z = %v, want 65", spot.Z())
	}
}

func TestFindDismountSpotGivesUpAfterMaxScan(t *testing.T) {
	solid := func(vec.Vec3) bool { return true }
	pos := vec.Vec3{X: 0, Y: 0, Z: 0}.ToVec3f()
	spot, ok := physics.FindDismountSpot(pos, solid)
	if ok {
		t.Fatal("expected no air found within the scan cap")
	}
	if spot != pos {
		t.Fatal("position should be left unchanged when no spot is found")
	}
}
