package architect

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/ecs"
)

func TestTickSkipsNonBoundaryTicks(t *testing.T) {
	q := NewQueue(32, 0, 10)
	reg := ecs.NewRegistry()
	q.Enqueue(Death{Entity: reg.Create(), DiedTick: 0})

	called := false
	q.Tick(5, func(Death) bool { called = true; return true })
	if called {
		t.Fatal("Tick should no-op off the TickSkip boundary")
	}
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1", q.Len())
	}
}

func TestTickWithholdsDeathsUntilMinSpawnDelayElapses(t *testing.T) {
	q := NewQueue(1, 100, 10)
	reg := ecs.NewRegistry()
	q.Enqueue(Death{Entity: reg.Create(), DiedTick: 50})

	called := false
	q.Tick(100, func(Death) bool { called = true; return true })
	if called {
		t.Fatal("spawn should not fire before DiedTick+MinSpawnDelay")
	}

	q.Tick(151, func(Death) bool { called = true; return true })
	if !called {
		t.Fatal("spawn should fire once the delay has elapsed")
	}
	if q.Len() != 0 {
		t.Fatalf("Len = %d, want 0", q.Len())
	}
}

func TestTickRequeuesFailedSpawnsPreservingOrder(t *testing.T) {
	q := NewQueue(1, 0, 10)
	reg := ecs.NewRegistry()
	a := Death{Entity: reg.Create(), DiedTick: 0, Body: "a"}
	b := Death{Entity: reg.Create(), DiedTick: 0, Body: "b"}
	q.Enqueue(a)
	q.Enqueue(b)

	var attempted []string
	q.Tick(1, func(d Death) bool {
		attempted = append(attempted, d.Body)
		return false
	})
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after both spawns fail", q.Len())
	}
	if len(attempted) != 2 || attempted[0] != "a" || attempted[1] != "b" {
		t.Fatalf("attempted = %v, want [a b]", attempted)
	}

	var secondAttempt []string
	q.Tick(1, func(d Death) bool {
		secondAttempt = append(secondAttempt, d.Body)
		return d.Body == "a"
	})
	if len(secondAttempt) != 2 || secondAttempt[0] != "a" || secondAttempt[1] != "b" {
		t.Fatalf("second attempt order = %v, want [a b] preserved", secondAttempt)
	}
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (only b still pending)", q.Len())
	}
}

func TestTickCapsSuccessfulSpawnsAtMaxPerTick(t *testing.T) {
	q := NewQueue(1, 0, 1)
	reg := ecs.NewRegistry()
	q.Enqueue(Death{Entity: reg.Create(), DiedTick: 0})
	q.Enqueue(Death{Entity: reg.Create(), DiedTick: 0})

	spawns := 0
	q.Tick(1, func(Death) bool { spawns++; return true })
	if spawns != 1 {
		t.Fatalf("spawns = %d, want 1", spawns)
	}
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1 remaining", q.Len())
	}
}
