// Package architect implements a death-to-replacement queue: entities that
// die get queued for eventual respawn once a minimum delay elapses,
// scoped to the queue contract itself rather than full NPC economy
// simulation.
package architect

import (
	"sync"

	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/vec"
)

// Death is one queued replacement request: the entity that died, where,
// what it looked like, and the tick it died on.
type Death struct {
	Entity   ecs.EntityID
	Position vec.Vec3f
	Body     string
	DiedTick uint64
}

// Spawner attempts to place a replacement for d, returning false if no
// suitable spot could be found this attempt (e.g. every respawn-chunk
// attempt failed); a false result requeues d for a later tick.
type Spawner func(d Death) bool

// Queue holds pending replacements in death order, processed only every
// TickSkip ticks and only once MinSpawnDelay ticks have elapsed since
// death, matching the teacher's "don't run every tick, don't spawn
// instantly" pacing.
type Queue struct {
	mu            sync.Mutex
	deaths        []Death
	TickSkip      uint64
	MinSpawnDelay uint64
	MaxPerTick    int
}

// NewQueue returns a Queue with the given tick-skip and minimum spawn
// delay, both expressed in simulation ticks.
func NewQueue(tickSkip, minSpawnDelay uint64, maxPerTick int) *Queue {
	return &Queue{TickSkip: tickSkip, MinSpawnDelay: minSpawnDelay, MaxPerTick: maxPerTick}
}

// Enqueue records a death for later replacement.
func (q *Queue) Enqueue(d Death) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deaths = append(q.deaths, d)
}

// Len reports the number of deaths still awaiting replacement.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.deaths)
}

// Tick processes the queue if now falls on a TickSkip boundary, popping
// deaths from the front (oldest first) that have cleared MinSpawnDelay and
// handing each to spawn. Deaths spawn fails are requeued, preserving their
// original relative order, for a later attempt; at most MaxPerTick
// successful spawns happen per call, and processing stops as soon as the
// front-of-queue death hasn't cleared its delay yet (younger deaths behind
// it haven't either).
func (q *Queue) Tick(now uint64, spawn Spawner) {
	if q.TickSkip > 0 && now%q.TickSkip != 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	spawned := 0
	var failed []Death
	for spawned < q.MaxPerTick && len(q.deaths) > 0 {
		d := q.deaths[0]
		if d.DiedTick+q.MinSpawnDelay > now {
			break
		}
		q.deaths = q.deaths[1:]
		if spawn(d) {
			spawned++
		} else {
			failed = append(failed, d)
		}
	}
	if len(failed) > 0 {
		q.deaths = append(failed, q.deaths...)
	}
}
