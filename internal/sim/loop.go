package sim

import (
	"context"
	"time"
)

// Loop drives a World at a fixed tick rate, mirroring the teacher's
// WorldManager.Run: a ticker goroutine cancellable via context, generalized
// from a 5-minute autosave ticker to the 30 Hz simulation rate the rest of
// the pipeline assumes.
type Loop struct {
	world    *World
	tickRate time.Duration
	onTick   func(w *World)
}

// NewLoop returns a Loop driving world at the given tick rate (e.g.
// time.Second/30 for 30 Hz). onTick, if non-nil, runs after every RunTick,
// while w.Regions' events and w.Dead still describe that tick — this is
// where terrain streaming and entity sync hook in (cmd/server passes
// worldsrv.Server.OnTick).
func NewLoop(world *World, tickRate time.Duration, onTick func(w *World)) *Loop {
	return &Loop{world: world, tickRate: tickRate, onTick: onTick}
}

// Run blocks, advancing the world every tick interval until ctx is
// cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.world.RunTick(l.tickRate)
			if l.onTick != nil {
				l.onTick(l.world)
			}
		}
	}
}
