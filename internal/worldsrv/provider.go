// Package worldsrv is the server-side integration layer that wires the
// generated world (mapgen/civ) and the per-tick simulation (sim.World) to
// connected clients over the wire protocol, generalized from the teacher's
// internal/regional.RegionalNode bootstrap into the new 3D voxel domain.
package worldsrv

import (
	"context"
	"fmt"
	"sync"

	"github.com/ashfall-games/worldcore/internal/cache"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/civ"
	"github.com/ashfall-games/worldcore/internal/world/noise"
	"github.com/ashfall-games/worldcore/internal/world/synth"
)

// ChunkProvider serves Chunks on demand: an in-process hot map backed, in
// order, by an optional distributed cache.CacheRepo (Redis, cold-backed by
// badger) and finally synth.Synthesize for a clean miss. This replaces the
// teacher's BlockDeltaManager's eager chunk table with an on-demand
// generator, matching the new world model's "everything is derivable from
// the seed" design.
type ChunkProvider struct {
	mu     sync.RWMutex
	chunks map[vec.ChunkKey]*world.Chunk

	m     *world.Map
	civs  *civ.Civs
	basis *noise.Basis
	seed  int64

	cache cache.CacheRepo // nil disables the distributed layer entirely
}

// NewChunkProvider returns a provider generating chunks from m/civs/seed,
// optionally backed by repo for cross-process sharing.
func NewChunkProvider(m *world.Map, civs *civ.Civs, seed int64, repo cache.CacheRepo) *ChunkProvider {
	return &ChunkProvider{
		chunks: make(map[vec.ChunkKey]*world.Chunk),
		m:      m,
		civs:   civs,
		basis:  noise.NewBasis(seed),
		seed:   seed,
		cache:  repo,
	}
}

func chunkCacheKey(key vec.ChunkKey) string {
	return fmt.Sprintf("chunk:%d:%d", key.X, key.Y)
}

// Get returns the chunk at key, synthesizing (and caching) it on first
// access.
func (p *ChunkProvider) Get(key vec.ChunkKey) *world.Chunk {
	p.mu.RLock()
	c, ok := p.chunks[key]
	p.mu.RUnlock()
	if ok {
		return c
	}

	if p.cache != nil {
		if data, err := p.cache.Get(context.Background(), chunkCacheKey(key)); err == nil {
			if decoded, err := world.DecodeDeflate(data); err == nil {
				p.remember(key, decoded)
				return decoded
			}
		}
	}

	c = synth.Synthesize(key, p.m, p.civs, p.seed, p.basis)
	p.remember(key, c)
	if p.cache != nil {
		if _, data, err := c.Encode(false); err == nil {
			_ = p.cache.Set(context.Background(), chunkCacheKey(key), data, 0)
		}
	}
	return c
}

func (p *ChunkProvider) remember(key vec.ChunkKey, c *world.Chunk) {
	p.mu.Lock()
	p.chunks[key] = c
	p.mu.Unlock()
}

// BlockAt resolves the block occupying a world-block position, fetching
// whatever chunk contains it.
func (p *ChunkProvider) BlockAt(pos vec.Vec3) world.Block {
	c := p.Get(pos.ToChunkKey())
	lx, ly := pos.LocalInChunk()
	lz := pos.Z - c.Meta.MinZ
	return c.Get(int32(lx), int32(ly), lz)
}

// Solid adapts BlockAt into the physics.Solid occupancy test sim.NewWorld
// requires, floor-rounding the continuous collision query down to a block
// position.
func (p *ChunkProvider) Solid(pos vec.Vec3f) bool {
	return p.BlockAt(vec.FloorVec3f(pos)).Filled()
}
