package synth

import (
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/civ"
	"github.com/ashfall-games/worldcore/internal/world/mapgen"
	"github.com/ashfall-games/worldcore/internal/world/noise"
)

// siteSynthRadius bounds how far from a site's center a chunk can still be
// touched by that site's plot, in chunks. Gnarling fortifications top out
// around wallRadius+50 blocks (at most 270 at the largest roll, about nine
// chunks), so about three chunks of slack keeps the search cheap without
// clipping a plot's footprint.
const siteSynthRadius = 12

// Synthesize materializes the full Chunk at key: base terrain from the World
// Map Cell, cave networks carved in, then any site plots whose footprint
// intersects this chunk. basis supplies the shared fBm fields so cave shape
// stays consistent across chunk boundaries; civs may be nil if no
// civilization layer has been generated (caves and terrain still work).
func Synthesize(key vec.ChunkKey, m *world.Map, civs *civ.Civs, seed int64, basis *noise.Basis) *world.Chunk {
	cell := m.At(vec.Vec2{X: int(key.X), Y: int(key.Y)})
	minZ, maxZ := ExtentFor(cell)
	c := world.NewChunk(key, minZ, maxZ)
	c.Meta.Biome = mapgen.BiomeOf(cell)

	fillTerrain(c, cell)
	applyCaves(c, key, m, seed, basis)

	if civs != nil {
		for _, site := range sitesNear(civs, key) {
			renderSite(c, key, m, site, seed)
		}
	}

	return c
}

// sitesNear returns every settlement site whose center chunk lies within
// siteSynthRadius of key — the candidate set whose plot might paint into
// this chunk. Re-evaluating the same site's plot for every chunk it
// overlaps uses the same deterministic seed-derived geometry each time, so
// neighboring chunks stitch seamlessly regardless of evaluation order.
func sitesNear(civs *civ.Civs, key vec.ChunkKey) []*world.Site {
	var out []*world.Site
	for _, site := range civs.Sites {
		if site.Kind != world.SiteSettlement {
			continue
		}
		center := site.Center.ToChunkKey()
		dx := center.X - key.X
		dy := center.Y - key.Y
		if dx < -siteSynthRadius || dx > siteSynthRadius || dy < -siteSynthRadius || dy > siteSynthRadius {
			continue
		}
		out = append(out, site)
	}
	return out
}

// renderSite evaluates a settlement's fortification plot against c. The
// plot is regenerated from the site's center and a seed derived from the
// world seed and site id, never cached, so evaluating it from any chunk
// that intersects it reproduces identical geometry.
func renderSite(c *world.Chunk, key vec.ChunkKey, m *world.Map, site *world.Site, seed int64) {
	siteSeed := seed ^ int64(site.ID)*0xC2B2AE3D27D4EB4F
	wpos := vec.Vec2{X: site.Center.X * vec.ChunkSize, Y: site.Center.Y * vec.ChunkSize}
	fort := GenerateGnarling(wpos, siteSeed)
	fort.Render(c, key, m)
}
