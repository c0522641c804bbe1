package civ

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/world/mapgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	m1 := mapgen.Generate(42, 48, 48, mapgen.DefaultConfig())
	m2 := mapgen.Generate(42, 48, 48, mapgen.DefaultConfig())

	civs1 := Generate(m1, 42, Config{CivCount: 4, SimYears: 10})
	civs2 := Generate(m2, 42, Config{CivCount: 4, SimYears: 10})

	require.Equal(t, len(civs1.Sites), len(civs2.Sites))
	require.Equal(t, len(civs1.Places), len(civs2.Places))
	require.Equal(t, len(civs1.Tracks), len(civs2.Tracks))
	for id, site := range civs1.Sites {
		other, ok := civs2.Sites[id]
		require.True(t, ok)
		assert.Equal(t, site.Center, other.Center)
		assert.Equal(t, site.Population, other.Population)
	}
}

func TestGeneratePlacesCoverDistinctCells(t *testing.T) {
	m := mapgen.Generate(7, 64, 64, mapgen.DefaultConfig())
	civs := Generate(m, 7, Config{CivCount: 6, SimYears: 5})

	require.NotEmpty(t, civs.Places)
	owner := make(map[int]int)
	for _, place := range civs.Places {
		for cell := range place.Cells {
			key := cell.X*10000 + cell.Y
			if prev, ok := owner[key]; ok {
				t.Fatalf("cell %v claimed by both place %d and %d", cell, prev, place.ID)
			}
			owner[key] = int(place.ID)
		}
	}
}

func TestTrackEndpointsAreDistinctSites(t *testing.T) {
	m := mapgen.Generate(11, 64, 64, mapgen.DefaultConfig())
	civs := Generate(m, 11, Config{CivCount: 8, SimYears: 5})

	for _, track := range civs.Tracks {
		assert.NotEqual(t, track.A, track.B)
		_, aOk := civs.Sites[track.A]
		_, bOk := civs.Sites[track.B]
		assert.True(t, aOk)
		assert.True(t, bOk)
		assert.Greater(t, track.Cost, 0.0)
	}
}

func TestSettlementPopulationStaysNonNegative(t *testing.T) {
	m := mapgen.Generate(99, 48, 48, mapgen.DefaultConfig())
	civs := Generate(m, 99, Config{CivCount: 5, SimYears: 200})

	for _, site := range civs.Sites {
		assert.GreaterOrEqual(t, site.Population, 0)
		assert.GreaterOrEqual(t, site.StockFood, 0.0)
	}
}
