package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }

func TestStoreInsertGetRemove(t *testing.T) {
	r := NewRegistry()
	positions := NewStore[position]()

	id := r.Create()
	positions.Insert(id, position{1, 2})

	v, ok := positions.Get(id)
	require.True(t, ok)
	assert.Equal(t, position{1, 2}, v)

	positions.Remove(id)
	_, ok = positions.Get(id)
	assert.False(t, ok)
}

func TestStoreMutate(t *testing.T) {
	r := NewRegistry()
	positions := NewStore[position]()
	id := r.Create()
	positions.Insert(id, position{0, 0})

	ok := positions.Mutate(id, func(p *position) { p.X += 5 })
	require.True(t, ok)

	v, _ := positions.Get(id)
	assert.Equal(t, 5.0, v.X)
}

func TestJoin2OnlyVisitsSharedEntities(t *testing.T) {
	r := NewRegistry()
	positions := NewStore[position]()
	velocities := NewStore[velocity]()

	moving := r.Create()
	still := r.Create()

	positions.Insert(moving, position{0, 0})
	velocities.Insert(moving, velocity{1, 1})
	positions.Insert(still, position{5, 5})

	var visited []EntityID
	Join2(positions, velocities, func(id EntityID, p position, v velocity) {
		visited = append(visited, id)
	})

	assert.Equal(t, []EntityID{moving}, visited)
}
