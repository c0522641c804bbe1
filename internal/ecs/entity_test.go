package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryCreateAndDelete(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	assert.True(t, r.IsAlive(id))
	assert.Equal(t, 1, r.Count())

	r.Delete(id)
	assert.False(t, r.IsAlive(id))
	assert.Equal(t, 0, r.Count())
}

func TestRegistryRecyclesIndexWithNewGeneration(t *testing.T) {
	r := NewRegistry()
	id1 := r.Create()
	r.Delete(id1)
	id2 := r.Create()

	assert.Equal(t, id1.index, id2.index)
	assert.NotEqual(t, id1.generation, id2.generation)
	assert.False(t, r.IsAlive(id1))
	assert.True(t, r.IsAlive(id2))
}

func TestRegistryDeleteStaleIDIsNoop(t *testing.T) {
	r := NewRegistry()
	id1 := r.Create()
	r.Delete(id1)
	id2 := r.Create()

	r.Delete(id1)
	assert.True(t, r.IsAlive(id2))
}
