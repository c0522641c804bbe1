package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashDeterministic(t *testing.T) {
	a := Hash(42, LaneCave, 10, -5)
	b := Hash(42, LaneCave, 10, -5)
	assert.Equal(t, a, b)
}

func TestHashVariesByLaneAndCoord(t *testing.T) {
	base := Hash(42, LaneCave, 10, -5)
	assert.NotEqual(t, base, Hash(42, LaneMarble, 10, -5))
	assert.NotEqual(t, base, Hash(42, LaneCave, 11, -5))
	assert.NotEqual(t, base, Hash(43, LaneCave, 10, -5))
}

func TestUnitInRange(t *testing.T) {
	for _, c := range [][2]int32{{0, 0}, {100, -200}, {-5, 5}} {
		u := Unit(7, LaneChaos, c[0], c[1])
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)
	}
}

func TestSignedInRange(t *testing.T) {
	s := Signed(7, LaneChaos, 3, 3)
	assert.GreaterOrEqual(t, s, -1.0)
	assert.Less(t, s, 1.0)
}

func TestFieldDeterministic(t *testing.T) {
	f1 := NewField(99, LaneContinent, 4, 0.01, 1.0)
	f2 := NewField(99, LaneContinent, 4, 0.01, 1.0)
	assert.Equal(t, f1.Sample(12.5, -3.2), f2.Sample(12.5, -3.2))
}

func TestFieldDiffersByLane(t *testing.T) {
	f1 := NewField(99, LaneContinent, 4, 0.01, 1.0)
	f2 := NewField(99, LaneChaos, 4, 0.01, 1.0)
	assert.NotEqual(t, f1.Sample(12.5, -3.2), f2.Sample(12.5, -3.2))
}

func TestBasisAllLanesPresent(t *testing.T) {
	b := NewBasis(1)
	assert.NotNil(t, b.Continent)
	assert.NotNil(t, b.Chaos)
	assert.NotNil(t, b.Temperature)
	assert.NotNil(t, b.Humidity)
	assert.NotNil(t, b.Cave)
	assert.NotNil(t, b.Marble)
}
