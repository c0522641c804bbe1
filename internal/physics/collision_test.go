package physics

import (
	"testing"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/stretchr/testify/assert"
)

func flatGround(pos vec.Vec3) bool {
	return pos.Z < 0
}

func walledRoom(pos vec.Vec3) bool {
	if pos.Z < 0 {
		return true
	}
	return pos.X == 5
}

func TestResolveRestsOnGround(t *testing.T) {
	c := Collider{Radius: 0.3, Height: 1.55}
	pos := vec.Vec3f{0, 0, 0.1}
	vel := vec.Vec3f{0, 0, -5}

	newPos, newVel, onGround := Resolve(pos, vel, 1.0/30.0, c, flatGround)

	assert.True(t, onGround)
	assert.GreaterOrEqual(t, newPos.Z(), float32(0))
	assert.Equal(t, float32(0), newVel.Z())
}

func TestResolveFreeFallWhenAirborne(t *testing.T) {
	c := Collider{Radius: 0.3, Height: 1.55}
	pos := vec.Vec3f{0, 0, 10}
	vel := vec.Vec3f{0, 0, -5}

	newPos, newVel, onGround := Resolve(pos, vel, 1.0/30.0, c, flatGround)

	assert.False(t, onGround)
	assert.Less(t, newPos.Z(), float32(10))
	assert.Equal(t, float32(-5), newVel.Z())
}

func TestResolveStopsAtWall(t *testing.T) {
	c := Collider{Radius: 0.3, Height: 1.55}
	pos := vec.Vec3f{4.5, 0, 0}
	vel := vec.Vec3f{10, 0, 0}

	newPos, newVel, _ := Resolve(pos, vel, 1.0/30.0, c, walledRoom)

	assert.Less(t, newPos.X(), float32(5))
	assert.Equal(t, float32(0), newVel.X())
}

func TestResolveNoCollisionInOpenAir(t *testing.T) {
	c := Collider{Radius: 0.3, Height: 1.55}
	pos := vec.Vec3f{0, 0, 10}
	vel := vec.Vec3f{1, 0, 0}

	newPos, newVel, onGround := Resolve(pos, vel, 1.0/30.0, c, func(vec.Vec3) bool { return false })

	assert.False(t, onGround)
	assert.Greater(t, newPos.X(), float32(0))
	assert.Equal(t, float32(1), newVel.X())
}
