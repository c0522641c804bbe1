package vec

import "math"

// Vec2 represents a 2D integer coordinate: a chunk-grid index on the world
// map, or a column within a chunk.
type Vec2 struct {
	X, Y int
}

// ToChunkKey converts a map coordinate to a ChunkKey.
func (v Vec2) ToChunkKey() ChunkKey {
	return ChunkKey{X: int32(v.X), Y: int32(v.Y)}
}

// Add returns the sum of the two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of the two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// DistanceTo returns the Euclidean distance to another point.
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Neighbors8 returns the 8 horizontal neighbors in fixed order, used when
// picking a downhill neighbor during flow routing.
func (v Vec2) Neighbors8() [8]Vec2 {
	return [8]Vec2{
		{v.X - 1, v.Y - 1}, {v.X, v.Y - 1}, {v.X + 1, v.Y - 1},
		{v.X - 1, v.Y}, {v.X + 1, v.Y},
		{v.X - 1, v.Y + 1}, {v.X, v.Y + 1}, {v.X + 1, v.Y + 1},
	}
}
