package game

import "github.com/go-gl/mathgl/mgl64"

// Ball is the single moving circle of a match.
type Ball struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Radius   float64
}

// Move advances the ball by velocity*dt regardless of collisions.
func (b *Ball) Move(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// Speed is the magnitude of the velocity.
func (b *Ball) Speed() float64 {
	return b.Velocity.Len()
}
