package game

// Paddle is a vertical bar on one side of the court. Only its y coordinate
// changes after creation.
type Paddle struct {
	Side PaddleSide
	Rect
	Velocity float64 // Vertical velocity applied during the last step
}

// Move integrates the paddle from intent and clamps it to [-limit, limit].
// Clamping happens after integration so held input at a bound has no
// lasting effect.
func (p *Paddle) Move(intent int, speed, dt, limit float64) {
	p.Velocity = float64(intent) * speed
	y := p.Center.Y() + p.Velocity*dt
	if y > limit {
		y = limit
	} else if y < -limit {
		y = -limit
	}
	p.Center[1] = y
}
