package game

// Box is a rectangle in court coordinates, as seen by presentation layers.
type Box struct {
	X      float64 `json:"x" msgpack:"x"` // Center
	Y      float64 `json:"y" msgpack:"y"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

func boxOf(r Rect) Box {
	return Box{
		X:      r.Center.X(),
		Y:      r.Center.Y(),
		Width:  2 * r.HalfExtents.X(),
		Height: 2 * r.HalfExtents.Y(),
	}
}

type BallState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Vx     float64 `json:"vx" msgpack:"vx"`
	Vy     float64 `json:"vy" msgpack:"vy"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// Snapshot is a read-only copy of the world taken at the end of a step.
type Snapshot struct {
	Tick    uint64    `json:"tick" msgpack:"tick"`
	Court   Court     `json:"court" msgpack:"court"`
	Ball    BallState `json:"ball" msgpack:"ball"`
	Paddles [2]Box    `json:"paddles" msgpack:"paddles"` // Left, Right
	Walls   [2]Box    `json:"walls" msgpack:"walls"`     // Top, Bottom
}

// Snapshot copies the current world state.
func (w *World) Snapshot(tick uint64) Snapshot {
	s := Snapshot{
		Tick:  tick,
		Court: w.Court,
		Ball: BallState{
			X:      w.Ball.Position.X(),
			Y:      w.Ball.Position.Y(),
			Vx:     w.Ball.Velocity.X(),
			Vy:     w.Ball.Velocity.Y(),
			Radius: w.Ball.Radius,
		},
	}
	for i := range w.Paddles {
		s.Paddles[i] = boxOf(w.Paddles[i].Rect)
	}
	for i := range w.Walls {
		s.Walls[i] = boxOf(w.Walls[i].Rect)
	}
	return s
}
