package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lguibr/paddlebounce/utils"
)

// Court is the fixed play area, centered at the origin with y pointing up.
type Court struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// HalfWidth is the distance from the origin to the left or right edge.
func (c Court) HalfWidth() float64 { return c.Width / 2 }

// HalfHeight is the distance from the origin to the top or bottom edge.
func (c Court) HalfHeight() float64 { return c.Height / 2 }

// Rect is an axis-aligned rectangle.
type Rect struct {
	Center      mgl64.Vec2
	HalfExtents mgl64.Vec2
}

// Min is the bottom-left corner.
func (r Rect) Min() mgl64.Vec2 { return r.Center.Sub(r.HalfExtents) }

// Max is the top-right corner.
func (r Rect) Max() mgl64.Vec2 { return r.Center.Add(r.HalfExtents) }

// Wall is a static obstacle along the top or bottom edge of the court.
type Wall struct {
	Rect
}

const (
	WallTop = iota
	WallBottom
)

// PaddleSide identifies one of the two paddles.
type PaddleSide int

const (
	Left PaddleSide = iota
	Right
)

func (s PaddleSide) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Sign is the horizontal direction a ball leaves this paddle in.
func (s PaddleSide) Sign() float64 {
	if s == Left {
		return 1
	}
	return -1
}

// World owns every entity of a match. Cardinalities are fixed: one ball,
// two paddles, two walls.
type World struct {
	Court   Court
	Walls   [2]Wall
	Paddles [2]Paddle
	Ball    Ball

	PaddleLimit float64
	PaddleSpeed float64
	ServeSpeed  float64
}

// NewWorld lays out the court described by cfg. It refuses to build a world
// from an invalid configuration.
func NewWorld(cfg utils.Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}

	court := Court{Width: cfg.CourtWidth, Height: cfg.CourtHeight}
	wallOffset := court.HalfHeight() - cfg.WallThickness/2
	wallHalf := mgl64.Vec2{court.HalfWidth(), cfg.WallThickness / 2}
	paddleHalf := mgl64.Vec2{cfg.PaddleWidth / 2, cfg.PaddleHeight / 2}
	paddleOffset := court.HalfWidth() - cfg.PaddleWidth/2

	w := &World{
		Court: court,
		Walls: [2]Wall{
			WallTop:    {Rect{Center: mgl64.Vec2{0, wallOffset}, HalfExtents: wallHalf}},
			WallBottom: {Rect{Center: mgl64.Vec2{0, -wallOffset}, HalfExtents: wallHalf}},
		},
		Paddles: [2]Paddle{
			Left:  {Side: Left, Rect: Rect{Center: mgl64.Vec2{-paddleOffset, 0}, HalfExtents: paddleHalf}},
			Right: {Side: Right, Rect: Rect{Center: mgl64.Vec2{paddleOffset, 0}, HalfExtents: paddleHalf}},
		},
		Ball:        Ball{Radius: cfg.BallRadius},
		PaddleLimit: cfg.PaddleLimit(),
		PaddleSpeed: cfg.PaddleSpeed,
		ServeSpeed:  cfg.ServeSpeed,
	}
	w.Serve()
	return w, nil
}

// Serve puts the ball back at the origin with the diagonal serve velocity.
func (w *World) Serve() {
	w.Ball.Position = mgl64.Vec2{0, 0}
	w.Ball.Velocity = mgl64.Vec2{w.ServeSpeed, w.ServeSpeed}
}

// Reset recenters both paddles and serves again.
func (w *World) Reset() {
	for i := range w.Paddles {
		w.Paddles[i].Center[1] = 0
		w.Paddles[i].Velocity = 0
	}
	w.Serve()
}

// Paddle returns the paddle on side.
func (w *World) Paddle(side PaddleSide) *Paddle {
	return &w.Paddles[side]
}
