package game

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lguibr/paddlebounce/utils"
)

// Side is the face of an obstacle struck by the ball.
type Side int

const (
	SideNone Side = iota
	SideTop
	SideBottom
	SideLeft
	SideRight
)

var sideNames = [...]string{"none", "top", "bottom", "left", "right"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("side(%d)", int(s))
	}
	return sideNames[s]
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(text []byte) error {
	for i, name := range sideNames {
		if name == string(text) {
			*s = Side(i)
			return nil
		}
	}
	return fmt.Errorf("unknown side %q", text)
}

// Response is the velocity update applied when the ball strikes an obstacle.
type Response int

const (
	// ResponseReflect negates the velocity component orthogonal to the struck side.
	ResponseReflect Response = iota
	// ResponseAngle replaces the velocity from the hit offset along the paddle.
	ResponseAngle
)

// ParseResponse maps a config value to a Response.
func ParseResponse(name string) (Response, error) {
	switch name {
	case utils.ResponseReflect:
		return ResponseReflect, nil
	case utils.ResponseAngle:
		return ResponseAngle, nil
	}
	return ResponseReflect, fmt.Errorf("%w: unknown paddle response %q", utils.ErrInvalidConfig, name)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// ClosestPoint returns the point of r nearest to p. Points inside r map to themselves.
func ClosestPoint(r Rect, p mgl64.Vec2) mgl64.Vec2 {
	lo, hi := r.Min(), r.Max()
	return mgl64.Vec2{
		clamp(p.X(), lo.X(), hi.X()),
		clamp(p.Y(), lo.Y(), hi.Y()),
	}
}

// Intersects reports whether the ball overlaps r, along with the closest
// point used for the test. A ball exactly tangent to r does not intersect.
func Intersects(b Ball, r Rect) (mgl64.Vec2, bool) {
	closest := ClosestPoint(r, b.Position)
	return closest, b.Position.Sub(closest).Len() < b.Radius
}

// ImpactSide picks the struck side from the offset between the ball center
// and the closest point. Ties go to Top/Bottom.
func ImpactSide(center, closest mgl64.Vec2) Side {
	offset := center.Sub(closest)
	if math.Abs(offset.X()) > math.Abs(offset.Y()) {
		if offset.X() > 0 {
			return SideRight
		}
		return SideLeft
	}
	if offset.Y() > 0 {
		return SideTop
	}
	return SideBottom
}

// Reflect negates the component of v orthogonal to side, but only while it
// still points into the obstacle.
func Reflect(v mgl64.Vec2, side Side) mgl64.Vec2 {
	switch side {
	case SideRight:
		if v.X() < 0 {
			v[0] = -v[0]
		}
	case SideLeft:
		if v.X() > 0 {
			v[0] = -v[0]
		}
	case SideTop:
		if v.Y() < 0 {
			v[1] = -v[1]
		}
	case SideBottom:
		if v.Y() > 0 {
			v[1] = -v[1]
		}
	}
	return v
}

// AngleBounce sets the outgoing direction from where the ball hit the paddle.
// The incoming velocity is ignored and the outgoing speed is always Speed.
type AngleBounce struct {
	Speed    float64
	MaxAngle float64 // Radians, reached at the paddle edge
	Clamp    bool    // Clamp the normalized offset to [-1, 1]
}

// Velocity returns the new ball velocity for a hit at ball on paddle.
func (a AngleBounce) Velocity(paddle Paddle, ball mgl64.Vec2) mgl64.Vec2 {
	offset := (paddle.Center.Y() - ball.Y()) / paddle.HalfExtents.Y()
	if a.Clamp {
		offset = clamp(offset, -1, 1)
	}
	angle := offset * a.MaxAngle
	return mgl64.Vec2{
		paddle.Side.Sign() * a.Speed * math.Cos(angle),
		a.Speed * -math.Sin(angle),
	}
}

// separate moves the ball out of an obstacle along the struck side.
func separate(b *Ball, closest mgl64.Vec2, side Side) {
	switch side {
	case SideRight:
		b.Position[0] = closest.X() + b.Radius
	case SideLeft:
		b.Position[0] = closest.X() - b.Radius
	case SideTop:
		b.Position[1] = closest.Y() + b.Radius
	case SideBottom:
		b.Position[1] = closest.Y() - b.Radius
	}
}

// Resolver detects ball overlaps and updates the ball in a fixed order:
// top wall, bottom wall, left paddle, right paddle. Each resolution sees the
// velocity left by the previous one.
type Resolver struct {
	Paddles  Response // Walls always reflect
	Bounce   AngleBounce
	Separate bool
}

// NewResolver builds the resolver described by cfg.
func NewResolver(cfg utils.Config) (Resolver, error) {
	response, err := ParseResponse(cfg.PaddleResponse)
	if err != nil {
		return Resolver{}, err
	}
	return Resolver{
		Paddles: response,
		Bounce: AngleBounce{
			Speed:    cfg.BallSpeed,
			MaxAngle: cfg.MaxBounceAngle(),
			Clamp:    cfg.ClampBounce,
		},
		Separate: cfg.Separate,
	}, nil
}

// Resolve runs every obstacle test against the current ball state and
// returns the collisions of this step.
func (r Resolver) Resolve(w *World) []CollisionEvent {
	var events []CollisionEvent
	for i := range w.Walls {
		if side, ok := r.ResolveWall(&w.Ball, w.Walls[i]); ok {
			events = append(events, CollisionEvent{Obstacle: ObstacleWall, Index: i, Side: side})
		}
	}
	for _, side := range [...]PaddleSide{Left, Right} {
		if hit, ok := r.ResolvePaddle(&w.Ball, w.Paddles[side]); ok {
			events = append(events, CollisionEvent{Obstacle: ObstaclePaddle, Index: int(side), Side: hit})
		}
	}
	return events
}

// ResolveWall reflects the ball off wall when they overlap.
func (r Resolver) ResolveWall(b *Ball, wall Wall) (Side, bool) {
	closest, ok := Intersects(*b, wall.Rect)
	if !ok {
		return SideNone, false
	}
	side := ImpactSide(b.Position, closest)
	b.Velocity = Reflect(b.Velocity, side)
	if r.Separate {
		separate(b, closest, side)
	}
	return side, true
}

// ResolvePaddle applies the configured paddle response when the ball
// overlaps paddle.
func (r Resolver) ResolvePaddle(b *Ball, paddle Paddle) (Side, bool) {
	closest, ok := Intersects(*b, paddle.Rect)
	if !ok {
		return SideNone, false
	}
	side := ImpactSide(b.Position, closest)
	switch r.Paddles {
	case ResponseAngle:
		b.Velocity = r.Bounce.Velocity(paddle, b.Position)
	default:
		b.Velocity = Reflect(b.Velocity, side)
	}
	if r.Separate {
		separate(b, closest, side)
	}
	return side, true
}
