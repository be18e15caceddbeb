package game

import "fmt"

// ObstacleKind tells walls and paddles apart in a CollisionEvent.
type ObstacleKind int

const (
	ObstacleWall ObstacleKind = iota
	ObstaclePaddle
)

func (k ObstacleKind) String() string {
	if k == ObstaclePaddle {
		return "paddle"
	}
	return "wall"
}

func (k ObstacleKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ObstacleKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "wall":
		*k = ObstacleWall
	case "paddle":
		*k = ObstaclePaddle
	default:
		return fmt.Errorf("unknown obstacle %q", text)
	}
	return nil
}

// CollisionEvent describes one ball contact resolved during a step. Index is
// WallTop/WallBottom for walls and the PaddleSide for paddles. Events are
// only valid for the step that produced them.
type CollisionEvent struct {
	Obstacle ObstacleKind `json:"obstacle" msgpack:"obstacle"`
	Index    int          `json:"index" msgpack:"index"`
	Side     Side         `json:"side" msgpack:"side"`
	Began    bool         `json:"began" msgpack:"began"` // First step of this contact
}

// Notifier receives a fire-and-forget signal for every ball collision.
type Notifier interface {
	BallCollided()
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func()

func (f NotifierFunc) BallCollided() { f() }
