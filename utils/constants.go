package utils

const (
	DefaultAddr     = ":3001"
	DefaultTickRate = 64 // Host engine fixed-update rate

	CourtWidth    = 1236.0
	CourtHeight   = 720.0
	WallThickness = 16.0

	PaddleWidth  = 16.0
	PaddleHeight = 64.0
	PaddleSpeed  = 500.0

	BallRadius        = 12.0
	BallSpeed         = 500.0
	MaxBounceAngleDeg = 75.0
)

// Paddle response policies accepted by Config.PaddleResponse.
const (
	ResponseAngle   = "angle"
	ResponseReflect = "reflect"
)
