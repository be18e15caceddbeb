package game

// --- WebSocket Messages (Client <-> Server) ---

// Frame message types.
const (
	FrameState     = "state"
	FrameCollision = "collision"
)

// Frame is pushed to every subscriber. A "state" frame follows each step; a
// "collision" frame follows a step that produced collisions and is the cue
// for client-side audio.
type Frame struct {
	MessageType string           `json:"messageType" msgpack:"messageType"`
	Tick        uint64           `json:"tick" msgpack:"tick"`
	State       *Snapshot        `json:"state,omitempty" msgpack:"state,omitempty"`
	Collisions  []CollisionEvent `json:"collisions,omitempty" msgpack:"collisions,omitempty"`
}

// KeyMessage is sent by clients whenever a key goes down or up, in the same
// encoding the client asked for its frames.
type KeyMessage struct {
	Key     string `json:"key" msgpack:"key"`
	Pressed bool   `json:"pressed" msgpack:"pressed"`
}

// FrameSink receives frames from the match actor. Deliver must not block;
// it reports false when the frame was dropped.
type FrameSink interface {
	Deliver(Frame) bool
}

// --- Actor Messages ---

// KeyInput records a key transition for one client.
type KeyInput struct {
	ClientID string
	Key      Key
	Pressed  bool
}

// ReleaseKeys drops every key held by a client.
type ReleaseKeys struct {
	ClientID string
}

// Subscribe registers a sink for frames under ClientID.
type Subscribe struct {
	ClientID string
	Sink     FrameSink
}

// Unsubscribe removes a client's sink and held keys.
type Unsubscribe struct {
	ClientID string
}

// StepCommand runs one step immediately. When sent with Ask the reply is the
// resulting Snapshot.
type StepCommand struct{}

// ResetCommand recenters paddles and serves the ball again.
type ResetCommand struct{}

// SnapshotRequest is answered with the current Snapshot.
type SnapshotRequest struct{}

// MetricsRequest is answered with a MetricsSnapshot.
type MetricsRequest struct{}

// matchTick is posted by the actor's own ticker.
type matchTick struct{}
