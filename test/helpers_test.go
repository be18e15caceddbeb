package test

import (
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/lguibr/paddlebounce/game"
)

// ReadFrame reads one frame with codec, failing after timeout.
func ReadFrame(t *testing.T, ws *websocket.Conn, codec websocket.Codec, timeout time.Duration) (game.Frame, error) {
	t.Helper()
	if ws == nil {
		return game.Frame{}, errors.New("websocket connection is nil")
	}
	if err := ws.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return game.Frame{}, fmt.Errorf("set read deadline: %w", err)
	}
	defer func() { _ = ws.SetReadDeadline(time.Time{}) }()

	var frame game.Frame
	err := codec.Receive(ws, &frame)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return game.Frame{}, fmt.Errorf("no frame within %v: %w", timeout, err)
	}
	return frame, err
}

// ReadStateFrame skips frames until a state frame for tick arrives and
// returns it along with any collision frames read on the way.
func ReadStateFrame(t *testing.T, ws *websocket.Conn, codec websocket.Codec, tick uint64) (game.Frame, []game.Frame) {
	t.Helper()
	var collisions []game.Frame
	for {
		frame, err := ReadFrame(t, ws, codec, askTimeout)
		if err != nil {
			t.Fatalf("waiting for state frame of tick %d: %v", tick, err)
		}
		switch {
		case frame.MessageType == game.FrameCollision:
			collisions = append(collisions, frame)
		case frame.MessageType == game.FrameState && frame.Tick == tick:
			return frame, collisions
		}
	}
}
