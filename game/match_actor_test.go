package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguibr/paddlebounce/bollywood"
	"github.com/lguibr/paddlebounce/utils"
)

const askTimeout = time.Second

type chanSink struct {
	frames chan Frame
}

func newChanSink(size int) *chanSink { return &chanSink{frames: make(chan Frame, size)} }

func (s *chanSink) Deliver(f Frame) bool {
	select {
	case s.frames <- f:
		return true
	default:
		return false
	}
}

func (s *chanSink) next(t *testing.T) Frame {
	t.Helper()
	select {
	case f := <-s.frames:
		return f
	case <-time.After(askTimeout):
		t.Fatal("timed out waiting for a frame")
		return Frame{}
	}
}

func spawnMatch(t *testing.T, cfg utils.Config, opts MatchOptions) (*bollywood.Engine, *bollywood.PID) {
	t.Helper()
	engine := bollywood.NewEngine()
	producer, err := NewMatchActorProducer(cfg, opts)
	require.NoError(t, err)
	pid := engine.Spawn(bollywood.NewProps(producer))
	require.NotNil(t, pid)
	t.Cleanup(func() { engine.Shutdown(askTimeout) })
	return engine, pid
}

func askStep(t *testing.T, engine *bollywood.Engine, pid *bollywood.PID) Snapshot {
	t.Helper()
	reply, err := engine.Ask(pid, StepCommand{}, askTimeout)
	require.NoError(t, err)
	snapshot, ok := reply.(Snapshot)
	require.True(t, ok, "unexpected reply %T", reply)
	return snapshot
}

func TestMatchActor_ManualStep(t *testing.T) {
	engine, pid := spawnMatch(t, utils.DefaultConfig(), MatchOptions{ManualTick: true})

	s := askStep(t, engine, pid)
	assert.Equal(t, uint64(1), s.Tick)
	assert.Equal(t, 7.8125, s.Ball.X)
	assert.Equal(t, 7.8125, s.Ball.Y)

	reply, err := engine.Ask(pid, SnapshotRequest{}, askTimeout)
	require.NoError(t, err)
	assert.Equal(t, s, reply, "no ticker runs in manual mode")
}

func TestMatchActor_KeyInputMovesPaddle(t *testing.T) {
	engine, pid := spawnMatch(t, utils.DefaultConfig(), MatchOptions{ManualTick: true})

	engine.Send(pid, KeyInput{ClientID: "a", Key: KeyW, Pressed: true}, nil)
	s := askStep(t, engine, pid)
	assert.Equal(t, 7.8125, s.Paddles[Left].Y)
	assert.Equal(t, 0.0, s.Paddles[Right].Y)

	engine.Send(pid, KeyInput{ClientID: "a", Key: KeyW, Pressed: false}, nil)
	s = askStep(t, engine, pid)
	assert.Equal(t, 7.8125, s.Paddles[Left].Y, "released key stops the paddle")
}

func TestMatchActor_KeysMergeAcrossClients(t *testing.T) {
	engine, pid := spawnMatch(t, utils.DefaultConfig(), MatchOptions{ManualTick: true})

	engine.Send(pid, KeyInput{ClientID: "a", Key: KeyArrowUp, Pressed: true}, nil)
	engine.Send(pid, KeyInput{ClientID: "b", Key: KeyArrowUp, Pressed: true}, nil)
	engine.Send(pid, ReleaseKeys{ClientID: "a"}, nil)
	s := askStep(t, engine, pid)
	assert.Equal(t, 7.8125, s.Paddles[Right].Y, "still held by b")

	engine.Send(pid, Unsubscribe{ClientID: "b"}, nil)
	s = askStep(t, engine, pid)
	assert.Equal(t, 7.8125, s.Paddles[Right].Y, "b's keys dropped on unsubscribe")
}

func TestMatchActor_SubscriberReceivesFrames(t *testing.T) {
	engine, pid := spawnMatch(t, utils.DefaultConfig(), MatchOptions{ManualTick: true})
	sink := newChanSink(16)

	engine.Send(pid, Subscribe{ClientID: "viewer", Sink: sink}, nil)
	initial := sink.next(t)
	assert.Equal(t, FrameState, initial.MessageType)
	require.NotNil(t, initial.State)
	assert.Equal(t, uint64(0), initial.Tick)

	askStep(t, engine, pid)
	frame := sink.next(t)
	assert.Equal(t, FrameState, frame.MessageType)
	assert.Equal(t, uint64(1), frame.Tick)
	assert.Empty(t, frame.Collisions)

	// Drive the ball into the top wall: from y=0 at 7.8125 per step it
	// first overlaps the wall on step 43 (y=335.9375).
	var collision *Frame
	for i := 0; i < 60 && collision == nil; i++ {
		askStep(t, engine, pid)
		for len(sink.frames) > 0 {
			f := <-sink.frames
			if f.MessageType == FrameCollision {
				collision = &f
			}
		}
	}
	require.NotNil(t, collision, "expected a collision frame")
	require.Len(t, collision.Collisions, 1)
	assert.Equal(t, CollisionEvent{Obstacle: ObstacleWall, Index: WallTop, Side: SideBottom, Began: true}, collision.Collisions[0])
	assert.Equal(t, uint64(43), collision.Tick)

	reply, err := engine.Ask(pid, MetricsRequest{}, askTimeout)
	require.NoError(t, err)
	metrics := reply.(MetricsSnapshot)
	assert.Equal(t, int64(1), metrics.WallHits)
	assert.Equal(t, int64(1), metrics.Collisions)
	assert.Equal(t, int64(0), metrics.PaddleHits)
	assert.Equal(t, 1, metrics.Subscribers)
	assert.GreaterOrEqual(t, metrics.TickCount, int64(43))
}

func TestMatchActor_FullSinkCountsDroppedFrames(t *testing.T) {
	engine, pid := spawnMatch(t, utils.DefaultConfig(), MatchOptions{ManualTick: true})
	sink := newChanSink(1)

	engine.Send(pid, Subscribe{ClientID: "slow", Sink: sink}, nil)
	askStep(t, engine, pid)
	askStep(t, engine, pid)

	reply, err := engine.Ask(pid, MetricsRequest{}, askTimeout)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reply.(MetricsSnapshot).FramesDropped)
}

func TestMatchActor_Reset(t *testing.T) {
	engine, pid := spawnMatch(t, utils.DefaultConfig(), MatchOptions{ManualTick: true})

	engine.Send(pid, KeyInput{ClientID: "a", Key: KeyS, Pressed: true}, nil)
	for i := 0; i < 3; i++ {
		askStep(t, engine, pid)
	}
	engine.Send(pid, ResetCommand{}, nil)

	reply, err := engine.Ask(pid, SnapshotRequest{}, askTimeout)
	require.NoError(t, err)
	s := reply.(Snapshot)
	assert.Equal(t, uint64(3), s.Tick)
	assert.Equal(t, 0.0, s.Paddles[Left].Y)
	assert.Equal(t, 0.0, s.Ball.X)
}

func TestMatchActor_TickerAdvances(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.TickRate = 500
	engine, pid := spawnMatch(t, cfg, MatchOptions{})

	assert.Eventually(t, func() bool {
		reply, err := engine.Ask(pid, SnapshotRequest{}, askTimeout)
		return err == nil && reply.(Snapshot).Tick >= 5
	}, 2*time.Second, 10*time.Millisecond)

	engine.Stop(pid)
	assert.Eventually(t, func() bool { return engine.ActorCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestNewMatchActorProducer_InvalidConfig(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.TickRate = 0

	producer, err := NewMatchActorProducer(cfg, MatchOptions{})
	assert.Nil(t, producer)
	assert.ErrorIs(t, err, utils.ErrInvalidConfig)
}
