package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguibr/paddlebounce/utils"
)

const testDt = 1.0 / 64.0

func newTestSimulation(t *testing.T, notifier Notifier) *Simulation {
	t.Helper()
	sim, err := NewSimulation(utils.DefaultConfig(), notifier)
	require.NoError(t, err)
	return sim
}

type countingNotifier struct{ calls int }

func (c *countingNotifier) BallCollided() { c.calls++ }

func TestSimulation_FreeFlight(t *testing.T) {
	sim := newTestSimulation(t, nil)

	events := sim.Step(KeySet{}, testDt)

	assert.Empty(t, events)
	assert.Equal(t, mgl64.Vec2{7.8125, 7.8125}, sim.World.Ball.Position)
	assert.Equal(t, mgl64.Vec2{500, 500}, sim.World.Ball.Velocity)
	assert.Equal(t, 0.0, sim.World.Paddles[Left].Center.Y())
	assert.Equal(t, uint64(1), sim.Tick())
}

func TestSimulation_InputMovesOnlyItsPaddle(t *testing.T) {
	sim := newTestSimulation(t, nil)

	sim.Step(KeySet{KeyW: true, KeyArrowDown: true}, testDt)
	assert.Equal(t, 7.8125, sim.World.Paddles[Left].Center.Y())
	assert.Equal(t, -7.8125, sim.World.Paddles[Right].Center.Y())

	sim.Step(nil, testDt)
	assert.Equal(t, 7.8125, sim.World.Paddles[Left].Center.Y(), "no input, no motion")
	assert.Equal(t, 0.0, sim.World.Paddles[Left].Velocity)
}

func TestSimulation_MovingPaddleCatchesBall(t *testing.T) {
	setup := func(t *testing.T) *Simulation {
		sim := newTestSimulation(t, nil)
		sim.World.Paddles[Right].Center[1] = -50 // top edge at -18
		sim.World.Ball.Position = mgl64.Vec2{590.1875, 0}
		sim.World.Ball.Velocity = mgl64.Vec2{500, 0}
		return sim
	}

	t.Run("paddle moving up reaches the ball", func(t *testing.T) {
		sim := setup(t)
		events := sim.Step(KeySet{KeyArrowUp: true}, testDt)

		require.Len(t, events, 1)
		assert.Equal(t, ObstaclePaddle, events[0].Obstacle)
		assert.Equal(t, int(Right), events[0].Index)
		assert.Equal(t, SideTop, events[0].Side)
		assert.True(t, events[0].Began)
		assert.Less(t, sim.World.Ball.Velocity.X(), 0.0, "ball returned toward the left")
		assert.InDelta(t, 500.0, sim.World.Ball.Speed(), 1e-9)
	})

	t.Run("resting paddle misses", func(t *testing.T) {
		sim := setup(t)
		events := sim.Step(KeySet{}, testDt)

		assert.Empty(t, events)
		assert.Equal(t, mgl64.Vec2{500, 0}, sim.World.Ball.Velocity)
	})
}

func TestSimulation_WallBounce(t *testing.T) {
	notifier := &countingNotifier{}
	sim := newTestSimulation(t, notifier)
	sim.World.Ball.Position = mgl64.Vec2{0, 330}
	sim.World.Ball.Velocity = mgl64.Vec2{0, 500}

	events := sim.Step(KeySet{}, testDt)

	require.Len(t, events, 1)
	assert.Equal(t, CollisionEvent{Obstacle: ObstacleWall, Index: WallTop, Side: SideBottom, Began: true}, events[0])
	assert.Equal(t, mgl64.Vec2{0, -500}, sim.World.Ball.Velocity)
	assert.Equal(t, 1, notifier.calls)
}

func TestSimulation_NotifierFiresPerCollision(t *testing.T) {
	notifier := &countingNotifier{}
	sim := newTestSimulation(t, notifier)
	sim.World.Paddles[Left].Center[1] = sim.World.PaddleLimit
	sim.World.Ball.Position = mgl64.Vec2{-587.1875, 330.1875}
	sim.World.Ball.Velocity = mgl64.Vec2{-500, 500}

	// After moving, the ball sits at (-595, 338): in the top wall and the left paddle.
	events := sim.Step(KeySet{}, testDt)

	require.Len(t, events, 2)
	assert.Equal(t, 2, notifier.calls)

	sim.World.Ball.Position = mgl64.Vec2{0, 0}
	sim.World.Ball.Velocity = mgl64.Vec2{0, 0}
	sim.Step(KeySet{}, testDt)
	assert.Equal(t, 2, notifier.calls, "no collision, no notification")
}

func TestSimulation_ContactBeginsOnce(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.World.Ball.Position = mgl64.Vec2{0, 338}
	sim.World.Ball.Velocity = mgl64.Vec2{0, 0}

	first := sim.Step(KeySet{}, testDt)
	require.Len(t, first, 1)
	assert.True(t, first[0].Began)

	second := sim.Step(KeySet{}, testDt)
	require.Len(t, second, 1)
	assert.False(t, second[0].Began, "contact persisted from the previous step")

	sim.World.Ball.Position = mgl64.Vec2{0, 0}
	assert.Empty(t, sim.Step(KeySet{}, testDt))

	sim.World.Ball.Position = mgl64.Vec2{0, 338}
	third := sim.Step(KeySet{}, testDt)
	require.Len(t, third, 1)
	assert.True(t, third[0].Began, "contact ended and began again")
}

func TestSimulation_ResetKeepsTick(t *testing.T) {
	sim := newTestSimulation(t, nil)
	for i := 0; i < 5; i++ {
		sim.Step(KeySet{KeyS: true}, testDt)
	}
	require.Equal(t, uint64(5), sim.Tick())

	sim.Reset()

	assert.Equal(t, uint64(5), sim.Tick())
	assert.Equal(t, 0.0, sim.World.Paddles[Left].Center.Y())
	assert.Equal(t, mgl64.Vec2{0, 0}, sim.World.Ball.Position)

	s := sim.Snapshot()
	assert.Equal(t, uint64(5), s.Tick)
	assert.Equal(t, 0.0, s.Ball.X)
}

func TestNewSimulation_InvalidConfig(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*utils.Config)
	}{
		{"unknown paddle response", func(c *utils.Config) { c.PaddleResponse = "sticky" }},
		{"zero court height", func(c *utils.Config) { c.CourtHeight = 0 }},
		{"NaN paddle speed", func(c *utils.Config) { c.PaddleSpeed = math.NaN() }},
		{"infinite serve speed", func(c *utils.Config) { c.ServeSpeed = math.Inf(1) }},
		{"NaN bounce angle", func(c *utils.Config) { c.MaxBounceAngleDeg = math.NaN() }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := utils.DefaultConfig()
			tc.mutate(&cfg)
			sim, err := NewSimulation(cfg, nil)
			assert.Nil(t, sim)
			assert.ErrorIs(t, err, utils.ErrInvalidConfig)
		})
	}
}
