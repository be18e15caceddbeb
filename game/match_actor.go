package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lguibr/paddlebounce/bollywood"
	"github.com/lguibr/paddlebounce/logging"
	"github.com/lguibr/paddlebounce/utils"
)

// MatchOptions tunes a MatchActor.
type MatchOptions struct {
	Logger     *zap.Logger
	ManualTick bool // Only step on StepCommand; no ticker
}

// heldKeys merges the keys held by every client into one KeySource.
type heldKeys map[string]KeySet

func (h heldKeys) Pressed(k Key) bool {
	for _, keys := range h {
		if keys[k] {
			return true
		}
	}
	return false
}

// MatchActor is the single owner of a Simulation. Every mutation of the
// world happens inside Receive, one message at a time.
type MatchActor struct {
	cfg          utils.Config
	dt           float64
	sim          *Simulation
	inputs       heldKeys
	subscribers  map[string]FrameSink
	metrics      *MatchMetrics
	manualTick   bool
	ticker       *time.Ticker
	stopTickerCh chan struct{}
	selfPID      *bollywood.PID
	logger       *zap.Logger
}

// NewMatchActorProducer validates cfg and returns a producer for MatchActor.
func NewMatchActorProducer(cfg utils.Config, opts MatchOptions) (bollywood.Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("match actor: %w", err)
	}
	return func() bollywood.Actor {
		a, err := newMatchActor(cfg, opts)
		if err != nil {
			panic(err)
		}
		return a
	}, nil
}

func newMatchActor(cfg utils.Config, opts MatchOptions) (*MatchActor, error) {
	metrics := &MatchMetrics{}
	sim, err := NewSimulation(cfg, NotifierFunc(metrics.IncCollisions))
	if err != nil {
		return nil, err
	}
	return &MatchActor{
		cfg:          cfg,
		dt:           cfg.TickSeconds(),
		sim:          sim,
		inputs:       make(heldKeys),
		subscribers:  make(map[string]FrameSink),
		metrics:      metrics,
		manualTick:   opts.ManualTick,
		stopTickerCh: make(chan struct{}),
		logger:       logging.OrNop(opts.Logger),
	}, nil
}

// Receive is the main message handler for the MatchActor.
func (a *MatchActor) Receive(ctx bollywood.Context) {
	switch m := ctx.Message().(type) {
	case bollywood.Started:
		a.selfPID = ctx.Self()
		a.logger = a.logger.With(zap.String("match", a.selfPID.String()))
		a.logger.Info("match started",
			zap.Int("tickRate", a.cfg.TickRate),
			zap.Bool("manualTick", a.manualTick))
		if !a.manualTick {
			a.ticker = time.NewTicker(a.cfg.TickPeriod())
			go a.runTickerLoop(ctx.Engine(), a.selfPID)
		}

	case *matchTick:
		a.step()

	case StepCommand:
		a.step()
		ctx.Respond(a.sim.Snapshot())

	case KeyInput:
		a.handleKeyInput(m)

	case ReleaseKeys:
		delete(a.inputs, m.ClientID)

	case Subscribe:
		if m.Sink == nil {
			return
		}
		a.subscribers[m.ClientID] = m.Sink
		a.logger.Debug("client subscribed", zap.String("client", m.ClientID), zap.Int("subscribers", len(a.subscribers)))
		snapshot := a.sim.Snapshot()
		a.deliver(m.Sink, Frame{MessageType: FrameState, Tick: snapshot.Tick, State: &snapshot})

	case Unsubscribe:
		delete(a.subscribers, m.ClientID)
		delete(a.inputs, m.ClientID)
		a.logger.Debug("client unsubscribed", zap.String("client", m.ClientID), zap.Int("subscribers", len(a.subscribers)))

	case ResetCommand:
		a.sim.Reset()
		a.broadcastState()

	case SnapshotRequest:
		ctx.Respond(a.sim.Snapshot())

	case MetricsRequest:
		snapshot := a.metrics.Snapshot()
		snapshot.Subscribers = len(a.subscribers)
		ctx.Respond(snapshot)

	case bollywood.Stopping:
		a.logger.Info("match stopping", zap.Uint64("tick", a.sim.Tick()))
		if a.ticker != nil {
			a.ticker.Stop()
		}
		select {
		case <-a.stopTickerCh:
		default:
			close(a.stopTickerCh)
		}

	case bollywood.Stopped:

	default:
		a.logger.Warn("unknown message", zap.String("type", fmt.Sprintf("%T", m)))
	}
}

func (a *MatchActor) handleKeyInput(m KeyInput) {
	keys, ok := a.inputs[m.ClientID]
	if !ok {
		if !m.Pressed {
			return
		}
		keys = make(KeySet)
		a.inputs[m.ClientID] = keys
	}
	if m.Pressed {
		keys[m.Key] = true
	} else {
		delete(keys, m.Key)
	}
}

// step advances the simulation once and publishes the result.
func (a *MatchActor) step() {
	start := time.Now()
	events := a.sim.Step(a.inputs, a.dt)
	for _, ev := range events {
		if ev.Obstacle == ObstaclePaddle {
			a.metrics.IncPaddleHits()
		} else {
			a.metrics.IncWallHits()
		}
	}
	a.broadcastState()
	if len(events) > 0 {
		a.broadcast(Frame{MessageType: FrameCollision, Tick: a.sim.Tick(), Collisions: events})
	}
	a.metrics.AddTick(time.Since(start).Nanoseconds())
}

func (a *MatchActor) broadcastState() {
	if len(a.subscribers) == 0 {
		return
	}
	snapshot := a.sim.Snapshot()
	a.broadcast(Frame{MessageType: FrameState, Tick: snapshot.Tick, State: &snapshot})
}

func (a *MatchActor) broadcast(frame Frame) {
	for _, sink := range a.subscribers {
		a.deliver(sink, frame)
	}
}

func (a *MatchActor) deliver(sink FrameSink, frame Frame) {
	if !sink.Deliver(frame) {
		a.metrics.IncFramesDropped()
	}
}

// runTickerLoop posts a matchTick to the actor's own mailbox on every tick.
func (a *MatchActor) runTickerLoop(engine *bollywood.Engine, self *bollywood.PID) {
	tickMsg := &matchTick{}
	for {
		select {
		case <-a.stopTickerCh:
			return
		case <-a.ticker.C:
			select {
			case <-a.stopTickerCh:
				return
			default:
				engine.Send(self, tickMsg, nil)
			}
		}
	}
}
