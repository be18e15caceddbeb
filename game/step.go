package game

import (
	"fmt"

	"github.com/lguibr/paddlebounce/utils"
)

// Simulation advances a World one fixed step at a time. It is the only code
// that mutates its World and must not be shared between goroutines.
type Simulation struct {
	World    *World
	Resolver Resolver
	Bindings [2]Binding

	tracker  *CollisionTracker
	notifier Notifier
	tick     uint64
}

// NewSimulation builds a World and Resolver from cfg. notifier may be nil.
func NewSimulation(cfg utils.Config, notifier Notifier) (*Simulation, error) {
	world, err := NewWorld(cfg)
	if err != nil {
		return nil, err
	}
	resolver, err := NewResolver(cfg)
	if err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	return &Simulation{
		World:    world,
		Resolver: resolver,
		Bindings: DefaultBindings,
		tracker:  NewCollisionTracker(),
		notifier: notifier,
	}, nil
}

// Step runs one fixed step: input mapping, paddle motion, ball motion, then
// collision resolution. Paddles move before the resolver runs so a moving
// paddle can catch a ball in the same step. Every collision of the step is
// returned and reported to the notifier.
func (s *Simulation) Step(keys KeySource, dt float64) []CollisionEvent {
	w := s.World

	var intents [2]int
	for _, side := range [...]PaddleSide{Left, Right} {
		intents[side] = s.Bindings[side].Intent(keys)
	}
	for _, side := range [...]PaddleSide{Left, Right} {
		w.Paddles[side].Move(intents[side], w.PaddleSpeed, dt, w.PaddleLimit)
	}

	w.Ball.Move(dt)

	events := s.Resolver.Resolve(w)
	s.tracker.Observe(events)
	if s.notifier != nil {
		for range events {
			s.notifier.BallCollided()
		}
	}

	s.tick++
	return events
}

// Tick is the number of steps run so far.
func (s *Simulation) Tick() uint64 { return s.tick }

// Reset recenters the match without touching the tick counter.
func (s *Simulation) Reset() {
	s.World.Reset()
	s.tracker.ClearAll()
}

// Snapshot captures the world after the latest step.
func (s *Simulation) Snapshot() Snapshot {
	return s.World.Snapshot(s.tick)
}
