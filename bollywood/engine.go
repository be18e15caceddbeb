package bollywood

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrTimeout is returned by Ask when no response arrives in time.
	ErrTimeout = errors.New("bollywood: ask timed out")
	// ErrActorNotFound is returned by Ask when the PID is unknown or already stopped.
	ErrActorNotFound = errors.New("bollywood: actor not found")
	// ErrMailboxFull is returned by Ask when the request could not be enqueued.
	ErrMailboxFull = errors.New("bollywood: mailbox full")
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for lifecycle and panic reports.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine manages the lifecycle and message dispatching for actors.
type Engine struct {
	pidCounter uint64
	actors     map[string]*process
	mu         sync.RWMutex // Protects the actors map
	stopping   atomic.Bool  // Indicates if the engine is shutting down
	logger     *zap.Logger
}

// NewEngine creates a new actor engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		actors: make(map[string]*process),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// nextPID generates a unique process ID.
func (e *Engine) nextPID() *PID {
	id := atomic.AddUint64(&e.pidCounter, 1)
	return &PID{ID: fmt.Sprintf("actor-%d", id)}
}

// Spawn creates and starts a new actor based on the provided Props.
// It returns nil once the engine is shutting down.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		e.logger.Warn("engine is stopping, refusing to spawn actor")
		return nil
	}

	pid := e.nextPID()
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()

	e.Send(pid, Started{}, nil)

	return pid
}

func (e *Engine) lookup(pid *PID) (*process, bool) {
	if pid == nil {
		return nil, false
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	return proc, ok
}

// Send delivers a message to the actor identified by the PID.
// Messages to unknown actors are dropped.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if e.stopping.Load() && !isSystemMessage(message) {
		return
	}
	if proc, ok := e.lookup(pid); ok {
		_ = proc.sendMessage(&messageEnvelope{Sender: sender, Message: message})
	}
}

// Ask sends message to pid and waits up to timeout for the actor to call
// Context.Respond.
func (e *Engine) Ask(pid *PID, message interface{}, timeout time.Duration) (interface{}, error) {
	if e.stopping.Load() {
		return nil, fmt.Errorf("%w: engine is stopping", ErrActorNotFound)
	}
	proc, ok := e.lookup(pid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActorNotFound, pid)
	}

	replyCh := make(chan interface{}, 1)
	if err := proc.sendMessage(&messageEnvelope{Message: message, replyCh: replyCh}); err != nil {
		return nil, fmt.Errorf("%w: %s", err, pid)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case reply := <-replyCh:
		return reply, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: %T to %s after %s", ErrTimeout, message, pid, timeout)
	}
}

// Stop requests an actor to stop processing messages and shut down.
// It sends the Stopping message and also directly signals the actor's stop channel.
func (e *Engine) Stop(pid *PID) {
	proc, ok := e.lookup(pid)
	if !ok {
		return
	}
	e.Send(pid, Stopping{}, nil)
	proc.closeStop()
}

// remove removes an actor process from the engine's tracking.
func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// Shutdown stops all actors and waits for them to terminate gracefully.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		e.logger.Debug("engine already shutting down")
		return
	}

	e.mu.RLock()
	pidsToStop := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pidsToStop = append(pidsToStop, proc.pid)
	}
	e.mu.RUnlock()

	e.logger.Info("engine shutdown initiated", zap.Int("actors", len(pidsToStop)))
	for _, pid := range pidsToStop {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if e.ActorCount() == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if remaining := len(e.actors); remaining > 0 {
		ids := make([]string, 0, remaining)
		for id := range e.actors {
			ids = append(ids, id)
		}
		e.logger.Warn("engine shutdown timeout, actors did not stop gracefully", zap.Strings("actors", ids))
		e.actors = make(map[string]*process)
	}
	e.logger.Info("engine shutdown complete")
}

// ActorCount reports how many actors are currently running.
func (e *Engine) ActorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.actors)
}
