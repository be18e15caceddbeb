package bollywood

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// process represents the running instance of an actor, including its state and mailbox.
type process struct {
	engine   *Engine
	pid      *PID
	actor    Actor
	mailbox  chan *messageEnvelope
	props    *Props
	stopCh   chan struct{} // Signal to stop the run loop
	stopOnce sync.Once
	stopped  atomic.Bool
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	size := props.mailboxSize
	if size <= 0 {
		size = defaultMailboxSize
	}
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan *messageEnvelope, size),
		stopCh:  make(chan struct{}),
	}
}

func (p *process) closeStop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// sendMessage enqueues an envelope without blocking. It returns
// ErrActorNotFound once the actor has stopped and ErrMailboxFull when the
// envelope was dropped.
func (p *process) sendMessage(envelope *messageEnvelope) error {
	if p.stopped.Load() && !isSystemMessage(envelope.Message) {
		return ErrActorNotFound
	}
	select {
	case p.mailbox <- envelope:
		return nil
	default:
		p.engine.logger.Warn("mailbox full, dropping message",
			zap.String("actor", p.pid.ID),
			zap.String("message", typeName(envelope.Message)))
		return ErrMailboxFull
	}
}

// run is the main loop for the actor process.
func (p *process) run() {
	defer func() {
		p.stopped.Store(true)
		if p.actor != nil {
			p.invokeReceive(&messageEnvelope{Message: Stopped{}})
		}
		p.engine.remove(p.pid)
	}()

	defer func() {
		if r := recover(); r != nil {
			p.engine.logger.Error("actor panicked",
				zap.String("actor", p.pid.ID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			p.stopped.Store(true)
			p.closeStop()
		}
	}()

	p.actor = p.props.Produce()
	if p.actor == nil {
		panic("bollywood: producer returned nil actor for " + p.pid.ID)
	}

	for {
		select {
		case <-p.stopCh:
			if p.stopped.CompareAndSwap(false, true) {
				p.invokeReceive(&messageEnvelope{Message: Stopping{}})
			}
			return

		case envelope := <-p.mailbox:
			switch envelope.Message.(type) {
			case Stopping:
				if p.stopped.CompareAndSwap(false, true) {
					p.invokeReceive(envelope)
					p.closeStop()
				}
			case Stopped:
				// Delivered by the deferred cleanup only.
			default:
				if p.stopped.Load() {
					continue
				}
				p.invokeReceive(envelope)
			}
		}
	}
}

// invokeReceive calls the actor's Receive method within a protected context.
func (p *process) invokeReceive(envelope *messageEnvelope) {
	ctx := &context{
		engine:  p.engine,
		self:    p.pid,
		sender:  envelope.Sender,
		message: envelope.Message,
		replyCh: envelope.replyCh,
	}

	defer func() {
		if r := recover(); r != nil {
			p.engine.logger.Error("actor panicked during Receive",
				zap.String("actor", p.pid.ID),
				zap.String("message", typeName(envelope.Message)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	p.actor.Receive(ctx)
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
