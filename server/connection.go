package server

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/lguibr/paddlebounce/bollywood"
	"github.com/lguibr/paddlebounce/game"
)

const (
	readTimeout  = 90 * time.Second
	writeTimeout = 5 * time.Second
)

// clientConn is one websocket subscriber. It is registered with the match
// actor as a FrameSink: Deliver queues frames without blocking and a writer
// goroutine drains the queue onto the socket.
type clientConn struct {
	id        string
	conn      *websocket.Conn
	codec     websocket.Codec
	outbound  chan game.Frame
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

func newClientConn(id string, conn *websocket.Conn, codec websocket.Codec, logger *zap.Logger) *clientConn {
	return &clientConn{
		id:       id,
		conn:     conn,
		codec:    codec,
		outbound: make(chan game.Frame, outboundQueueSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Deliver implements game.FrameSink.
func (c *clientConn) Deliver(frame game.Frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.outbound <- frame:
		return true
	default:
		return false
	}
}

// close stops the writer and closes the socket, which unblocks the reader.
func (c *clientConn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *clientConn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.outbound:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.codec.Send(c.conn, frame); err != nil {
				if !isClosedErr(err) {
					c.logger.Debug("write failed", zap.Error(err))
				}
				c.close()
				return
			}
		}
	}
}

// readLoop forwards key transitions to the match actor until the client
// goes away or sends something undecodable.
func (c *clientConn) readLoop(engine *bollywood.Engine, matchPID *bollywood.PID) {
	for {
		var msg game.KeyMessage
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if err := c.codec.Receive(c.conn, &msg); err != nil {
			switch {
			case isClosedErr(err):
			case isTimeoutErr(err):
				c.logger.Info("read timeout, assuming disconnect")
			default:
				c.logger.Warn("receive failed", zap.Error(err))
			}
			return
		}

		key, ok := game.ParseKey(msg.Key)
		if !ok {
			c.logger.Debug("ignoring unknown key", zap.String("key", msg.Key))
			continue
		}
		engine.Send(matchPID, game.KeyInput{ClientID: c.id, Key: key, Pressed: msg.Pressed}, nil)
	}
}

func isClosedErr(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

func isTimeoutErr(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
