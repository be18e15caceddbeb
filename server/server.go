package server

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/lguibr/paddlebounce/bollywood"
	"github.com/lguibr/paddlebounce/logging"
)

const (
	defaultAskTimeout = 2 * time.Second
	outboundQueueSize = 64
)

// Server bridges HTTP and websocket clients to a running match actor.
type Server struct {
	engine     *bollywood.Engine
	matchPID   *bollywood.PID
	logger     *zap.Logger
	askTimeout time.Duration
	nextID     uint64
}

// New creates a server for the match actor at matchPID. logger may be nil.
func New(engine *bollywood.Engine, matchPID *bollywood.PID, logger *zap.Logger) *Server {
	return &Server{
		engine:     engine,
		matchPID:   matchPID,
		logger:     logging.OrNop(logger),
		askTimeout: defaultAskTimeout,
	}
}

// GetEngine returns the actor engine instance.
func (s *Server) GetEngine() *bollywood.Engine {
	return s.engine
}

// GetMatchPID returns the PID of the match actor.
func (s *Server) GetMatchPID() *bollywood.PID {
	return s.matchPID
}

func (s *Server) newClientID() string {
	return fmt.Sprintf("client-%d", atomic.AddUint64(&s.nextID, 1))
}

// Routes mounts every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/subscribe", websocket.Handler(s.HandleSubscribe()))
	mux.HandleFunc("/state", s.HandleGetState())
	mux.HandleFunc("/ascii", s.HandleGetAscii())
	mux.HandleFunc("/metrics", s.HandleMetrics())
	mux.HandleFunc("/healthz", s.HandleHealth())
	return mux
}
