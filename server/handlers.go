package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/lguibr/paddlebounce/bollywood"
	"github.com/lguibr/paddlebounce/game"
	"github.com/lguibr/paddlebounce/render"
)

const (
	defaultAsciiCols = 80
	defaultAsciiRows = 24
	maxAsciiCells    = 400
)

// HandleSubscribe registers each websocket connection with the match actor
// and forwards the client's key transitions until it disconnects.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		id := s.newClientID()
		var format, remote string
		if req := ws.Request(); req != nil {
			format = req.URL.Query().Get("format")
			remote = req.RemoteAddr
		}
		codec, format := frameCodec(format)
		logger := s.logger.With(zap.String("client", id), zap.String("format", format))
		client := newClientConn(id, ws, codec, logger)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in subscribe handler", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			}
			client.close()
		}()

		engine, matchPID := s.GetEngine(), s.GetMatchPID()
		if engine == nil || matchPID == nil {
			logger.Error("no match to subscribe to")
			return
		}

		logger.Info("client connected", zap.String("remote", remote))
		engine.Send(matchPID, game.Subscribe{ClientID: id, Sink: client}, nil)
		go client.writeLoop()

		client.readLoop(engine, matchPID)

		engine.Send(matchPID, game.ReleaseKeys{ClientID: id}, nil)
		engine.Send(matchPID, game.Unsubscribe{ClientID: id}, nil)
		logger.Info("client disconnected")
	}
}

// HandleGetState returns the latest snapshot as JSON.
func (s *Server) HandleGetState() http.HandlerFunc {
	return s.recoverer(func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := s.askSnapshot(w)
		if !ok {
			return
		}
		writeJSON(w, snapshot, s.logger)
	})
}

// HandleGetAscii renders the latest snapshot as text. The size can be set
// with ?cols= and ?rows=.
func (s *Server) HandleGetAscii() http.HandlerFunc {
	return s.recoverer(func(w http.ResponseWriter, r *http.Request) {
		cols, err := dimension(r, "cols", defaultAsciiCols)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rows, err := dimension(r, "rows", defaultAsciiRows)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		snapshot, ok := s.askSnapshot(w)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(render.Snapshot(snapshot, cols, rows))); err != nil {
			s.logger.Debug("write ascii failed", zap.Error(err))
		}
	})
}

// HandleMetrics returns the match counters as JSON.
func (s *Server) HandleMetrics() http.HandlerFunc {
	return s.recoverer(func(w http.ResponseWriter, r *http.Request) {
		reply, err := s.engine.Ask(s.matchPID, game.MetricsRequest{}, s.askTimeout)
		if err != nil {
			s.askFailed(w, err)
			return
		}
		metrics, ok := reply.(game.MetricsSnapshot)
		if !ok {
			http.Error(w, "unexpected reply", http.StatusInternalServerError)
			return
		}
		writeJSON(w, metrics, s.logger)
	})
}

// HandleHealth reports that the process is serving.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

func (s *Server) askSnapshot(w http.ResponseWriter) (game.Snapshot, bool) {
	reply, err := s.engine.Ask(s.matchPID, game.SnapshotRequest{}, s.askTimeout)
	if err != nil {
		s.askFailed(w, err)
		return game.Snapshot{}, false
	}
	snapshot, ok := reply.(game.Snapshot)
	if !ok {
		http.Error(w, "unexpected reply", http.StatusInternalServerError)
		return game.Snapshot{}, false
	}
	return snapshot, true
}

func (s *Server) askFailed(w http.ResponseWriter, err error) {
	s.logger.Warn("match query failed", zap.Error(err))
	if errors.Is(err, bollywood.ErrTimeout) {
		http.Error(w, "match did not answer in time", http.StatusGatewayTimeout)
		return
	}
	http.Error(w, "match unavailable", http.StatusServiceUnavailable)
}

func (s *Server) recoverer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("write json failed", zap.Error(err))
	}
}

func dimension(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > maxAsciiCells {
		return 0, errors.New(name + " must be between 1 and " + strconv.Itoa(maxAsciiCells))
	}
	return n, nil
}
