package game

import "sync/atomic"

// MatchMetrics counts what a match actor did. Counters are updated by the
// actor and read concurrently by HTTP handlers.
type MatchMetrics struct {
	TickCount     int64
	Collisions    int64
	PaddleHits    int64
	WallHits      int64
	FramesDropped int64
	TotalTickNs   int64
}

// The Inc methods bump a single counter and are safe for concurrent use.
func (m *MatchMetrics) IncCollisions()    { atomic.AddInt64(&m.Collisions, 1) }
func (m *MatchMetrics) IncPaddleHits()    { atomic.AddInt64(&m.PaddleHits, 1) }
func (m *MatchMetrics) IncWallHits()      { atomic.AddInt64(&m.WallHits, 1) }
func (m *MatchMetrics) IncFramesDropped() { atomic.AddInt64(&m.FramesDropped, 1) }

// AddTick records one completed step that took ns nanoseconds.
func (m *MatchMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// MetricsSnapshot is a point-in-time copy of MatchMetrics.
type MetricsSnapshot struct {
	TickCount     int64   `json:"tick_count"`
	Collisions    int64   `json:"collisions"`
	PaddleHits    int64   `json:"paddle_hits"`
	WallHits      int64   `json:"wall_hits"`
	FramesDropped int64   `json:"frames_dropped"`
	Subscribers   int     `json:"subscribers"`
	AvgTickMs     float64 `json:"avg_tick_ms"`
}

// Snapshot returns a read-only copy.
func (m *MatchMetrics) Snapshot() MetricsSnapshot {
	ticks := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return MetricsSnapshot{
		TickCount:     ticks,
		Collisions:    atomic.LoadInt64(&m.Collisions),
		PaddleHits:    atomic.LoadInt64(&m.PaddleHits),
		WallHits:      atomic.LoadInt64(&m.WallHits),
		FramesDropped: atomic.LoadInt64(&m.FramesDropped),
		AvgTickMs:     avgMs,
	}
}
