package main

import (
	"time"

	"github.com/lguibr/paddlebounce/game"
)

// keyDecoder turns raw terminal bytes into key names. Arrow keys arrive as
// the three byte sequence ESC [ A|B.
type keyDecoder struct {
	pending []byte
}

// feed consumes one byte and returns the decoded key, if any. quit is set
// for q or Ctrl-C.
func (d *keyDecoder) feed(b byte) (key game.Key, ok bool, quit bool) {
	if len(d.pending) > 0 || b == 0x1b {
		d.pending = append(d.pending, b)
		return d.escape()
	}
	switch b {
	case 'w', 'W':
		return game.KeyW, true, false
	case 's', 'S':
		return game.KeyS, true, false
	case 'q', 'Q', 0x03:
		return "", false, true
	}
	return "", false, false
}

func (d *keyDecoder) escape() (game.Key, bool, bool) {
	switch len(d.pending) {
	case 1:
		return "", false, false
	case 2:
		if d.pending[1] != '[' {
			d.pending = d.pending[:0]
		}
		return "", false, false
	}
	last := d.pending[2]
	d.pending = d.pending[:0]
	switch last {
	case 'A':
		return game.KeyArrowUp, true, false
	case 'B':
		return game.KeyArrowDown, true, false
	}
	return "", false, false
}

// holdTracker synthesizes key releases. Terminals only report presses, with
// auto-repeat while a key is held, so a key counts as released once it has
// not repeated for the hold window.
type holdTracker struct {
	window   time.Duration
	lastSeen map[game.Key]time.Time
}

func newHoldTracker(window time.Duration) *holdTracker {
	return &holdTracker{window: window, lastSeen: make(map[game.Key]time.Time)}
}

// press records k at now and reports whether it was not already held.
func (h *holdTracker) press(k game.Key, now time.Time) bool {
	_, held := h.lastSeen[k]
	h.lastSeen[k] = now
	return !held
}

// expire returns the keys whose hold window has passed and forgets them.
func (h *holdTracker) expire(now time.Time) []game.Key {
	var released []game.Key
	for k, seen := range h.lastSeen {
		if now.Sub(seen) >= h.window {
			released = append(released, k)
			delete(h.lastSeen, k)
		}
	}
	return released
}
