package render

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lguibr/paddlebounce/game"
)

// Characters used for each kind of cell, in drawing priority order.
const (
	BallChar   = 'o'
	PaddleChar = '#'
	WallChar   = '='
	CenterChar = ':'
	EmptyChar  = ' '
)

// cell is the court area covered by one character.
type cell struct {
	min, max mgl64.Vec2
}

func (c cell) overlapsBox(b game.Box) bool {
	return c.min.X() < b.X+b.Width/2 && c.max.X() > b.X-b.Width/2 &&
		c.min.Y() < b.Y+b.Height/2 && c.max.Y() > b.Y-b.Height/2
}

func (c cell) overlapsBall(b game.BallState) bool {
	r := game.Rect{
		Center:      c.min.Add(c.max).Mul(0.5),
		HalfExtents: c.max.Sub(c.min).Mul(0.5),
	}
	_, ok := game.Intersects(game.Ball{Position: mgl64.Vec2{b.X, b.Y}, Radius: b.Radius}, r)
	return ok
}

// Snapshot draws s as cols x rows characters, top row first. Each row ends
// with a newline. Non-positive dimensions yield an empty string.
func Snapshot(s game.Snapshot, cols, rows int) string {
	if cols <= 0 || rows <= 0 || s.Court.Width <= 0 || s.Court.Height <= 0 {
		return ""
	}
	cw := s.Court.Width / float64(cols)
	ch := s.Court.Height / float64(rows)

	var out strings.Builder
	out.Grow((cols + 1) * rows)
	for r := 0; r < rows; r++ {
		top := s.Court.Height/2 - float64(r)*ch
		for c := 0; c < cols; c++ {
			left := -s.Court.Width/2 + float64(c)*cw
			out.WriteRune(charAt(s, cell{
				min: mgl64.Vec2{left, top - ch},
				max: mgl64.Vec2{left + cw, top},
			}, r))
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func charAt(s game.Snapshot, c cell, row int) rune {
	if c.overlapsBall(s.Ball) {
		return BallChar
	}
	for _, p := range s.Paddles {
		if c.overlapsBox(p) {
			return PaddleChar
		}
	}
	for _, w := range s.Walls {
		if c.overlapsBox(w) {
			return WallChar
		}
	}
	if row%2 == 0 && c.min.X() <= 0 && c.max.X() > 0 {
		return CenterChar
	}
	return EmptyChar
}
