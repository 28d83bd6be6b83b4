// internal/navigate/navigate.go
//
// Navigation engine: decides which cell should receive focus next.
//
// Transitions:
//   - Forward:  after a letter is accepted, move along the cell's own word
//               orientation (across → col+1, down → row+1).
//   - Backward: erase on an already empty cell, same axis, step −1.
//   - Step:     explicit compass move (arrow keys), independent of any
//               word's orientation.
//
// Every scan skips Empty cells and stops at the grid boundary. Reaching the
// boundary means "no target": the caller keeps its current focus. A starting
// position that is off the grid or on an Empty cell also yields no target.
// Nothing here touches focus itself; callers apply the returned position.

package navigate

import (
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
)

// Layout is the read-only view of a puzzle the engine needs.
type Layout interface {
	InBounds(row, col int) bool
	Occupied(row, col int) bool
	Direction(row, col int) (puzzle.Orientation, bool)
}

// Compass is an explicit movement request.
type Compass string

const (
	Up    Compass = "up"
	Down  Compass = "down"
	Left  Compass = "left"
	Right Compass = "right"
)

// Delta returns the (row, col) step for c, or ok=false for an unknown value.
func (c Compass) Delta() (dr, dc int, ok bool) {
	switch c {
	case Up:
		return -1, 0, true
	case Down:
		return 1, 0, true
	case Left:
		return 0, -1, true
	case Right:
		return 0, 1, true
	}
	return 0, 0, false
}

// Forward returns the next occupied cell along the word orientation that
// owns from.
func Forward(l Layout, from puzzle.Pos) (puzzle.Pos, bool) {
	return alongWord(l, from, 1)
}

// Backward returns the previous occupied cell along the word orientation
// that owns from.
func Backward(l Layout, from puzzle.Pos) (puzzle.Pos, bool) {
	return alongWord(l, from, -1)
}

// Step returns the nearest occupied cell in compass direction c.
func Step(l Layout, from puzzle.Pos, c Compass) (puzzle.Pos, bool) {
	if !l.Occupied(from.Row, from.Col) {
		return puzzle.Pos{}, false
	}
	dr, dc, ok := c.Delta()
	if !ok {
		return puzzle.Pos{}, false
	}
	return scan(l, from, dr, dc)
}

func alongWord(l Layout, from puzzle.Pos, sign int) (puzzle.Pos, bool) {
	if !l.Occupied(from.Row, from.Col) {
		return puzzle.Pos{}, false
	}
	dir, ok := l.Direction(from.Row, from.Col)
	if !ok {
		return puzzle.Pos{}, false
	}
	dr, dc := dir.Delta()
	return scan(l, from, dr*sign, dc*sign)
}

// scan walks from (exclusive) by (dr, dc) until it finds an occupied cell
// or leaves the grid.
func scan(l Layout, from puzzle.Pos, dr, dc int) (puzzle.Pos, bool) {
	r, c := from.Row+dr, from.Col+dc
	for l.InBounds(r, c) {
		if l.Occupied(r, c) {
			return puzzle.Pos{Row: r, Col: c}, true
		}
		r += dr
		c += dc
	}
	return puzzle.Pos{}, false
}
