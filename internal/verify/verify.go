// internal/verify/verify.go
//
// Verification engine: compares user input to the expected letters.
//
// Check is pure: it reads the grid and the inputs, never the direction map,
// and returns a freshly built correctness map. Running it twice on the same
// inputs yields the same map.

package verify

import (
	"strings"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
)

// Status is the verification state of one cell.
type Status string

const (
	Unknown   Status = ""          // not checked since last edit, or Empty cell
	Correct   Status = "correct"   // input matches the expected letter
	Incorrect Status = "incorrect" // input differs or is missing
)

// Map is a rows×cols correctness map.
type Map [][]Status

// NewMap returns an all-Unknown map.
func NewMap(rows, cols int) Map {
	m := make(Map, rows)
	for r := range m {
		m[r] = make([]Status, cols)
	}
	return m
}

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for r, row := range m {
		out[r] = append([]Status(nil), row...)
	}
	return out
}

// Grid is the expected-letter view Check needs.
type Grid interface {
	Bounds() (rows, cols int)
	Cell(row, col int) puzzle.Cell
}

// Check scores every occupied cell: Correct when the uppercased input equals
// the expected letter, Incorrect otherwise. passed is true iff every occupied
// cell is Correct. Missing rows or columns in inputs count as empty input.
func Check(g Grid, inputs [][]string) (m Map, passed bool) {
	rows, cols := g.Bounds()
	m = NewMap(rows, cols)
	passed = true
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := g.Cell(r, c)
			if !cell.Occupied() {
				continue
			}
			if strings.ToUpper(inputAt(inputs, r, c)) == cell.Letter {
				m[r][c] = Correct
			} else {
				m[r][c] = Incorrect
				passed = false
			}
		}
	}
	return m, passed
}

func inputAt(inputs [][]string, r, c int) string {
	if r >= len(inputs) || c >= len(inputs[r]) {
		return ""
	}
	return inputs[r][c]
}

// Counts tallies the Correct and Incorrect cells of m.
func (m Map) Counts() (correct, incorrect int) {
	for _, row := range m {
		for _, s := range row {
			switch s {
			case Correct:
				correct++
			case Incorrect:
				incorrect++
			}
		}
	}
	return correct, incorrect
}
