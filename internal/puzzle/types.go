// internal/puzzle/types.go
//
// Core type definitions for crossword puzzles.
// Defines:
//   - Orientation: placement axis of a word (across/down).
//   - Word: a placed word with its clue and clue number.
//   - Cell / GridMap: occupancy, expected letter and clue number per cell.
//   - DirectionMap: which orientation "owns" each cell for navigation.
//   - Pos: a 0-based (row, col) grid coordinate.
//   - Puzzle: the validated, immutable bundle handed to sessions.

package puzzle

// Orientation is the placement axis of a word.
type Orientation string

const (
	Across Orientation = "across" // horizontal: successive letters at col+i
	Down   Orientation = "down"   // vertical: successive letters at row+i
)

// Valid reports whether o is one of the two known orientations.
func (o Orientation) Valid() bool { return o == Across || o == Down }

// Delta returns the (row, col) step for one letter along o.
func (o Orientation) Delta() (dr, dc int) {
	if o == Down {
		return 1, 0
	}
	return 0, 1
}

// Word is one entry of a puzzle's word list.
type Word struct {
	Text   string      `json:"word" yaml:"word"`
	Clue   string      `json:"clue" yaml:"clue"`
	Row    int         `json:"row" yaml:"row"` // 0-based row of the first letter
	Col    int         `json:"col" yaml:"col"` // 0-based column of the first letter
	Dir    Orientation `json:"dir" yaml:"dir"`
	Number int         `json:"number" yaml:"number"`
}

// At returns the coordinate of the i-th letter of w.
func (w Word) At(i int) Pos {
	dr, dc := w.Dir.Delta()
	return Pos{Row: w.Row + dr*i, Col: w.Col + dc*i}
}

// Pos is a 0-based grid coordinate.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is one GridMap entry. The zero value is an Empty (blocked) cell.
type Cell struct {
	Letter string // expected uppercase letter; "" for Empty cells
	Number int    // clue number when a word starts here, otherwise 0
}

// Occupied reports whether some word covers the cell.
func (c Cell) Occupied() bool { return c.Letter != "" }

// GridMap is the rows×cols occupancy and letter map.
type GridMap [][]Cell

// DirectionMap records, per occupied cell, the orientation of the first
// word that reached it. Empty cells hold "".
type DirectionMap [][]Orientation

// Puzzle is a validated word list together with its derived maps.
// It is never mutated after Build returns.
type Puzzle struct {
	ID    string
	Title string
	Rows  int
	Cols  int
	Words []Word

	grid GridMap
	dirs DirectionMap
}

// InBounds reports whether (row, col) lies on the grid.
func (p *Puzzle) InBounds(row, col int) bool {
	return row >= 0 && row < p.Rows && col >= 0 && col < p.Cols
}

// Bounds returns the grid dimensions.
func (p *Puzzle) Bounds() (rows, cols int) { return p.Rows, p.Cols }

// Cell returns the GridMap entry at (row, col). Out-of-bounds coordinates
// yield an Empty cell.
func (p *Puzzle) Cell(row, col int) Cell {
	if !p.InBounds(row, col) {
		return Cell{}
	}
	return p.grid[row][col]
}

// Occupied reports whether (row, col) is on the grid and covered by a word.
func (p *Puzzle) Occupied(row, col int) bool { return p.Cell(row, col).Occupied() }

// Direction returns the navigation orientation claimed for (row, col).
func (p *Puzzle) Direction(row, col int) (Orientation, bool) {
	if !p.InBounds(row, col) {
		return "", false
	}
	o := p.dirs[row][col]
	return o, o != ""
}

// Grid exposes the GridMap. Callers must treat it as read-only.
func (p *Puzzle) Grid() GridMap { return p.grid }

// Directions exposes the DirectionMap. Callers must treat it as read-only.
func (p *Puzzle) Directions() DirectionMap { return p.dirs }

// OccupiedCount returns the number of cells covered by at least one word.
func (p *Puzzle) OccupiedCount() int {
	n := 0
	for _, row := range p.grid {
		for _, c := range row {
			if c.Occupied() {
				n++
			}
		}
	}
	return n
}
