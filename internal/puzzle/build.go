// internal/puzzle/build.go
//
// Word placement index: derives the GridMap and DirectionMap from an ordered
// word list and validates the dataset on the way.
//
// Validation rules (all reported as *DatasetError):
//   - Grid dimensions must be positive and the word list non-empty.
//   - Word text must be non-empty and alphabetic (it is uppercased first).
//   - Clue numbers must be positive.
//   - Every letter must land inside the grid.
//   - Crossing words must agree on the shared letter.
//   - A clue number may be shared only by an across and a down word that
//     start on the same cell; words starting on the same cell share a number.

package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSize    = errors.New("grid dimensions must be positive")
	ErrNoWords        = errors.New("word list is empty")
	ErrInvalidWord    = errors.New("invalid word")
	ErrOutOfBounds    = errors.New("placement runs outside the grid")
	ErrLetterConflict = errors.New("crossing words disagree on a letter")
	ErrClueConflict   = errors.New("clue number collision")
)

// DatasetError describes an authoring mistake found while building a puzzle.
type DatasetError struct {
	Word   string // offending word text, if any
	Number int    // offending clue number, if any
	Cell   *Pos   // offending cell, if any
	Detail string
	Err    error // one of the Err* sentinels above
}

func (e *DatasetError) Error() string {
	var b strings.Builder
	b.WriteString("puzzle: ")
	b.WriteString(e.Err.Error())
	if e.Word != "" {
		fmt.Fprintf(&b, " (word %q", e.Word)
		if e.Number > 0 {
			fmt.Fprintf(&b, ", clue %d", e.Number)
		}
		b.WriteString(")")
	}
	if e.Cell != nil {
		fmt.Fprintf(&b, " at (%d,%d)", e.Cell.Row, e.Cell.Col)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *DatasetError) Unwrap() error { return e.Err }

// Build validates words against a rows×cols grid and returns the immutable
// Puzzle. The input slice is copied; its texts are uppercased.
func Build(id, title string, words []Word, rows, cols int) (*Puzzle, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &DatasetError{Err: ErrInvalidSize, Detail: fmt.Sprintf("%dx%d", rows, cols)}
	}
	if len(words) == 0 {
		return nil, &DatasetError{Err: ErrNoWords}
	}

	ws := make([]Word, len(words))
	for i, w := range words {
		w.Text = strings.ToUpper(strings.TrimSpace(w.Text))
		if err := validateWord(w); err != nil {
			return nil, err
		}
		ws[i] = w
	}

	grid, err := BuildGridMap(ws, rows, cols)
	if err != nil {
		return nil, err
	}
	if err := validateNumbers(ws); err != nil {
		return nil, err
	}

	return &Puzzle{
		ID:    id,
		Title: title,
		Rows:  rows,
		Cols:  cols,
		Words: ws,
		grid:  grid,
		dirs:  BuildDirectionMap(ws, rows, cols),
	}, nil
}

// BuildGridMap lays every word onto a fresh rows×cols grid.
// The first word to reach a cell sets its letter; a later word carrying a
// different letter there is a conflict. Clue numbers go on each word's first
// cell, again first writer wins.
func BuildGridMap(words []Word, rows, cols int) (GridMap, error) {
	grid := make(GridMap, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
	}

	for _, w := range words {
		for i, ch := range []rune(w.Text) {
			p := w.At(i)
			if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
				return nil, &DatasetError{Word: w.Text, Number: w.Number, Cell: &p, Err: ErrOutOfBounds,
					Detail: fmt.Sprintf("letter %d of %d on a %dx%d grid", i+1, len(w.Text), rows, cols)}
			}
			letter := strings.ToUpper(string(ch))
			cell := &grid[p.Row][p.Col]
			switch {
			case cell.Letter == "":
				cell.Letter = letter
			case cell.Letter != letter:
				return nil, &DatasetError{Word: w.Text, Number: w.Number, Cell: &p, Err: ErrLetterConflict,
					Detail: fmt.Sprintf("cell holds %q, word needs %q", cell.Letter, letter)}
			}
			if i == 0 && cell.Number == 0 {
				cell.Number = w.Number
			}
		}
	}
	return grid, nil
}

// BuildDirectionMap records, for each covered cell, the orientation of the
// first word in list order that reaches it. Cells outside the grid are
// skipped; BuildGridMap is where bounds are enforced.
func BuildDirectionMap(words []Word, rows, cols int) DirectionMap {
	dirs := make(DirectionMap, rows)
	for r := range dirs {
		dirs[r] = make([]Orientation, cols)
	}
	for _, w := range words {
		for i := range []rune(w.Text) {
			p := w.At(i)
			if p.Row < 0 || p.Row >= rows || p.Col < 0 || p.Col >= cols {
				continue
			}
			if dirs[p.Row][p.Col] == "" {
				dirs[p.Row][p.Col] = w.Dir
			}
		}
	}
	return dirs
}

func validateWord(w Word) error {
	if w.Text == "" {
		return &DatasetError{Number: w.Number, Err: ErrInvalidWord, Detail: "empty text"}
	}
	for _, r := range w.Text {
		if r < 'A' || r > 'Z' {
			return &DatasetError{Word: w.Text, Number: w.Number, Err: ErrInvalidWord,
				Detail: fmt.Sprintf("non-letter %q", r)}
		}
	}
	if !w.Dir.Valid() {
		return &DatasetError{Word: w.Text, Number: w.Number, Err: ErrInvalidWord,
			Detail: fmt.Sprintf("unknown orientation %q", w.Dir)}
	}
	if w.Number <= 0 {
		return &DatasetError{Word: w.Text, Number: w.Number, Err: ErrInvalidWord, Detail: "clue number must be positive"}
	}
	return nil
}

// validateNumbers enforces the clue numbering rules across the whole list.
func validateNumbers(words []Word) error {
	byNumber := make(map[int]Word, len(words))
	byOrigin := make(map[Pos]Word, len(words))

	for _, w := range words {
		origin := w.At(0)
		if prev, ok := byNumber[w.Number]; ok {
			if prev.At(0) != origin || prev.Dir == w.Dir {
				return &DatasetError{Word: w.Text, Number: w.Number, Cell: &origin, Err: ErrClueConflict,
					Detail: fmt.Sprintf("number already used by %q", prev.Text)}
			}
		} else {
			byNumber[w.Number] = w
		}
		if prev, ok := byOrigin[origin]; ok && prev.Number != w.Number {
			return &DatasetError{Word: w.Text, Number: w.Number, Cell: &origin, Err: ErrClueConflict,
				Detail: fmt.Sprintf("%q starts on the same cell with clue %d", prev.Text, prev.Number)}
		} else if !ok {
			byOrigin[origin] = w
		}
	}
	return nil
}
