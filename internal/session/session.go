// internal/session/session.go
//
// Session controller for a single crossword.
// Responsibilities:
//   - Input state store: SetCell/Reset over the per-cell letters, keeping
//     the correctness map in step (editing a cell forgets its status).
//   - Event wiring: Input (store + forward advance), Erase (clear or pull
//     focus backward), Move (arrow keys).
//   - Check: run the verification engine and keep its result.
//
// Notes:
//   - Events on Empty or off-grid cells are absorbed silently.
//   - Focus is never owned here; events return the target position instead.

package session

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/navigate"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/verify"
)

// New starts an empty session on p.
func New(p *puzzle.Puzzle) *Session {
	return newAt(p, time.Now)
}

func newAt(p *puzzle.Puzzle, now func() time.Time) *Session {
	s := &Session{
		ID:        randomID(),
		Puzzle:    p,
		startedAt: now(),
		now:       now,
	}
	s.clear()
	return s
}

// SetCell stores the normalized form of raw at (row, col) and resets that
// cell's status to Unknown. It reports the stored letter and whether the
// coordinate addressed an occupied cell; other coordinates are ignored.
func (s *Session) SetCell(row, col int, raw string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCell(row, col, raw)
}

// Reset clears every input and status. The check counter and solve time are
// kept; they describe the session, not the grid contents.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// Letter returns the current input at (row, col).
func (s *Session) Letter(row, col int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Puzzle.InBounds(row, col) {
		return ""
	}
	return s.inputs[row][col]
}

// Input handles a typed value: the letter is stored first, then, if it is
// non-empty, focus advances along the cell's word.
func (s *Session) Input(row, col int, raw string) InputResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	letter, ok := s.setCell(row, col, raw)
	if !ok {
		return InputResult{}
	}
	res := InputResult{Letter: letter, Accepted: true}
	if letter != "" {
		res.Focus = focus(navigate.Forward(s.Puzzle, puzzle.Pos{Row: row, Col: col}))
	}
	return res
}

// Erase handles the erase key. A filled cell is cleared and keeps focus; an
// already empty cell pulls focus to the previous letter of its word.
func (s *Session) Erase(row, col int) InputResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Puzzle.Occupied(row, col) {
		return InputResult{}
	}
	if s.inputs[row][col] != "" {
		s.setCell(row, col, "")
		return InputResult{Accepted: true}
	}
	return InputResult{Accepted: true, Focus: focus(navigate.Backward(s.Puzzle, puzzle.Pos{Row: row, Col: col}))}
}

// Move handles an explicit compass step from (row, col).
func (s *Session) Move(row, col int, c navigate.Compass) *puzzle.Pos {
	return focus(navigate.Step(s.Puzzle, puzzle.Pos{Row: row, Col: col}, c))
}

// Check verifies the whole grid and stores the resulting correctness map.
func (s *Session) Check() CheckResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, passed := verify.Check(s.Puzzle, s.inputs)
	s.status = m
	s.checks++

	res := CheckResult{Status: m.Clone(), Passed: passed, Checks: s.checks}
	if passed && s.solvedAt.IsZero() {
		s.solvedAt = s.now()
		res.FirstSolve = true
		res.Elapsed = s.solvedAt.Sub(s.startedAt)
	}
	return res
}

// Solved reports whether some check has passed.
func (s *Session) Solved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.solvedAt.IsZero()
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := make([][]string, len(s.inputs))
	for r, row := range s.inputs {
		in[r] = append([]string(nil), row...)
	}
	snap := Snapshot{
		ID:        s.ID,
		PuzzleID:  s.Puzzle.ID,
		Inputs:    in,
		Status:    s.status.Clone(),
		Checks:    s.checks,
		Solved:    !s.solvedAt.IsZero(),
		StartedAt: s.startedAt,
	}
	if snap.Solved {
		t := s.solvedAt
		snap.SolvedAt = &t
	}
	return snap
}

func (s *Session) setCell(row, col int, raw string) (string, bool) {
	if !s.Puzzle.Occupied(row, col) {
		return "", false
	}
	letter := normalize(raw)
	s.inputs[row][col] = letter
	s.status[row][col] = verify.Unknown
	return letter, true
}

func (s *Session) clear() {
	rows, cols := s.Puzzle.Bounds()
	s.inputs = make([][]string, rows)
	for r := range s.inputs {
		s.inputs[r] = make([]string, cols)
	}
	s.status = verify.NewMap(rows, cols)
}

// normalize keeps the last character of raw, uppercased. Pasting "ab" into a
// cell therefore stores "B". Anything that is not a letter clears the cell.
func normalize(raw string) string {
	if raw == "" {
		return ""
	}
	r, _ := utf8.DecodeLastRuneInString(raw)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return ""
	}
	return strings.ToUpper(string(r))
}

func focus(p puzzle.Pos, ok bool) *puzzle.Pos {
	if !ok {
		return nil
	}
	return &p
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
