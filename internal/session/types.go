// internal/session/types.go
//
// Type definitions for a single crossword solving session.
// Defines:
//   - Session: owner of the mutable input state and correctness map.
//   - InputResult / CheckResult: values returned to the presentation layer.
//   - Snapshot: a copy of the session state for rendering.

package session

import (
	"sync"
	"time"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/verify"
)

// Session holds the state of one person working one puzzle.
// All methods are safe for concurrent use; each completes before the next
// starts, so an input mutation is always visible to the navigation that
// follows it.
type Session struct {
	ID      string         // Unique session identifier (random hex string).
	Puzzle  *puzzle.Puzzle // Immutable grid and direction maps.
	OwnerID string         // User or anonymous ID the session belongs to.

	mu        sync.Mutex
	inputs    [][]string // one uppercase letter or "" per cell
	status    verify.Map // Unknown until checked; reset per edited cell
	checks    int        // number of Check calls so far
	startedAt time.Time
	solvedAt  time.Time // zero until the first passing check
	now       func() time.Time
}

// InputResult reports the outcome of an input or erase event.
// Focus is nil when the caller should keep its current focus.
type InputResult struct {
	Letter   string      `json:"letter"`
	Accepted bool        `json:"accepted"`
	Focus    *puzzle.Pos `json:"focus"`
}

// CheckResult is the outcome of a verification run.
type CheckResult struct {
	Status     verify.Map    `json:"status"`
	Passed     bool          `json:"passed"`
	Checks     int           `json:"checks"`
	FirstSolve bool          `json:"firstSolve"` // true only on the first passing check
	Elapsed    time.Duration `json:"-"`          // start to first solve
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID        string     `json:"id"`
	PuzzleID  string     `json:"puzzleId"`
	Inputs    [][]string `json:"inputs"`
	Status    verify.Map `json:"status"`
	Checks    int        `json:"checks"`
	Solved    bool       `json:"solved"`
	StartedAt time.Time  `json:"startedAt"`
	SolvedAt  *time.Time `json:"solvedAt,omitempty"`
}
