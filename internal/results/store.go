// internal/results/store.go
//
// Persistence for completed solves (SQLite, see sql/001_init.sql).
// Responsibilities:
//   - Record a solve once per session (UNIQUE(session_id)).
//   - Per-puzzle, per-day leaderboard.
//   - Owner history and stats; anonymous history claimed on login.
//
// In-progress grids are never stored; a row appears only once a session's
// check passes.

package results

import (
	"context"
	"database/sql"
	"time"
)

// Result is one completed solve.
type Result struct {
	SessionID string    `json:"sessionId"`
	PuzzleID  string    `json:"puzzleId"`
	OwnerID   string    `json:"-"`
	Date      string    `json:"date"` // YYYY-MM-DD (UTC)
	Checks    int       `json:"checks"`
	ElapsedMs int       `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Player    string `json:"player"` // username, or "guest"
	Checks    int    `json:"checks"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Stats summarizes an owner's solves.
type Stats struct {
	Solved int `json:"solved"`
	BestMs int `json:"bestMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records r. It reports false when the session was already recorded.
func (s *Store) Insert(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO solves(session_id, puzzle_id, owner_id, date, checks, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.SessionID, r.PuzzleID, r.OwnerID, r.Date, r.Checks, r.ElapsedMs,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Leaderboard returns the fastest solves of puzzleID on date, fewest checks
// breaking ties, then earliest.
func (s *Store) Leaderboard(ctx context.Context, puzzleID, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.username, 'guest'), s.checks, s.elapsed_ms
		 FROM solves s LEFT JOIN users u ON u.id = s.owner_id
		 WHERE s.puzzle_id=? AND s.date=?
		 ORDER BY s.elapsed_ms ASC, s.checks ASC, s.created_at ASC, s.id ASC
		 LIMIT ?`, puzzleID, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Player, &r.Checks, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ForOwner lists an owner's most recent solves.
func (s *Store) ForOwner(ctx context.Context, ownerID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, puzzle_id, owner_id, date, checks, elapsed_ms, created_at
		 FROM solves WHERE owner_id=?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, ownerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var created string
		if err := rows.Scan(&r.SessionID, &r.PuzzleID, &r.OwnerID, &r.Date, &r.Checks, &r.ElapsedMs, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// StatsFor summarizes ownerID's solves.
func (s *Store) StatsFor(ctx context.Context, ownerID string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(MIN(elapsed_ms), 0) FROM solves WHERE owner_id=?`, ownerID,
	).Scan(&st.Solved, &st.BestMs)
	return st, err
}

// Claim moves every solve recorded under anonID to userID.
func (s *Store) Claim(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `UPDATE solves SET owner_id=? WHERE owner_id=?`, userID, anonID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
