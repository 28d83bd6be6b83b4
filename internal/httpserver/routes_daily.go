// internal/httpserver/routes_daily.go
//
// HTTP routes for the puzzle of the day and the solve leaderboard.
//   - GET /puzzles/daily → today's puzzle layout (deterministic by date + salt)
//   - GET /leaderboard   → top 20 solves for ?puzzle= (default: today's
//                          puzzle) on ?date= (default: today, UTC)
//
// Starting a daily session is an ordinary POST /sessions with the returned id.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/catalog"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/results"
)

const leaderboardSize = 20

// dailyServer wraps dependencies for the daily endpoints.
type dailyServer struct {
	srv  *Server
	salt string
}

// mountDaily registers the daily + leaderboard routes.
func (s *Server) mountDaily(r chi.Router) {
	d := &dailyServer{srv: s, salt: getEnv("DAILY_SALT", "local_dev_salt")}
	r.Get("/puzzles/daily", d.handleDaily)
	r.Get("/leaderboard", d.handleLeaderboard)
}

type dailyRes struct {
	Date   string    `json:"date"`
	Puzzle layoutRes `json:"puzzle"`
}

func (d *dailyServer) handleDaily(w http.ResponseWriter, r *http.Request) {
	now := d.srv.now()
	p := d.srv.catalog.Daily(now, d.salt)
	_ = json.NewEncoder(w).Encode(dailyRes{Date: catalog.DateKey(now), Puzzle: newLayout(p)})
}

// lbRes is returned by /leaderboard.
type lbRes struct {
	Puzzle string          `json:"puzzle"`
	Date   string          `json:"date"`
	Top    []results.LBRow `json:"top"`
}

func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if d.srv.results == nil {
		http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	now := d.srv.now()
	date := r.URL.Query().Get("date")
	if date == "" {
		date = catalog.DateKey(now)
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	puzzleID := r.URL.Query().Get("puzzle")
	if puzzleID == "" {
		puzzleID = d.srv.catalog.Daily(now, d.salt).ID
	} else if _, ok := d.srv.catalog.Get(puzzleID); !ok {
		http.Error(w, `{"error":"unknown_puzzle"}`, http.StatusNotFound)
		return
	}

	rows, err := d.srv.results.Leaderboard(r.Context(), puzzleID, date, leaderboardSize)
	if err != nil {
		log.Error().Err(err).Str("puzzle", puzzleID).Msg("leaderboard")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Puzzle: puzzleID, Date: date, Top: rows})
}
