// internal/httpserver/server.go
//
// HTTP server wiring for the crossword backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health".
//   - Puzzle endpoints: GET /puzzles, GET /puzzles/{id} (no answers).
//   - Session endpoints (optional auth): create, snapshot, input, navigate,
//     check, reset.
//   - Daily puzzle + leaderboard (routes_daily.go) and accounts
//     (routes_auth.go).
//
// Notes:
//   - Focus targets come back as {"row","col"} or null; null means the client
//     keeps its current focus.
//   - Events addressing Empty or off-grid cells are answered 200 with no
//     effect.
//   - With a nil *sql.DB, accounts and solve recording are disabled; puzzles
//     and sessions still work.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/catalog"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/navigate"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/results"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/session"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/store"
)

// moveEraseBackward is the navigate move for the erase key.
const moveEraseBackward = "erase-backward"

// Server bundles router, puzzle catalog, live sessions and DB handle.
type Server struct {
	r       *chi.Mux
	catalog *catalog.Catalog
	store   store.Store
	db      *sql.DB
	results *results.Store
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cat *catalog.Catalog, st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), catalog: cat, store: st, db: db, now: time.Now}
	if db != nil {
		s.results = results.NewStore(db)
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"crossword-go","endpoints":["/health","/puzzles","/puzzles/daily","POST /sessions","/leaderboard","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "puzzles": s.catalog.Len(), "sessions": s.store.Len()})
	})

	s.r.Get("/puzzles", s.handleListPuzzles)
	s.mountDaily(s.r)
	s.r.Get("/puzzles/{id}", s.handleGetPuzzle)

	s.r.Route("/sessions", func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/", s.handleNewSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleSnapshot))
			r.Post("/input", s.withSession(s.handleInput))
			r.Post("/navigate", s.withSession(s.handleNavigate))
			r.Post("/check", s.withSession(s.handleCheck))
			r.Post("/reset", s.withSession(s.handleReset))
		})
	})

	if db != nil {
		s.mountAuthRoutes()
	}

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ PUZZLES ------------------------------------

type puzzleSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Words int    `json:"words"`
}

type layoutCell struct {
	Blocked bool `json:"blocked"`
	Number  int  `json:"number,omitempty"`
}

// layoutRes is what a client needs to draw a grid: blocked cells, clue
// numbers and the two clue lists. Answers are never included.
type layoutRes struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Rows   int            `json:"rows"`
	Cols   int            `json:"cols"`
	Cells  [][]layoutCell `json:"cells"`
	Across []puzzle.Clue  `json:"across"`
	Down   []puzzle.Clue  `json:"down"`
}

func newLayout(p *puzzle.Puzzle) layoutRes {
	cells := make([][]layoutCell, p.Rows)
	for r := range cells {
		cells[r] = make([]layoutCell, p.Cols)
		for c := range cells[r] {
			cell := p.Cell(r, c)
			cells[r][c] = layoutCell{Blocked: !cell.Occupied(), Number: cell.Number}
		}
	}
	across, down := p.Clues()
	return layoutRes{ID: p.ID, Title: p.Title, Rows: p.Rows, Cols: p.Cols, Cells: cells, Across: across, Down: down}
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	out := []puzzleSummary{}
	for _, p := range s.catalog.List() {
		out = append(out, puzzleSummary{ID: p.ID, Title: p.Title, Rows: p.Rows, Cols: p.Cols, Words: len(p.Words)})
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p, ok := s.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(newLayout(p))
}

// ------------------------------ SESSIONS -----------------------------------

type newSessionReq struct {
	PuzzleID string `json:"puzzleId"` // optional; default puzzle when empty
}
type newSessionRes struct {
	SessionID string    `json:"sessionId"`
	Puzzle    layoutRes `json:"puzzle"`
}

// handleNewSession starts an empty session owned by the caller (user or
// anonymous cookie).
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
	}

	p := s.catalog.Default()
	if req.PuzzleID != "" {
		var ok bool
		if p, ok = s.catalog.Get(req.PuzzleID); !ok {
			http.Error(w, `{"error":"unknown_puzzle"}`, http.StatusNotFound)
			return
		}
	}

	sess := session.New(p)
	sess.OwnerID = s.ownerID(w, r)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("session", sess.ID).Str("puzzle", p.ID).Msg("session started")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newSessionRes{SessionID: sess.ID, Puzzle: newLayout(p)})
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves {id} into a live session or answers 404.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("load session")
			http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// inputReq is the payload for POST /sessions/{id}/input.
type inputReq struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(sess.Input(req.Row, req.Col, req.Value))
}

// navigateReq is the payload for POST /sessions/{id}/navigate.
// Move is up, down, left, right or erase-backward.
type navigateReq struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Move string `json:"move"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req navigateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Move == moveEraseBackward {
		_ = json.NewEncoder(w).Encode(sess.Erase(req.Row, req.Col))
		return
	}
	c := navigate.Compass(req.Move)
	if _, _, ok := c.Delta(); !ok {
		http.Error(w, `{"error":"bad_move"}`, http.StatusBadRequest)
		return
	}
	focus := sess.Move(req.Row, req.Col, c)
	_ = json.NewEncoder(w).Encode(session.InputResult{Accepted: sess.Puzzle.Occupied(req.Row, req.Col), Focus: focus})
}

// handleCheck verifies the grid. The first passing check is recorded as a
// solve (best effort; a DB failure never fails the request).
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	res := sess.Check()
	if res.FirstSolve {
		log.Info().Str("session", sess.ID).Str("puzzle", sess.Puzzle.ID).
			Int("checks", res.Checks).Dur("elapsed", res.Elapsed).Msg("puzzle solved")
		s.recordSolve(r, sess, res)
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) recordSolve(r *http.Request, sess *session.Session, res session.CheckResult) {
	if s.results == nil {
		return
	}
	_, err := s.results.Insert(r.Context(), results.Result{
		SessionID: sess.ID,
		PuzzleID:  sess.Puzzle.ID,
		OwnerID:   sess.OwnerID,
		Date:      catalog.DateKey(s.now()),
		Checks:    res.Checks,
		ElapsedMs: int(res.Elapsed.Milliseconds()),
	})
	if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("record solve")
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.Reset()
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
