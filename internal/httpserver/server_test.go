package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/catalog"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/store"
)

// sweetheart answers, keyed by row then column.
var sweetheart = map[[2]int]string{
	{0, 0}: "H", {0, 1}: "E", {0, 2}: "A", {0, 3}: "R", {0, 4}: "T",
	{1, 0}: "U", {1, 3}: "O",
	{2, 0}: "G", {2, 1}: "L", {2, 2}: "A", {2, 3}: "S", {2, 4}: "S",
	{3, 3}: "E",
}

type client struct {
	t  *testing.T
	ts *httptest.Server
	hc *http.Client
}

func newClient(t *testing.T, db *sql.DB) *client {
	t.Helper()
	cat, err := catalog.Load("", "sweetheart")
	require.NoError(t, err)
	ts := httptest.NewServer(New(cat, store.NewMemoryStore(), db))
	t.Cleanup(ts.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, ts: ts, hc: &http.Client{Jar: jar}}
}

// do sends body (marshalled when not nil) and decodes a JSON reply into out
// when out is not nil. It returns the status code and the raw body.
func (c *client) do(method, path string, body, out any) (int, string) {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.ts.URL+path, rdr)
	require.NoError(c.t, err)
	res, err := c.hc.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	if out != nil && res.StatusCode < 300 {
		require.NoError(c.t, json.Unmarshal(raw, out), string(raw))
	}
	return res.StatusCode, string(raw)
}

type focusRes struct {
	Letter   string `json:"letter"`
	Accepted bool   `json:"accepted"`
	Focus    *struct {
		Row int `json:"row"`
		Col int `json:"col"`
	} `json:"focus"`
}

type checkRes struct {
	Status     [][]string `json:"status"`
	Passed     bool       `json:"passed"`
	Checks     int        `json:"checks"`
	FirstSolve bool       `json:"firstSolve"`
}

func (c *client) newSession() string {
	c.t.Helper()
	var res newSessionRes
	code, _ := c.do(http.MethodPost, "/sessions", map[string]string{"puzzleId": "sweetheart"}, &res)
	require.Equal(c.t, http.StatusCreated, code)
	require.NotEmpty(c.t, res.SessionID)
	return res.SessionID
}

func (c *client) solve(id string) {
	c.t.Helper()
	for at, l := range sweetheart {
		code, _ := c.do(http.MethodPost, "/sessions/"+id+"/input", inputReq{Row: at[0], Col: at[1], Value: strings.ToLower(l)}, nil)
		require.Equal(c.t, http.StatusOK, code)
	}
}

func TestPuzzleEndpoints(t *testing.T) {
	c := newClient(t, nil)

	var list []puzzleSummary
	code, _ := c.do(http.MethodGet, "/puzzles", nil, &list)
	require.Equal(t, http.StatusOK, code)
	ids := []string{}
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "sweetheart")
	assert.Contains(t, ids, "valentine")

	var layout layoutRes
	code, raw := c.do(http.MethodGet, "/puzzles/sweetheart", nil, &layout)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5, layout.Rows)
	assert.Equal(t, 5, layout.Cols)
	assert.Equal(t, 1, layout.Cells[0][0].Number)
	assert.False(t, layout.Cells[0][0].Blocked)
	assert.True(t, layout.Cells[1][1].Blocked)
	assert.Len(t, layout.Across, 2)
	assert.Len(t, layout.Down, 2)
	assert.NotContains(t, raw, "HEART")
	assert.NotContains(t, raw, "GLASS")

	code, _ = c.do(http.MethodGet, "/puzzles/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	var daily dailyRes
	code, _ = c.do(http.MethodGet, "/puzzles/daily", nil, &daily)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, daily.Date, len("2006-01-02"))
	assert.NotEmpty(t, daily.Puzzle.ID)
}

func TestSessionDefaultsToDefaultPuzzle(t *testing.T) {
	c := newClient(t, nil)
	var res newSessionRes
	code, _ := c.do(http.MethodPost, "/sessions", nil, &res)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "sweetheart", res.Puzzle.ID)

	code, _ = c.do(http.MethodPost, "/sessions", map[string]string{"puzzleId": "nope"}, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTypingAdvancesFocus(t *testing.T) {
	c := newClient(t, nil)
	id := c.newSession()
	path := "/sessions/" + id

	var res focusRes
	c.do(http.MethodPost, path+"/input", inputReq{Row: 0, Col: 0, Value: "h"}, &res)
	assert.Equal(t, "H", res.Letter)
	require.NotNil(t, res.Focus)
	assert.Equal(t, 0, res.Focus.Row)
	assert.Equal(t, 1, res.Focus.Col)

	// Last letter of HEART: nowhere to go.
	res = focusRes{}
	c.do(http.MethodPost, path+"/input", inputReq{Row: 0, Col: 4, Value: "t"}, &res)
	assert.True(t, res.Accepted)
	assert.Nil(t, res.Focus)

	// (1,0) is part of HUG only, so typing moves down.
	res = focusRes{}
	c.do(http.MethodPost, path+"/input", inputReq{Row: 1, Col: 0, Value: "u"}, &res)
	require.NotNil(t, res.Focus)
	assert.Equal(t, 2, res.Focus.Row)
	assert.Equal(t, 0, res.Focus.Col)

	// Blocked cells absorb input.
	res = focusRes{}
	code, _ := c.do(http.MethodPost, path+"/input", inputReq{Row: 1, Col: 1, Value: "x"}, &res)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, res.Accepted)

	var snap struct {
		Inputs [][]string `json:"inputs"`
	}
	c.do(http.MethodGet, path, nil, &snap)
	assert.Equal(t, "H", snap.Inputs[0][0])
	assert.Equal(t, "T", snap.Inputs[0][4])
	assert.Equal(t, "", snap.Inputs[1][1])
}

func TestNavigateAndErase(t *testing.T) {
	c := newClient(t, nil)
	id := c.newSession()
	path := "/sessions/" + id + "/navigate"

	var res focusRes
	c.do(http.MethodPost, path, navigateReq{Row: 0, Col: 1, Move: "down"}, &res)
	require.NotNil(t, res.Focus)
	assert.Equal(t, 2, res.Focus.Row)
	assert.Equal(t, 1, res.Focus.Col)

	res = focusRes{}
	c.do(http.MethodPost, path, navigateReq{Row: 0, Col: 4, Move: "right"}, &res)
	assert.Nil(t, res.Focus)

	// Erase on an empty cell moves back along ROSE.
	res = focusRes{}
	c.do(http.MethodPost, path, navigateReq{Row: 1, Col: 3, Move: moveEraseBackward}, &res)
	require.NotNil(t, res.Focus)
	assert.Equal(t, 0, res.Focus.Row)
	assert.Equal(t, 3, res.Focus.Col)

	// Erase on a filled cell clears it and keeps focus.
	c.do(http.MethodPost, "/sessions/"+id+"/input", inputReq{Row: 1, Col: 3, Value: "o"}, nil)
	res = focusRes{}
	c.do(http.MethodPost, path, navigateReq{Row: 1, Col: 3, Move: moveEraseBackward}, &res)
	assert.True(t, res.Accepted)
	assert.Nil(t, res.Focus)

	code, raw := c.do(http.MethodPost, path, navigateReq{Row: 0, Col: 0, Move: "sideways"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, raw, "bad_move")
}

func TestCheckAndReset(t *testing.T) {
	c := newClient(t, nil)
	id := c.newSession()
	path := "/sessions/" + id

	c.do(http.MethodPost, path+"/input", inputReq{Row: 0, Col: 0, Value: "x"}, nil)
	var res checkRes
	c.do(http.MethodPost, path+"/check", nil, &res)
	assert.False(t, res.Passed)
	assert.Equal(t, "incorrect", res.Status[0][0])
	assert.Equal(t, "", res.Status[1][1])

	c.solve(id)
	res = checkRes{}
	c.do(http.MethodPost, path+"/check", nil, &res)
	assert.True(t, res.Passed)
	assert.True(t, res.FirstSolve)
	assert.Equal(t, 2, res.Checks)
	assert.Equal(t, "correct", res.Status[3][3])

	res = checkRes{}
	c.do(http.MethodPost, path+"/check", nil, &res)
	assert.True(t, res.Passed)
	assert.False(t, res.FirstSolve)

	var snap struct {
		Inputs [][]string `json:"inputs"`
		Solved bool       `json:"solved"`
		Checks int        `json:"checks"`
	}
	code, _ := c.do(http.MethodPost, path+"/reset", nil, &snap)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "", snap.Inputs[0][0])
	assert.True(t, snap.Solved)
	assert.Equal(t, 3, snap.Checks)
}

func TestUnknownSessionAndRoutes(t *testing.T) {
	c := newClient(t, nil)
	code, _ := c.do(http.MethodGet, "/sessions/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodPost, "/sessions/missing/check", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, raw := c.do(http.MethodGet, "/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, raw, "not_found")

	// Without a database there are no accounts or leaderboard.
	code, _ = c.do(http.MethodGet, "/leaderboard", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = c.do(http.MethodPost, "/auth/login", credentials{Username: "amy", Password: "password1"}, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	schema, err := os.ReadFile("../../sql/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	return db
}

func TestAccountsAndLeaderboard(t *testing.T) {
	c := newClient(t, testDB(t))

	// A guest solve first; it is claimed at signup.
	guest := c.newSession()
	c.solve(guest)
	var chk checkRes
	c.do(http.MethodPost, "/sessions/"+guest+"/check", nil, &chk)
	assert.True(t, chk.Passed)

	code, _ := c.do(http.MethodPost, "/auth/signup", credentials{Username: "romeo", Password: "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodPost, "/auth/signup", credentials{Username: "romeo", Password: "wherefore1"}, nil)
	require.Equal(t, http.StatusCreated, code)
	code, _ = c.do(http.MethodPost, "/auth/signup", credentials{Username: "romeo", Password: "wherefore1"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	var me authUser
	code, _ = c.do(http.MethodGet, "/auth/me", nil, &me)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "romeo", me.Username)

	id := c.newSession()
	c.solve(id)
	chk = checkRes{}
	c.do(http.MethodPost, "/sessions/"+id+"/check", nil, &chk)
	require.True(t, chk.FirstSolve)

	var stats struct {
		Solved int `json:"solved"`
	}
	code, _ = c.do(http.MethodGet, "/stats/me", nil, &stats)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, stats.Solved)

	var mine []map[string]any
	c.do(http.MethodGet, "/solves/mine", nil, &mine)
	assert.Len(t, mine, 2)

	var lb lbRes
	code, _ = c.do(http.MethodGet, "/leaderboard?puzzle=sweetheart", nil, &lb)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, lb.Top, 2)
	assert.Equal(t, "romeo", lb.Top[0].Player)

	code, _ = c.do(http.MethodGet, "/leaderboard?date=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodPost, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/auth/login", credentials{Username: "romeo", Password: "wrongpass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodPost, "/auth/login", credentials{Username: "ROMEO", Password: "wherefore1"}, nil)
	assert.Equal(t, http.StatusOK, code)
}
