package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load("", "valentine")
	require.NoError(t, err)
	require.GreaterOrEqual(t, c.Len(), 2)

	p, ok := c.Get("valentine")
	require.True(t, ok)
	assert.Equal(t, "For My Valentine", p.Title)
	assert.Equal(t, 20, p.Rows)
	assert.Equal(t, 15, p.Cols)
	assert.Len(t, p.Words, 12)
	assert.Same(t, p, c.Default())

	// BLUFFS runs down column 6 from the top row; SNOOPY crosses it on row 5.
	assert.Equal(t, "B", p.Cell(0, 6).Letter)
	assert.Equal(t, 1, p.Cell(0, 6).Number)
	assert.Equal(t, "S", p.Cell(5, 6).Letter)
	dir, _ := p.Direction(5, 6)
	assert.Equal(t, puzzle.Down, dir, "BLUFFS is listed before SNOOPY")

	across, down := p.Clues()
	assert.Len(t, across, 6)
	assert.Len(t, down, 6)
	assert.Equal(t, "MUFF", across[0].Answer)

	ids := []string{}
	for _, p := range c.List() {
		ids = append(ids, p.ID)
	}
	assert.IsIncreasing(t, ids)
}

func TestLoadDefaultFallback(t *testing.T) {
	c, err := Load("", "nope")
	require.NoError(t, err)
	assert.Equal(t, c.List()[0], c.Default())
}

func TestLoadDirOverridesAndAdds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.json", `{"title":"Tiny","rows":1,"cols":3,"words":[`+
		`{"word":"cat","clue":"Feline","row":0,"col":0,"dir":"ACROSS","number":1}]}`)
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "mine.yml", `
id: sweetheart
title: Replaced
rows: 1
cols: 2
words:
  - { number: 1, word: OK, dir: across, row: 0, col: 0, clue: "Fine" }
`)

	c, err := Load(dir, "tiny")
	require.NoError(t, err)

	tiny, ok := c.Get("tiny")
	require.True(t, ok, "id falls back to the file name")
	assert.Equal(t, "CAT", tiny.Words[0].Text)
	assert.Equal(t, puzzle.Across, tiny.Words[0].Dir)
	assert.Same(t, tiny, c.Default())

	sw, ok := c.Get("sweetheart")
	require.True(t, ok)
	assert.Equal(t, "Replaced", sw.Title)
}

func TestLoadRejectsBadDataset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", `
id: bad
rows: 3
cols: 3
words:
  - { number: 1, word: CAT, dir: across, row: 0, col: 1, clue: "Too long" }
`)
	_, err := Load(dir, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, puzzle.ErrOutOfBounds), "got %v", err)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("id: x\nrows: 1\ncols: 1\ncolour: red\n"), "x.yaml")
	assert.Error(t, err)
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"), "")
	assert.Error(t, err)
}

func TestDaily(t *testing.T) {
	c, err := Load("", "")
	require.NoError(t, err)

	day := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	later := time.Date(2026, 2, 14, 23, 59, 0, 0, time.UTC)
	assert.Same(t, c.Daily(day, "salt"), c.Daily(later, "salt"))
	assert.Equal(t, "2026-02-14", DateKey(day))
	assert.Equal(t, 0, DayIndex(day, "salt", 0))

	for i := 0; i < 30; i++ {
		idx := DayIndex(day.AddDate(0, 0, i), "salt", 3)
		assert.True(t, idx >= 0 && idx < 3)
	}
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}
