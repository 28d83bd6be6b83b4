package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAppliesOnce(t *testing.T) {
	ctx := context.Background()
	db, err := openDB(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	defer db.Close()

	n, err := migrate(ctx, db, "sql")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	n, err = migrate(ctx, db, "sql")
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM solves`).Scan(&count))
	assert.Zero(t, count)
}

func TestMigrateRollsBackBrokenFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_ok.sql"), []byte(`CREATE TABLE a (x INTEGER);`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_bad.sql"), []byte(`CREATE TABLE b (;`), 0o644))

	db, err := openDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	n, err := migrate(ctx, db, dir)
	assert.Error(t, err)
	assert.Equal(t, 1, n)

	var done int
	err = db.QueryRow(`SELECT COUNT(1) FROM _migrations WHERE name='002_bad.sql'`).Scan(&done)
	require.NoError(t, err)
	assert.Zero(t, done)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CROSSWORD_TEST_KEY", "set")
	assert.Equal(t, "set", getEnv("CROSSWORD_TEST_KEY", "def"))
	assert.Equal(t, "def", getEnv("CROSSWORD_TEST_MISSING", "def"))
}
