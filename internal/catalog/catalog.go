// internal/catalog/catalog.go
//
// Puzzle catalog: loads, validates and serves crossword datasets.
//
// Sources, in order (later files replace earlier ones with the same id):
//   1. Datasets embedded in the assets package.
//   2. Every *.yaml / *.yml / *.json file in PUZZLE_DIR, if set.
//
// Dataset format (YAML; JSON is accepted as a YAML subset):
//
//	id: valentine
//	title: For My Valentine
//	rows: 20
//	cols: 15
//	words:
//	  - { number: 1, word: BLUFFS, dir: down, row: 0, col: 6, clue: "..." }
//
// Rows and columns are 0-based. Every dataset goes through puzzle.Build, so
// a malformed file aborts Load with a *puzzle.DatasetError.

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/EpKuz6121/ValentinesDayCrossword/assets"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
)

// ErrEmpty is returned when no dataset could be found.
var ErrEmpty = errors.New("catalog: no puzzles loaded")

// dataset is the on-disk shape of one puzzle file.
type dataset struct {
	ID    string        `yaml:"id"`
	Title string        `yaml:"title"`
	Rows  int           `yaml:"rows"`
	Cols  int           `yaml:"cols"`
	Words []puzzle.Word `yaml:"words"`
}

// Catalog is an immutable set of validated puzzles.
type Catalog struct {
	byID      map[string]*puzzle.Puzzle
	ids       []string // sorted
	defaultID string
}

// Load reads the embedded datasets plus those in dir (may be empty) and
// validates all of them. defaultID selects Default(); if it is empty or
// unknown the first puzzle by id is used.
func Load(dir, defaultID string) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*puzzle.Puzzle)}

	files, err := assets.Puzzles()
	if err != nil {
		return nil, fmt.Errorf("catalog: read embedded puzzles: %w", err)
	}
	for _, f := range files {
		if err := c.add("embedded:"+f.Name, f.Data); err != nil {
			return nil, err
		}
	}

	if dir != "" {
		if err := c.loadDir(dir); err != nil {
			return nil, err
		}
	}
	if len(c.byID) == 0 {
		return nil, ErrEmpty
	}

	c.ids = lo.Keys(c.byID)
	sort.Strings(c.ids)
	c.defaultID = defaultID
	if _, ok := c.byID[defaultID]; !ok {
		if defaultID != "" {
			log.Warn().Str("puzzle", defaultID).Str("fallback", c.ids[0]).Msg("default puzzle not in catalog")
		}
		c.defaultID = c.ids[0]
	}
	return c, nil
}

func (c *Catalog) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isDatasetFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}
		if err := c.add(path, b); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) add(source string, data []byte) error {
	p, err := Parse(data, source)
	if err != nil {
		return err
	}
	if _, dup := c.byID[p.ID]; dup {
		log.Info().Str("puzzle", p.ID).Str("source", source).Msg("puzzle overridden")
	}
	c.byID[p.ID] = p
	log.Debug().Str("puzzle", p.ID).Str("source", source).Int("words", len(p.Words)).Msg("puzzle loaded")
	return nil
}

// Parse decodes and validates one dataset. source names the file in errors
// and supplies the id when the dataset has none.
func Parse(data []byte, source string) (*puzzle.Puzzle, error) {
	var ds dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", source, err)
	}
	if ds.ID == "" {
		base := filepath.Base(strings.TrimPrefix(source, "embedded:"))
		ds.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for i := range ds.Words {
		ds.Words[i].Dir = puzzle.Orientation(strings.ToLower(string(ds.Words[i].Dir)))
	}
	p, err := puzzle.Build(ds.ID, ds.Title, ds.Words, ds.Rows, ds.Cols)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", source, err)
	}
	return p, nil
}

func isDatasetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Get returns the puzzle with the given id.
func (c *Catalog) Get(id string) (*puzzle.Puzzle, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// List returns all puzzles sorted by id.
func (c *Catalog) List() []*puzzle.Puzzle {
	return lo.Map(c.ids, func(id string, _ int) *puzzle.Puzzle { return c.byID[id] })
}

// Default returns the configured default puzzle.
func (c *Catalog) Default() *puzzle.Puzzle { return c.byID[c.defaultID] }

// Daily returns the puzzle of the day for t.
func (c *Catalog) Daily(t time.Time, salt string) *puzzle.Puzzle {
	return c.byID[c.ids[DayIndex(t, salt, len(c.ids))]]
}

// Len reports how many puzzles are loaded.
func (c *Catalog) Len() int { return len(c.ids) }
