// Package assets embeds the puzzle datasets shipped with the server.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed puzzles/*.yaml
var FS embed.FS

// PuzzleFile is one embedded dataset.
type PuzzleFile struct {
	Name string
	Data []byte
}

// Puzzles returns the embedded dataset files sorted by name.
func Puzzles() ([]PuzzleFile, error) {
	entries, err := fs.ReadDir(FS, "puzzles")
	if err != nil {
		return nil, err
	}
	var out []PuzzleFile
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		b, err := FS.ReadFile(path.Join("puzzles", e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, PuzzleFile{Name: e.Name(), Data: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
