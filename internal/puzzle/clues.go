package puzzle

import (
	"sort"

	"github.com/samber/lo"
)

// Clue is one entry of an Across or Down clue list.
type Clue struct {
	Number int         `json:"number"`
	Clue   string      `json:"clue"`
	Answer string      `json:"-"`
	Dir    Orientation `json:"dir"`
	Row    int         `json:"row"`
	Col    int         `json:"col"`
	Length int         `json:"length"`
}

// ListClues returns the clues of the given orientation sorted by number.
// Words with equal numbers keep their list order.
func ListClues(words []Word, dir Orientation) []Clue {
	clues := lo.FilterMap(words, func(w Word, _ int) (Clue, bool) {
		return Clue{
			Number: w.Number,
			Clue:   w.Clue,
			Answer: w.Text,
			Dir:    w.Dir,
			Row:    w.Row,
			Col:    w.Col,
			Length: len([]rune(w.Text)),
		}, w.Dir == dir
	})
	sort.SliceStable(clues, func(i, j int) bool { return clues[i].Number < clues[j].Number })
	return clues
}

// Clues returns the Across and Down lists of p.
func (p *Puzzle) Clues() (across, down []Clue) {
	return ListClues(p.Words, Across), ListClues(p.Words, Down)
}
