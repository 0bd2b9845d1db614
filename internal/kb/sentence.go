package kb

import (
	"fmt"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

/*
A Sentence states that exactly count of the cells in its set are mines.
It says nothing about which ones: a sentence over three cells with count
one admits three placements. Knowledge narrows sentences down by removing
cells whose status it establishes elsewhere.
*/
type Sentence struct {
	cells Set
	count int
}

func NewSentence(cells Set, count int) (Sentence, error) {
	if count < 0 || count > len(cells) {
		return Sentence{}, fmt.Errorf(
			"%d mines cannot be placed in %d cells", count, len(cells),
		)
	}
	return Sentence{cells: cells.Clone(), count: count}, nil
}

func (s Sentence) Cells() Set {
	return s.cells.Clone()
}

func (s Sentence) Count() int {
	return s.count
}

func (s Sentence) Len() int {
	return len(s.cells)
}

// Sentence implements [fmt.Stringer]
func (s Sentence) String() string {
	return fmt.Sprintf("%v = %d", s.cells.Slice(), s.count)
}

func (s Sentence) Equal(x Sentence) bool {
	return s.count == x.count && s.cells.Equal(x.cells)
}

func (s *Sentence) copy() Sentence {
	return Sentence{cells: s.cells.Clone(), count: s.count}
}

/*
KnownMines returns every cell of the sentence when all of them are
provably mines, i.e. when the count fills the whole cell set.
*/
func (s Sentence) KnownMines() (Set, bool) {
	if len(s.cells) > 0 && s.count == len(s.cells) {
		return s.cells.Clone(), true
	}
	return nil, false
}

// KnownSafes returns every cell of the sentence when none of them can be
// a mine.
func (s Sentence) KnownSafes() (Set, bool) {
	if s.count == 0 {
		return s.cells.Clone(), true
	}
	return nil, false
}

/*
MarkMine specializes the sentence for a cell known to be a mine: the
cell leaves the set and takes one count with it. Sentences that do not
mention the cell are left alone.
*/
func (s *Sentence) MarkMine(c grid.Cell) {
	if s.cells.Has(c) {
		s.cells.Remove(c)
		s.count--
	}
}

// MarkSafe specializes the sentence for a cell known to be safe: the
// cell leaves the set, the count stays.
func (s *Sentence) MarkSafe(c grid.Cell) {
	s.cells.Remove(c)
}
