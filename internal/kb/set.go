package kb

import (
	"maps"
	"slices"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

type void struct{}

// Set is an unordered collection of unique cells.
type Set map[grid.Cell]void

func NewSet(cells ...grid.Cell) Set {
	s := make(Set, len(cells))
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

func (s Set) Add(c grid.Cell)    { s[c] = void{} }
func (s Set) Remove(c grid.Cell) { delete(s, c) }

func (s Set) Has(c grid.Cell) bool {
	_, ok := s[c]
	return ok
}

func (s Set) Clone() Set {
	return maps.Clone(s)
}

func (s Set) Equal(x Set) bool {
	if len(s) != len(x) {
		return false
	}
	for c := range s {
		if !x.Has(c) {
			return false
		}
	}
	return true
}

// Subset reports whether every cell of s is also in x.
func (s Set) Subset(x Set) bool {
	if len(s) > len(x) {
		return false
	}
	for c := range s {
		if !x.Has(c) {
			return false
		}
	}
	return true
}

// Minus returns a new set holding the cells of s that are not in x.
func (s Set) Minus(x Set) Set {
	d := make(Set)
	for c := range s {
		if !x.Has(c) {
			d.Add(c)
		}
	}
	return d
}

// Slice returns the cells in row-major order.
func (s Set) Slice() []grid.Cell {
	cells := make([]grid.Cell, 0, len(s))
	for c := range s {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, grid.Compare)
	return cells
}
