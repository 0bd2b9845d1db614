package grid

import "fmt"

// Cell addresses a single square on a rectangular minefield. Row 0 is the
// top row, Col 0 is the leftmost column.
type Cell struct {
	Row, Col int
}

// Cell implements [fmt.Stringer]
func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

/*
Orders cells row-major. Usable with [slices.SortFunc] and friends.
*/
func Compare(a, b Cell) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.Col < b.Col {
		return -1
	}
	if a.Col > b.Col {
		return 1
	}
	return 0
}

type Bounds struct {
	Width, Height int
}

func (b Bounds) CellCount() int {
	return b.Width * b.Height
}

func (b Bounds) Contains(c Cell) bool {
	return 0 <= c.Row && c.Row < b.Height && 0 <= c.Col && c.Col < b.Width
}

// Index flattens a cell into a row-major slice offset.
func (b Bounds) Index(c Cell) int {
	return c.Row*b.Width + c.Col
}

func (b Bounds) CellAt(index int) Cell {
	return Cell{Row: index / b.Width, Col: index % b.Width}
}

/*
Neighbors returns the in-bounds cells of the 8-neighborhood of c in
row-major order. The cell itself is never included.
*/
func (b Bounds) Neighbors(c Cell) []Cell {
	ns := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: c.Row + dr, Col: c.Col + dc}
			if b.Contains(n) {
				ns = append(ns, n)
			}
		}
	}
	return ns
}
