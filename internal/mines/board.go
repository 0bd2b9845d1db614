package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

/*
A Board is a fixed mine placement on a rectangular grid. It knows where
the mines are and answers adjacency queries; it keeps no record of what
anyone has revealed.
*/
type Board struct {
	params GameParams
	grid   []bool
}

/*
NewBoard places params.MineCount mines uniformly at random, none of them
at start or within one square of it, so that the first move is always
safe and opens with a usable clue.
*/
func NewBoard(params GameParams, start grid.Cell, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	bounds := params.Bounds()
	if !bounds.Contains(start) {
		return nil, fmt.Errorf("start cell %s is out of bounds", start)
	}

	cells := make([]bool, bounds.CellCount())

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, bounds.CellCount())
	for i := range bounds.CellCount() {
		c := bounds.CellAt(i)
		if absDiff(start.Row, c.Row) > 1 || absDiff(start.Col, c.Col) > 1 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < params.MineCount {
		return nil, fmt.Errorf(
			"no room for %d mines outside the starting area", params.MineCount,
		)
	}

	/*
	 * Now pick n off the list at random.
	 */
	k := len(candidates)
	for range params.MineCount {
		i := r.IntN(k)
		cells[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return &Board{params: params, grid: cells}, nil
}

/*
Restore rebuilds a board from a known placement, typically one recorded
by [Board.Mines]. The placement must match the params exactly; the
starting-area exclusion is not re-checked, hand-made placements are
allowed.
*/
func Restore(params GameParams, mineCells []grid.Cell) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	bounds := params.Bounds()
	cells := make([]bool, bounds.CellCount())
	placed := 0
	for _, c := range mineCells {
		if !bounds.Contains(c) {
			return nil, fmt.Errorf("mine cell %s is out of bounds", c)
		}
		if i := bounds.Index(c); !cells[i] {
			cells[i] = true
			placed++
		}
	}
	if placed != params.MineCount {
		return nil, fmt.Errorf(
			"placement has %d mines, params call for %d",
			placed, params.MineCount,
		)
	}
	return &Board{params: params, grid: cells}, nil
}

func (b *Board) Params() GameParams { return b.params }

func (b *Board) Bounds() grid.Bounds { return b.params.Bounds() }

func (b *Board) MineCount() int { return b.params.MineCount }

func (b *Board) IsMine(c grid.Cell) bool {
	return b.grid[b.Bounds().Index(c)]
}

/*
AdjacentMines counts the mines in the 8-neighborhood of c. The count is
only meaningful for non-mine cells; minesweeper never shows a number
under a mine.
*/
func (b *Board) AdjacentMines(c grid.Cell) int {
	n := 0
	for _, nb := range b.Bounds().Neighbors(c) {
		if b.IsMine(nb) {
			n++
		}
	}
	return n
}

// Mines returns the mine cells in row-major order.
func (b *Board) Mines() []grid.Cell {
	cells := make([]grid.Cell, 0, b.params.MineCount)
	for i, mine := range b.grid {
		if mine {
			cells = append(cells, b.Bounds().CellAt(i))
		}
	}
	return cells
}

// Won reports whether revealed covers every non-mine cell of the board.
func (b *Board) Won(revealed []grid.Cell) bool {
	open := make(map[grid.Cell]bool, len(revealed))
	for _, c := range revealed {
		open[c] = true
	}
	for i, mine := range b.grid {
		if !mine && !open[b.Bounds().CellAt(i)] {
			return false
		}
	}
	return true
}

// Board implements [fmt.Stringer]
func (b *Board) String() string {
	var sb strings.Builder
	for row := range b.params.Height {
		for col := range b.params.Width {
			if b.IsMine(grid.Cell{Row: row, Col: col}) {
				sb.WriteString("* ")
			} else {
				sb.WriteString("- ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func absDiff(x, y int) int {
	if x > y {
		return x - y
	}
	return y - x
}
