package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

func TestNewBoardPlacement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
		start  grid.Cell
	}{
		{
			name:   "9x9(10)",
			params: GameParams{Width: 9, Height: 9, MineCount: 10},
			start:  grid.Cell{Row: 4, Col: 4},
		},
		{
			name:   "16x16(40)",
			params: GameParams{Width: 16, Height: 16, MineCount: 40},
			start:  grid.Cell{Row: 0, Col: 0},
		},
		{
			name:   "30x16(99)",
			params: GameParams{Width: 30, Height: 16, MineCount: 99},
			start:  grid.Cell{Row: 15, Col: 29},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			board, err := NewBoard(test.params, test.start, r)
			require.NoError(t, err)

			assert.Len(t, board.Mines(), test.params.MineCount)
			for _, m := range board.Mines() {
				assert.True(
					t,
					absDiff(m.Row, test.start.Row) > 1 ||
						absDiff(m.Col, test.start.Col) > 1,
					"mine %s within one square of start %s", m, test.start,
				)
			}
			assert.False(t, board.IsMine(test.start))
			assert.Equal(t, 0, board.AdjacentMines(test.start))
		})
	}
}

func TestNewBoardRejectsBadParams(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))

	tests := []struct {
		name   string
		params GameParams
		start  grid.Cell
	}{
		{
			name:   "empty grid",
			params: GameParams{Width: 0, Height: 5, MineCount: 1},
		},
		{
			name:   "negative mines",
			params: GameParams{Width: 5, Height: 5, MineCount: -1},
		},
		{
			name:   "no safe cell left",
			params: GameParams{Width: 3, Height: 3, MineCount: 9},
		},
		{
			name:   "no room outside starting area",
			params: GameParams{Width: 3, Height: 3, MineCount: 5},
			start:  grid.Cell{Row: 1, Col: 1},
		},
		{
			name:   "start out of bounds",
			params: GameParams{Width: 3, Height: 3, MineCount: 1},
			start:  grid.Cell{Row: 3, Col: 3},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewBoard(test.params, test.start, r)
			assert.Error(t, err)
		})
	}
}

func TestAdjacentMines(t *testing.T) {
	t.Parallel()

	// hand-built 3x3 board with mines in the left column
	board := &Board{
		params: GameParams{Width: 3, Height: 3, MineCount: 3},
		grid: []bool{
			true, false, false,
			true, false, false,
			true, false, false,
		},
	}

	tests := []struct {
		cell grid.Cell
		want int
	}{
		{grid.Cell{Row: 0, Col: 1}, 2},
		{grid.Cell{Row: 1, Col: 1}, 3},
		{grid.Cell{Row: 2, Col: 1}, 2},
		{grid.Cell{Row: 0, Col: 2}, 0},
		{grid.Cell{Row: 1, Col: 2}, 0},
	}

	for _, test := range tests {
		assert.Equal(
			t, test.want, board.AdjacentMines(test.cell),
			"adjacent mines of %s", test.cell,
		)
	}
}

func TestWon(t *testing.T) {
	t.Parallel()

	board := &Board{
		params: GameParams{Width: 2, Height: 2, MineCount: 1},
		grid:   []bool{true, false, false, false},
	}

	assert.False(t, board.Won(nil))
	assert.False(t, board.Won([]grid.Cell{{Row: 0, Col: 1}}))
	assert.True(t, board.Won([]grid.Cell{
		{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	}))
	// revealing extra cells does not matter
	assert.True(t, board.Won([]grid.Cell{
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	}))
}

func TestSeedRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []GameParams{
		{Width: 9, Height: 9, MineCount: 10, Unique: true},
		{Width: 30, Height: 16, MineCount: 99, Unique: false},
	}

	for _, params := range tests {
		parsed, err := ParseSeed(params.Seed())
		require.NoError(t, err)
		assert.Equal(t, params, *parsed)
	}
}

func TestParseSeedRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, seed := range []string{"", "9:9:10", "a:b:c:d", "9-9-10-1"} {
		_, err := ParseSeed(seed)
		assert.Error(t, err, "seed %q", seed)
	}
}
