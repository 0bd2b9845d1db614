package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

func cell(row, col int) grid.Cell {
	return grid.Cell{Row: row, Col: col}
}

func TestNewSentence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cells   Set
		count   int
		wantErr bool
	}{
		{
			name:  "two of three",
			cells: NewSet(cell(0, 0), cell(0, 1), cell(0, 2)),
			count: 2,
		},
		{
			name:  "none of one",
			cells: NewSet(cell(1, 1)),
			count: 0,
		},
		{
			name:  "vacuous",
			cells: NewSet(),
			count: 0,
		},
		{
			name:    "negative count",
			cells:   NewSet(cell(0, 0)),
			count:   -1,
			wantErr: true,
		},
		{
			name:    "count exceeds cells",
			cells:   NewSet(cell(0, 0), cell(0, 1)),
			count:   3,
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewSentence(test.cells, test.count)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.count, s.Count())
			assert.True(t, s.Cells().Equal(test.cells))
		})
	}
}

func TestNewSentenceCopiesCells(t *testing.T) {
	t.Parallel()

	cells := NewSet(cell(0, 0), cell(0, 1))
	s, err := NewSentence(cells, 1)
	require.NoError(t, err)

	cells.Add(cell(5, 5))
	assert.Equal(t, 2, s.Len())
}

func TestKnownMines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cells Set
		count int
		known bool
	}{
		{
			name:  "count fills the set",
			cells: NewSet(cell(0, 0), cell(0, 1)),
			count: 2,
			known: true,
		},
		{
			name:  "single mine",
			cells: NewSet(cell(1, 2)),
			count: 1,
			known: true,
		},
		{
			name:  "count short of the set",
			cells: NewSet(cell(0, 0), cell(0, 1), cell(0, 2)),
			count: 2,
			known: false,
		},
		{
			name:  "vacuous proves nothing",
			cells: NewSet(),
			count: 0,
			known: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewSentence(test.cells, test.count)
			require.NoError(t, err)
			mines, ok := s.KnownMines()
			assert.Equal(t, test.known, ok)
			if test.known {
				assert.True(t, mines.Equal(test.cells))
			}
		})
	}
}

func TestKnownSafes(t *testing.T) {
	t.Parallel()

	s, err := NewSentence(NewSet(cell(0, 0), cell(0, 1)), 0)
	require.NoError(t, err)
	safes, ok := s.KnownSafes()
	assert.True(t, ok)
	assert.True(t, safes.Equal(NewSet(cell(0, 0), cell(0, 1))))

	s, err = NewSentence(NewSet(cell(0, 0), cell(0, 1)), 1)
	require.NoError(t, err)
	_, ok = s.KnownSafes()
	assert.False(t, ok)
}

func TestMarkMine(t *testing.T) {
	t.Parallel()

	s, err := NewSentence(NewSet(cell(0, 0), cell(0, 1), cell(1, 1)), 2)
	require.NoError(t, err)

	s.MarkMine(cell(0, 1))
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Cells().Equal(NewSet(cell(0, 0), cell(1, 1))))

	// not a member, nothing changes
	s.MarkMine(cell(5, 5))
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 2, s.Len())
}

func TestMarkSafe(t *testing.T) {
	t.Parallel()

	s, err := NewSentence(NewSet(cell(0, 0), cell(0, 1), cell(1, 1)), 2)
	require.NoError(t, err)

	s.MarkSafe(cell(0, 0))
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Cells().Equal(NewSet(cell(0, 1), cell(1, 1))))

	s.MarkSafe(cell(5, 5))
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 2, s.Len())
}

func TestSentenceEqual(t *testing.T) {
	t.Parallel()

	a, err := NewSentence(NewSet(cell(0, 0), cell(0, 1)), 1)
	require.NoError(t, err)
	b, err := NewSentence(NewSet(cell(0, 1), cell(0, 0)), 1)
	require.NoError(t, err)
	c, err := NewSentence(NewSet(cell(0, 0), cell(0, 1)), 2)
	require.NoError(t, err)
	d, err := NewSentence(NewSet(cell(0, 0), cell(1, 1)), 1)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}
