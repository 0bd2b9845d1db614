package kb

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func newTestKnowledge(width, height int) *Knowledge {
	return NewKnowledge(
		grid.Bounds{Width: width, Height: height},
		rand.New(rand.NewPCG(1, 2)),
	)
}

func assertSound(t *testing.T, k *Knowledge) {
	t.Helper()

	mines := NewSet(k.Mines()...)
	safes := NewSet(k.Safes()...)

	for c := range mines {
		assert.False(t, safes.Has(c), "cell %s proven both safe and mine", c)
	}
	for _, c := range k.Moves() {
		assert.True(t, safes.Has(c), "played cell %s is not proven safe", c)
	}
	for _, st := range k.Sentences() {
		assert.Greater(t, st.Len(), 0, "vacuous sentence %s kept", st)
		assert.GreaterOrEqual(t, st.Count(), 0, "malformed sentence %s kept", st)
		assert.LessOrEqual(t, st.Count(), st.Len(), "malformed sentence %s kept", st)
		for c := range st.Cells() {
			assert.False(
				t, mines.Has(c) || safes.Has(c),
				"sentence %s references decided cell %s", st, c,
			)
		}
	}
}

func TestObserveZeroCountDeclaresNeighborsSafe(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(2, 2), 0))

	assert.ElementsMatch(t, []grid.Cell{
		cell(1, 1), cell(1, 2), cell(2, 1), cell(2, 2),
	}, k.Safes())
	assert.Empty(t, k.Mines())
	assert.Empty(t, k.Sentences())
	assertSound(t, k)
}

func TestObserveFullCountDeclaresNeighborsMines(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(1, 1), 8))

	assert.Len(t, k.Mines(), 8)
	assert.NotContains(t, k.Mines(), cell(1, 1))
	assert.Equal(t, []grid.Cell{cell(1, 1)}, k.Safes())
	assert.Empty(t, k.Sentences())
	assertSound(t, k)
}

func TestObserveKeepsUndecidedSentence(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(0, 0), 1))

	sentences := k.Sentences()
	require.Len(t, sentences, 1)
	assert.Equal(t, 1, sentences[0].Count())
	assert.True(t, sentences[0].Cells().Equal(
		NewSet(cell(0, 1), cell(1, 0), cell(1, 1)),
	))
	assertSound(t, k)
}

func TestSubsetInference(t *testing.T) {
	t.Parallel()

	/*
	 * Observing 1 at 0:1 and then 1 at 1:1 leaves two sentences where
	 * the first's cells are a subset of the second's with equal counts,
	 * so every cell unique to the second sentence (the bottom row) is
	 * safe.
	 */
	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(0, 1), 1))
	require.NoError(t, k.Observe(cell(1, 1), 1))

	safes := NewSet(k.Safes()...)
	for _, c := range []grid.Cell{cell(2, 0), cell(2, 1), cell(2, 2)} {
		assert.True(t, safes.Has(c), "bottom row cell %s should be safe", c)
	}
	assert.Empty(t, k.Mines())

	sentences := k.Sentences()
	require.Len(t, sentences, 1)
	assert.True(t, sentences[0].Cells().Equal(
		NewSet(cell(0, 0), cell(0, 2), cell(1, 0), cell(1, 2)),
	))
	assert.Equal(t, 1, sentences[0].Count())
	assertSound(t, k)
}

func TestObserveCascadeResolvesRow(t *testing.T) {
	t.Parallel()

	/*
	 * 1x4 row with mines at both ends. Observing 0:1 leaves
	 * {0:0 0:2} = 1; observing 0:2 specializes it to {0:0} = 1 and adds
	 * {0:3} = 1, resolving the whole row without a guess.
	 */
	k := newTestKnowledge(4, 1)
	require.NoError(t, k.Observe(cell(0, 1), 1))
	require.NoError(t, k.Observe(cell(0, 2), 1))

	assert.Equal(t, []grid.Cell{cell(0, 0), cell(0, 3)}, k.Mines())
	assert.ElementsMatch(t, []grid.Cell{cell(0, 1), cell(0, 2)}, k.Safes())
	assert.Empty(t, k.Sentences())
	assertSound(t, k)
}

func TestDeclareMine(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(2, 2)
	require.NoError(t, k.DeclareMine(cell(0, 0)))
	assert.Equal(t, []grid.Cell{cell(0, 0)}, k.Mines())

	// declaring twice changes nothing
	require.NoError(t, k.DeclareMine(cell(0, 0)))
	assert.Equal(t, []grid.Cell{cell(0, 0)}, k.Mines())

	err := k.DeclareSafe(cell(0, 0))
	var cerr ContradictionError
	require.ErrorAs(t, err, &cerr)
}

func TestDeclareOutOfBounds(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(2, 2)
	assert.ErrorIs(t, k.DeclareMine(cell(5, 0)), ErrOutOfBounds)
	assert.ErrorIs(t, k.DeclareSafe(cell(-1, 0)), ErrOutOfBounds)
	assert.NoError(t, k.Err())
}

func TestDeclareMineCascades(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(0, 0), 1))
	require.Len(t, k.Sentences(), 1)

	// the sentence {0:1 1:0 1:1} = 1 collapses once one cell is a mine
	require.NoError(t, k.DeclareMine(cell(1, 1)))

	safes := NewSet(k.Safes()...)
	assert.True(t, safes.Has(cell(0, 1)))
	assert.True(t, safes.Has(cell(1, 0)))
	assert.Empty(t, k.Sentences())
	assertSound(t, k)
}

func TestSafeMoveDrawsFromUnplayedSafes(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(1, 1), 0))

	seen := make(Set)
	for range 8 {
		move, ok := k.SafeMove()
		require.True(t, ok)
		assert.True(t, k.SafeAt(move))
		assert.NotEqual(t, cell(1, 1), move, "observed cell handed out again")
		assert.False(t, seen.Has(move), "move %s handed out twice", move)
		seen.Add(move)
	}

	before := k.Safes()
	_, ok := k.SafeMove()
	assert.False(t, ok)
	assert.Equal(t, before, k.Safes())
	assert.Len(t, k.Moves(), 9)
}

func TestSafeMoveOnEmptyKnowledge(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	_, ok := k.SafeMove()
	assert.False(t, ok)
	assert.Empty(t, k.Moves())
	assert.Empty(t, k.Safes())
	assert.Empty(t, k.Mines())
}

func TestRandomMoveAvoidsKnown(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(2, 2)
	require.NoError(t, k.Observe(cell(0, 0), 3))
	// every other cell is now a mine

	_, ok := k.RandomMove()
	assert.False(t, ok)
}

func TestRandomMoveDoesNotRecord(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	move, ok := k.RandomMove()
	require.True(t, ok)
	assert.True(t, k.Bounds().Contains(move))
	assert.Empty(t, k.Moves())

	_, ok = k.RandomMove()
	assert.True(t, ok)
	assert.Empty(t, k.Moves())
}

func TestRandomMoveExhaustsOnlyWhenGridIsCovered(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(1, 1)
	move, ok := k.RandomMove()
	require.True(t, ok)
	assert.Equal(t, cell(0, 0), move)

	require.NoError(t, k.Observe(cell(0, 0), 0))
	_, ok = k.RandomMove()
	assert.False(t, ok)
}

func TestObserveOutOfBounds(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	err := k.Observe(cell(3, 0), 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Empty(t, k.Moves())
	assert.NoError(t, k.Err())

	// the knowledge base is still usable
	assert.NoError(t, k.Observe(cell(0, 0), 0))
}

func TestObserveTwice(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(0, 0), 1))

	err := k.Observe(cell(0, 0), 1)
	assert.ErrorIs(t, err, ErrObserved)
	assert.NoError(t, k.Err())
	assert.NoError(t, k.Observe(cell(2, 2), 0))
}

func TestObserveSafeMoveThenObserve(t *testing.T) {
	t.Parallel()

	// a cell handed out by SafeMove is played but not yet observed, so
	// observing it must succeed
	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(1, 1), 0))

	move, ok := k.SafeMove()
	require.True(t, ok)
	assert.NoError(t, k.Observe(move, 0))
}

func TestContradictoryCountsPoisonKnowledge(t *testing.T) {
	t.Parallel()

	/*
	 * On a 3x2 grid the neighbor sentences of 0:1 and 1:1 cover the
	 * same four cells once both centers are declared safe. Counts 1
	 * and 2 over the same cells cannot both hold.
	 */
	k := newTestKnowledge(3, 2)
	require.NoError(t, k.Observe(cell(0, 1), 1))

	err := k.Observe(cell(1, 1), 2)
	var cerr ContradictionError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr, 2)

	// the first failure is sticky
	assert.Equal(t, err, k.Err())
	assert.Equal(t, err, k.Observe(cell(0, 0), 0))
	assert.Equal(t, err, k.DeclareMine(cell(0, 0)))

	_, ok := k.SafeMove()
	assert.False(t, ok)
	_, ok = k.RandomMove()
	assert.False(t, ok)
}

func TestObserveCountOutOfRange(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	err := k.Observe(cell(0, 0), 5)
	var cerr ContradictionError
	require.ErrorAs(t, err, &cerr)
	assert.Error(t, k.Err())
}

func TestObserveKnownMine(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(2, 1)
	require.NoError(t, k.Observe(cell(0, 0), 1))
	require.Equal(t, []grid.Cell{cell(0, 1)}, k.Mines())

	err := k.Observe(cell(0, 1), 0)
	var cerr ContradictionError
	require.ErrorAs(t, err, &cerr)
}

func TestResettleIsIdempotent(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(0, 1), 1))
	require.NoError(t, k.Observe(cell(1, 1), 1))

	before := k.Sentences()
	require.NoError(t, k.DeclareSafe(cell(1, 1)))
	assert.Equal(t, before, k.Sentences())
}

func TestSentencesReturnsCopies(t *testing.T) {
	t.Parallel()

	k := newTestKnowledge(3, 3)
	require.NoError(t, k.Observe(cell(0, 0), 1))

	sentences := k.Sentences()
	require.Len(t, sentences, 1)
	for c := range sentences[0].Cells() {
		sentences[0].MarkSafe(c)
	}

	fresh := k.Sentences()
	require.Len(t, fresh, 1)
	assert.Equal(t, 3, fresh[0].Len())
}

type testField struct {
	bounds grid.Bounds
	mines  Set
}

func (f testField) adjacentMines(c grid.Cell) int {
	n := 0
	for _, nb := range f.bounds.Neighbors(c) {
		if f.mines.Has(nb) {
			n++
		}
	}
	return n
}

func TestDeductionsMatchField(t *testing.T) {
	t.Parallel()

	field := testField{
		bounds: grid.Bounds{Width: 4, Height: 4},
		mines:  NewSet(cell(0, 3), cell(2, 1), cell(3, 3)),
	}

	for seed := range uint64(10) {
		k := NewKnowledge(field.bounds, rand.New(rand.NewPCG(seed, 2)))

		var (
			prevSafes = 0
			prevMines = 0
			prevMoves = 0
		)

		for {
			move, ok := k.SafeMove()
			if ok {
				require.False(
					t, field.mines.Has(move),
					"seed %d: safe move %s is a mine", seed, move,
				)
			} else {
				move, ok = k.RandomMove()
				if !ok {
					break
				}
				if field.mines.Has(move) {
					break // bad luck, game over
				}
			}

			require.NoError(t, k.Observe(move, field.adjacentMines(move)))
			assertSound(t, k)

			for _, c := range k.Mines() {
				assert.True(t, field.mines.Has(c), "seed %d: %s declared a mine but is not", seed, c)
			}
			for _, c := range k.Safes() {
				assert.False(t, field.mines.Has(c), "seed %d: %s declared safe but is a mine", seed, c)
			}

			assert.GreaterOrEqual(t, len(k.Safes()), prevSafes)
			assert.GreaterOrEqual(t, len(k.Mines()), prevMines)
			assert.GreaterOrEqual(t, len(k.Moves()), prevMoves)
			prevSafes, prevMines, prevMoves = len(k.Safes()), len(k.Mines()), len(k.Moves())
		}
	}
}
