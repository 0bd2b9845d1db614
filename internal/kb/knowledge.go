package kb

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

var Log = logrus.New()

/*
Knowledge accumulates everything deducible from a sequence of
minesweeper observations: which cells are certainly safe, which are
certainly mines, and a list of sentences about the cells still in
doubt. A single Knowledge serves a single game and is discarded when
the game ends.

Facts only ever grow. Feeding the knowledge base an observation that
cannot be reconciled with them yields a [ContradictionError], after
which every update returns that same error.
*/
type Knowledge struct {
	bounds grid.Bounds
	rnd    *rand.Rand

	moves     Set // handed out as moves and/or observed
	observed  Set // observation recorded
	safes     Set
	mines     Set
	sentences []*Sentence

	failure error
}

// NewKnowledge returns an empty knowledge base for a grid of the given
// bounds. Move selection draws from rnd.
func NewKnowledge(bounds grid.Bounds, rnd *rand.Rand) *Knowledge {
	return &Knowledge{
		bounds:   bounds,
		rnd:      rnd,
		moves:    make(Set),
		observed: make(Set),
		safes:    make(Set),
		mines:    make(Set),
	}
}

func (k *Knowledge) Bounds() grid.Bounds { return k.bounds }

// Moves returns the cells handed out as moves or observed, in row-major
// order.
func (k *Knowledge) Moves() []grid.Cell { return k.moves.Slice() }

// Safes returns the cells proven safe, in row-major order.
func (k *Knowledge) Safes() []grid.Cell { return k.safes.Slice() }

// Mines returns the cells proven to be mines, in row-major order.
func (k *Knowledge) Mines() []grid.Cell { return k.mines.Slice() }

func (k *Knowledge) SafeAt(c grid.Cell) bool { return k.safes.Has(c) }
func (k *Knowledge) MineAt(c grid.Cell) bool { return k.mines.Has(c) }

// Sentences returns copies of the sentences about cells still in doubt.
func (k *Knowledge) Sentences() []Sentence {
	out := make([]Sentence, len(k.sentences))
	for i, st := range k.sentences {
		out[i] = st.copy()
	}
	return out
}

// Err returns the contradiction that stopped the knowledge base, if any.
func (k *Knowledge) Err() error { return k.failure }

func (k *Knowledge) fail(err error) error {
	k.failure = err
	Log.WithError(err).Error("knowledge base contradicted")
	return err
}

// A fact is a single proven cell status on its way into the fact sets,
// together with the sentence that proved it when there is one.
type fact struct {
	cell grid.Cell
	mine bool
	why  Sentence
}

// contradiction builds the error for a cell proven both safe and mine.
func (f fact) contradiction() ContradictionError {
	err := ContradictionError{
		factSentence(f.cell, false),
		factSentence(f.cell, true),
	}
	if f.why.cells != nil {
		err = append(err, f.why)
	}
	return err
}

/*
Observe records that the given cell was opened and had count mines among
its in-bounds neighbors, then drives every consequence to a fixpoint:
the cell is declared safe, a sentence about its still-undetermined
neighbors is added, sentences that the new knowledge resolves surrender
their cells as further facts, and the subset rule derives new sentences
until nothing more follows.

A cell outside the grid or observed before is rejected with
[ErrOutOfBounds] or [ErrObserved] and no state change. An observation
that cannot be reconciled with the accumulated facts returns a
[ContradictionError].
*/
func (k *Knowledge) Observe(cell grid.Cell, count int) error {
	if k.failure != nil {
		return k.failure
	}
	if !k.bounds.Contains(cell) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, cell)
	}
	if k.observed.Has(cell) {
		return fmt.Errorf("%w: %s", ErrObserved, cell)
	}

	k.moves.Add(cell)
	k.observed.Add(cell)

	var todo deque.Deque[fact]
	todo.PushBack(fact{cell: cell, mine: false})
	if err := k.settle(&todo); err != nil {
		return k.fail(err)
	}

	/*
	 * Build the sentence cell set from the neighbors whose status is
	 * still open. A neighbor already known to be a mine is accounted
	 * for by decrementing the count instead.
	 */
	cells := make(Set)
	n := count
	for _, nb := range k.bounds.Neighbors(cell) {
		switch {
		case k.mines.Has(nb):
			n--
		case k.safes.Has(nb):
		default:
			cells.Add(nb)
		}
	}
	if n < 0 || n > len(cells) {
		return k.fail(ContradictionError{{cells: cells, count: n}})
	}

	if len(cells) > 0 {
		if err := k.addObservation(Sentence{cells: cells, count: n}, &todo); err != nil {
			return k.fail(err)
		}
		if err := k.settle(&todo); err != nil {
			return k.fail(err)
		}
	}

	if err := k.infer(&todo); err != nil {
		return k.fail(err)
	}
	return nil
}

// DeclareSafe adds the fact that cell is not a mine and settles its
// consequences. Declaring an already proven cell is a no-op.
func (k *Knowledge) DeclareSafe(cell grid.Cell) error {
	return k.declare(cell, false)
}

// DeclareMine adds the fact that cell is a mine and settles its
// consequences. Declaring an already proven cell is a no-op.
func (k *Knowledge) DeclareMine(cell grid.Cell) error {
	return k.declare(cell, true)
}

func (k *Knowledge) declare(cell grid.Cell, mine bool) error {
	if k.failure != nil {
		return k.failure
	}
	if !k.bounds.Contains(cell) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, cell)
	}
	var todo deque.Deque[fact]
	todo.PushBack(fact{cell: cell, mine: mine})
	if err := k.settle(&todo); err != nil {
		return k.fail(err)
	}
	return nil
}

/*
SafeMove hands out a uniformly chosen cell that is proven safe and has
not been played yet, and records it as played. Reports false when no
such cell exists, leaving the knowledge untouched.
*/
func (k *Knowledge) SafeMove() (grid.Cell, bool) {
	if k.failure != nil {
		return grid.Cell{}, false
	}
	candidates := make([]grid.Cell, 0, len(k.safes))
	for c := range k.safes {
		if !k.moves.Has(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return grid.Cell{}, false
	}
	slices.SortFunc(candidates, grid.Compare)
	move := candidates[k.rnd.IntN(len(candidates))]
	k.moves.Add(move)
	return move, true
}

/*
RandomMove hands out a uniformly chosen cell that has not been played
and is not a known mine. The choice is not recorded: the caller either
observes the cell or the game is over. Reports false once every cell is
played or known to hold a mine.
*/
func (k *Knowledge) RandomMove() (grid.Cell, bool) {
	if k.failure != nil {
		return grid.Cell{}, false
	}
	candidates := make([]grid.Cell, 0, k.bounds.CellCount()-len(k.moves)-len(k.mines))
	for i := range k.bounds.CellCount() {
		c := k.bounds.CellAt(i)
		if !k.moves.Has(c) && !k.mines.Has(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return grid.Cell{}, false
	}
	return candidates[k.rnd.IntN(len(candidates))], true
}

/*
settle drives queued facts to a fixpoint. Each fact lands in the safe or
mine set, specializes every sentence that mentions its cell, and any
sentence thereby decided one way surrenders its cells as further facts.
Sentences reduced to nothing are dropped. The sentence list is rebuilt
on every pass rather than edited in place.
*/
func (k *Knowledge) settle(todo *deque.Deque[fact]) error {
	for todo.Len() > 0 {
		f := todo.PopFront()

		if f.mine {
			if k.safes.Has(f.cell) {
				return f.contradiction()
			}
			if k.mines.Has(f.cell) {
				continue
			}
			k.mines.Add(f.cell)
		} else {
			if k.mines.Has(f.cell) {
				return f.contradiction()
			}
			if k.safes.Has(f.cell) {
				continue
			}
			k.safes.Add(f.cell)
		}

		kept := make([]*Sentence, 0, len(k.sentences))
		for _, st := range k.sentences {
			if st.cells.Has(f.cell) {
				if f.mine {
					st.MarkMine(f.cell)
				} else {
					st.MarkSafe(f.cell)
				}
				if st.count < 0 || st.count > len(st.cells) {
					return ContradictionError{st.copy(), factSentence(f.cell, f.mine)}
				}
				if resolve(st, todo) {
					continue
				}
			}

			/*
			 * Specialization can shrink two sentences into the same cell
			 * set: with equal counts one is a duplicate, with different
			 * counts they cannot both hold.
			 */
			dup := false
			for _, ex := range kept {
				if !ex.cells.Equal(st.cells) {
					continue
				}
				if ex.count != st.count {
					return ContradictionError{ex.copy(), st.copy()}
				}
				dup = true
				break
			}
			if !dup {
				kept = append(kept, st)
			}
		}
		k.sentences = kept
	}
	return nil
}

// resolve queues facts for a sentence that is decided one way. Reports
// false when the sentence still leaves room for doubt.
func resolve(st *Sentence, todo *deque.Deque[fact]) bool {
	if cells, ok := st.KnownMines(); ok {
		why := st.copy()
		for c := range cells {
			todo.PushBack(fact{cell: c, mine: true, why: why})
		}
		return true
	}
	if cells, ok := st.KnownSafes(); ok {
		why := st.copy()
		for c := range cells {
			todo.PushBack(fact{cell: c, mine: false, why: why})
		}
		return true
	}
	return false
}

// install stores a sentence, or converts it straight into facts when it
// is already decided one way.
func (k *Knowledge) install(st Sentence, todo *deque.Deque[fact]) {
	if resolve(&st, todo) {
		return
	}
	k.sentences = append(k.sentences, &st)
}

/*
addObservation installs the sentence built from a fresh observation. A
sentence over the same cells as a stored one must agree with it on the
count; when it does it is a duplicate and is dropped.
*/
func (k *Knowledge) addObservation(st Sentence, todo *deque.Deque[fact]) error {
	for _, ex := range k.sentences {
		if ex.cells.Equal(st.cells) {
			if ex.count != st.count {
				return ContradictionError{ex.copy(), st}
			}
			return nil
		}
	}
	k.install(st, todo)
	return nil
}

/*
infer runs the subset rule until a full pass derives nothing new:
whenever one sentence's cells form a proper subset of another's, the
cells unique to the larger sentence hold exactly the difference of the
counts. Every derivation is settled before the next pass, so each pass
works on the simplest form of the knowledge.
*/
func (k *Knowledge) infer(todo *deque.Deque[fact]) error {
	for {
		derived, err := k.deriveOne(todo)
		if err != nil {
			return err
		}
		if !derived {
			return nil
		}
		if err := k.settle(todo); err != nil {
			return err
		}
	}
}

/*
deriveOne scans sentence pairs for an application of the subset rule and
installs the first derivation whose cell set is not already covered by a
stored sentence. Reports whether anything was derived.
*/
func (k *Knowledge) deriveOne(todo *deque.Deque[fact]) (bool, error) {
	for _, a := range k.sentences {
		for _, b := range k.sentences {
			if a == b || len(a.cells) >= len(b.cells) {
				continue
			}
			if !a.cells.Subset(b.cells) {
				continue
			}
			diff := b.cells.Minus(a.cells)
			count := b.count - a.count
			if count < 0 || count > len(diff) {
				return false, ContradictionError{a.copy(), b.copy()}
			}
			if k.hasCellSet(diff) {
				continue
			}
			st := Sentence{cells: diff, count: count}
			Log.WithFields(logrus.Fields{
				"sentence": st.String(),
				"larger":   b.String(),
				"smaller":  a.String(),
			}).Debug("derived sentence")
			k.install(st, todo)
			return true, nil
		}
	}
	return false, nil
}

func (k *Knowledge) hasCellSet(cells Set) bool {
	for _, st := range k.sentences {
		if st.cells.Equal(cells) {
			return true
		}
	}
	return false
}
