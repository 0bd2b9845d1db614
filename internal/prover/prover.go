package prover

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/vancomm/minesweeper-ai/internal/grid"
	"github.com/vancomm/minesweeper-ai/internal/kb"
)

// NotSatisfiable is an error composed of a minimal set of sentences
// sufficient to make the sentence system impossible to satisfy.
type NotSatisfiable []kb.Sentence

func (e NotSatisfiable) Error() string {
	const msg = "sentences not satisfiable"
	if len(e) == 0 {
		return msg
	}
	s := make([]string, len(e))
	for i, st := range e {
		s[i] = st.String()
	}
	return fmt.Sprintf("%s: %s", msg, strings.Join(s, ", "))
}

// Facts lists the cells whose status is the same in every mine
// placement that satisfies the analyzed sentences.
type Facts struct {
	Safes []grid.Cell
	Mines []grid.Cell
}

func (f Facts) Empty() bool {
	return len(f.Safes) == 0 && len(f.Mines) == 0
}

const (
	satisfiable   = 1
	unsatisfiable = -1
)

/*
Analyze classifies every cell of the universe as certainly safe,
certainly a mine, or undetermined under the given sentences. The
universe must cover every cell any sentence mentions. A non-negative
mineBudget adds the constraint that exactly that many mines remain in
the whole universe, which lets the analysis decide cells no sentence
mentions; pass a negative budget when the remaining mine count is
unknown.

Analyze is exhaustive where [kb.Knowledge] is incremental: a cell is
certainly safe when assuming a mine there makes the system
unsatisfiable, and certainly a mine when assuming it clear does, at
the price of two SAT calls per cell.
*/
func Analyze(universe []grid.Cell, sentences []kb.Sentence, mineBudget int) (Facts, error) {
	cells := slices.Clone(universe)
	slices.SortFunc(cells, grid.Compare)
	cells = slices.Compact(cells)
	if len(cells) == 0 {
		return Facts{}, nil
	}

	d := newMapping(cells)
	for _, st := range sentences {
		d.anchor(st)
	}
	if mineBudget >= 0 {
		budget, err := kb.NewSentence(kb.NewSet(cells...), mineBudget)
		if err != nil {
			return Facts{}, err
		}
		d.anchor(budget)
	}
	if err := d.err(); err != nil {
		return Facts{}, err
	}

	g := gini.New()
	d.c.ToCnf(g)

	d.assume(g)
	if g.Solve() == unsatisfiable {
		return Facts{}, d.conflicts(g)
	}

	var facts Facts
	for _, cell := range cells {
		m := d.lits[cell]

		d.assume(g)
		g.Assume(m)
		if g.Solve() == unsatisfiable {
			facts.Safes = append(facts.Safes, cell)
			continue
		}

		d.assume(g)
		g.Assume(m.Not())
		if g.Solve() == unsatisfiable {
			facts.Mines = append(facts.Mines, cell)
		}
	}
	return facts, nil
}

// mapping translates cells and sentences into literals of the
// underlying SAT formula.
type mapping struct {
	c       *logic.C
	lits    map[grid.Cell]z.Lit
	anchors []z.Lit
	reasons map[z.Lit]kb.Sentence
	errs    []error
}

func newMapping(cells []grid.Cell) *mapping {
	d := &mapping{
		c:       logic.NewCCap(4 * len(cells)),
		lits:    make(map[grid.Cell]z.Lit, len(cells)),
		reasons: make(map[z.Lit]kb.Sentence),
	}
	for _, cell := range cells {
		d.lits[cell] = d.c.Lit()
	}
	return d
}

func (d *mapping) litOf(cell grid.Cell) z.Lit {
	if m, ok := d.lits[cell]; ok {
		return m
	}
	d.errs = append(d.errs, fmt.Errorf(
		"sentence references cell %s outside the universe", cell,
	))
	return z.LitNull
}

/*
anchor encodes the sentence as an exact cardinality constraint over its
cells, guarded behind an anchor literal. Anchors are assumed rather
than asserted: an UNSAT result then names the failed anchors, which map
back to the sentences of the unsatisfiable core.
*/
func (d *mapping) anchor(st kb.Sentence) {
	ms := make([]z.Lit, 0, st.Len())
	for _, cell := range st.Cells().Slice() {
		m := d.litOf(cell)
		if m == z.LitNull {
			return
		}
		ms = append(ms, m)
	}
	cs := d.c.CardSort(ms)
	m := d.c.And(cs.Leq(st.Count()), cs.Geq(st.Count()))
	d.anchors = append(d.anchors, m)
	d.reasons[m] = st
}

func (d *mapping) assume(g *gini.Gini) {
	g.Assume(d.anchors...)
}

func (d *mapping) conflicts(g *gini.Gini) NotSatisfiable {
	whys := g.Why(nil)
	core := make(NotSatisfiable, 0, len(whys))
	for _, why := range whys {
		if st, ok := d.reasons[why]; ok {
			core = append(core, st)
		}
	}
	return core
}

func (d *mapping) err() error {
	if len(d.errs) == 0 {
		return nil
	}
	s := make([]string, len(d.errs))
	for i, err := range d.errs {
		s[i] = err.Error()
	}
	return fmt.Errorf("%d errors encountered: %s", len(s), strings.Join(s, ", "))
}
