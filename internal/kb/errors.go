package kb

import (
	"errors"
	"strings"

	"github.com/vancomm/minesweeper-ai/internal/grid"
)

var (
	// ErrOutOfBounds rejects cells addressed outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrObserved rejects a repeated observation of the same cell.
	ErrObserved = errors.New("cell already observed")
)

/*
A ContradictionError reports sentences that admit no mine placement at
all. It means some observation fed to the knowledge base was false; the
knowledge base that produced it refuses further updates.
*/
type ContradictionError []Sentence

// ContradictionError implements [error]
func (e ContradictionError) Error() string {
	const msg = "contradictory knowledge"
	if len(e) == 0 {
		return msg
	}
	parts := make([]string, len(e))
	for i, s := range e {
		parts[i] = s.String()
	}
	return msg + ": " + strings.Join(parts, "; ")
}

// factSentence casts an established per-cell fact as a one-cell sentence
// for error reporting.
func factSentence(c grid.Cell, mine bool) Sentence {
	count := 0
	if mine {
		count = 1
	}
	return Sentence{cells: NewSet(c), count: count}
}
