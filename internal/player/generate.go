package player

import (
	"fmt"
	"math/rand/v2"

	"github.com/vancomm/minesweeper-ai/internal/grid"
	"github.com/vancomm/minesweeper-ai/internal/mines"
)

const generateAttempts = 1000

/*
GenerateSolvable places mines until the placement can be cleared from
start by deduction alone. Each attempt is played out with the assist
enabled; a single guess disqualifies the placement. When params.Unique
is false the first placement wins.
*/
func GenerateSolvable(params mines.GameParams, start grid.Cell, r *rand.Rand) (*mines.Board, error) {
	for attempt := 1; attempt <= generateAttempts; attempt++ {
		board, err := mines.NewBoard(params, start, r)
		if err != nil {
			return nil, err
		}
		if !params.Unique {
			return board, nil
		}
		won, err := solvable(board, start, r)
		if err != nil {
			return nil, err
		}
		if won {
			if attempt > 1 {
				Log.WithField("attempts", attempt).Debug("generated a solvable placement")
			}
			return board, nil
		}
	}
	return nil, fmt.Errorf(
		"could not generate a solvable placement in %d attempts", generateAttempts,
	)
}

func solvable(board *mines.Board, start grid.Cell, r *rand.Rand) (bool, error) {
	p := New(board, start, r, true)
	for p.Status() == Playing {
		move, err := p.Step()
		if err != nil {
			return false, err
		}
		if move.Strategy == Guess {
			return false, nil
		}
	}
	return p.Status() == Won, nil
}
