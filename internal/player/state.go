package player

import (
	"bytes"
	"encoding/gob"
	"math/rand/v2"
	"slices"

	"github.com/vancomm/minesweeper-ai/internal/grid"
	"github.com/vancomm/minesweeper-ai/internal/kb"
	"github.com/vancomm/minesweeper-ai/internal/mines"
)

/*
GameState is the persistable snapshot of a game: the placement, the
move transcript, and whatever the assist passes declared. The knowledge
base itself is not stored; Restore replays the transcript into a fresh
one and arrives at the same fixpoint.
*/
type GameState struct {
	Params        mines.GameParams
	Start         grid.Cell
	Mines         []grid.Cell
	Assist        bool
	Moves         []Move
	DeclaredSafes []grid.Cell
	DeclaredMines []grid.Cell
	Status        Status
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var state GameState
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (g GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(g)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Player) State() *GameState {
	return &GameState{
		Params:        p.board.Params(),
		Start:         p.start,
		Mines:         p.board.Mines(),
		Assist:        p.assist,
		Moves:         slices.Clone(p.moves),
		DeclaredSafes: slices.Clone(p.declSafes),
		DeclaredMines: slices.Clone(p.declMines),
		Status:        p.status,
	}
}

/*
Restore rebuilds a player from a snapshot. Observations are replayed
first and declarations after; the order within each group does not
matter, the fixpoint from the same facts is the same.
*/
func Restore(state *GameState, r *rand.Rand) (*Player, error) {
	board, err := mines.Restore(state.Params, state.Mines)
	if err != nil {
		return nil, err
	}
	p := &Player{
		board:     board,
		know:      kb.NewKnowledge(board.Bounds(), r),
		assist:    state.Assist,
		start:     state.Start,
		moves:     slices.Clone(state.Moves),
		declSafes: slices.Clone(state.DeclaredSafes),
		declMines: slices.Clone(state.DeclaredMines),
		status:    state.Status,
	}
	for _, mv := range state.Moves {
		if mv.Mine {
			continue
		}
		if err := p.know.Observe(mv.Cell, mv.Count); err != nil {
			return nil, err
		}
	}
	for _, c := range state.DeclaredMines {
		if err := p.know.DeclareMine(c); err != nil {
			return nil, err
		}
	}
	for _, c := range state.DeclaredSafes {
		if err := p.know.DeclareSafe(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}
