package player

import (
	"errors"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-ai/internal/grid"
	"github.com/vancomm/minesweeper-ai/internal/kb"
	"github.com/vancomm/minesweeper-ai/internal/mines"
	"github.com/vancomm/minesweeper-ai/internal/prover"
)

var Log = logrus.New()

// ErrDone is returned by Step once the game is decided.
var ErrDone = errors.New("the game is already decided")

type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "invalid"
}

// Strategy tells how a move was chosen.
type Strategy int

const (
	// Safe moves come out of the knowledge base's proven safes.
	Safe Strategy = iota
	// Assisted moves became provably safe only after a prover pass.
	Assisted
	// Guesses are uniform draws over the cells not known to be mines.
	Guess
)

func (s Strategy) String() string {
	switch s {
	case Safe:
		return "safe"
	case Assisted:
		return "assisted"
	case Guess:
		return "guess"
	}
	return "invalid"
}

type Move struct {
	Cell     grid.Cell
	Strategy Strategy
	Count    int // adjacent mines revealed by the move; meaningless when Mine
	Mine     bool
}

/*
A Player drives a game to its end: it reveals cells on the board, feeds
the revealed counts into a knowledge base, and picks the next move off
a ladder of strategies. A proven safe cell is always preferred; with
assist enabled an exhaustive prover pass runs next and may produce one;
only then does the player guess.
*/
type Player struct {
	board  *mines.Board
	know   *kb.Knowledge
	assist bool
	start  grid.Cell

	moves     []Move
	declSafes []grid.Cell
	declMines []grid.Cell
	status    Status
}

func New(board *mines.Board, start grid.Cell, r *rand.Rand, assist bool) *Player {
	return &Player{
		board:  board,
		know:   kb.NewKnowledge(board.Bounds(), r),
		assist: assist,
		start:  start,
	}
}

func (p *Player) Board() *mines.Board      { return p.board }
func (p *Player) Knowledge() *kb.Knowledge { return p.know }
func (p *Player) Start() grid.Cell         { return p.start }
func (p *Player) Assist() bool             { return p.assist }
func (p *Player) Status() Status           { return p.status }

// Moves returns a copy of the move transcript so far.
func (p *Player) Moves() []Move {
	moves := make([]Move, len(p.moves))
	copy(moves, p.moves)
	return moves
}

/*
Step makes one move. The first move is always the starting cell; after
that proven safes go first, then cells the prover vouches for, then a
guess. The revealed count is observed before Step returns, so the
knowledge base is at its fixpoint again.
*/
func (p *Player) Step() (Move, error) {
	if p.status != Playing {
		return Move{}, ErrDone
	}
	if len(p.moves) == 0 {
		return p.play(p.start, Safe)
	}
	if c, ok := p.know.SafeMove(); ok {
		return p.play(c, Safe)
	}
	if p.assist {
		if err := p.consult(); err != nil {
			return Move{}, err
		}
		if c, ok := p.know.SafeMove(); ok {
			return p.play(c, Assisted)
		}
	}
	if c, ok := p.know.RandomMove(); ok {
		return p.play(c, Guess)
	}
	return Move{}, errors.New("no cell left to play")
}

// Play steps until the game is decided.
func (p *Player) Play() (Status, error) {
	for p.status == Playing {
		if _, err := p.Step(); err != nil {
			return p.status, err
		}
	}
	return p.status, nil
}

func (p *Player) play(cell grid.Cell, strategy Strategy) (Move, error) {
	move := Move{Cell: cell, Strategy: strategy}
	if p.board.IsMine(cell) {
		move.Mine = true
		p.moves = append(p.moves, move)
		p.status = Lost
		Log.WithFields(logrus.Fields{
			"cell":     cell,
			"strategy": strategy,
		}).Debug("hit a mine")
		return move, nil
	}

	move.Count = p.board.AdjacentMines(cell)
	if err := p.know.Observe(cell, move.Count); err != nil {
		return Move{}, err
	}
	p.moves = append(p.moves, move)
	Log.WithFields(logrus.Fields{
		"cell":     cell,
		"strategy": strategy,
		"count":    move.Count,
	}).Debug("played move")

	if p.board.Won(p.revealed()) {
		p.status = Won
	}
	return move, nil
}

/*
consult runs the prover over the undetermined cells and declares its
verdicts. The remaining mine budget goes in as a constraint, so the
pass can decide cells no sentence mentions.
*/
func (p *Player) consult() error {
	universe := p.undetermined()
	if len(universe) == 0 {
		return nil
	}
	budget := p.board.MineCount() - len(p.know.Mines())
	facts, err := prover.Analyze(universe, p.know.Sentences(), budget)
	if err != nil {
		return err
	}
	for _, c := range facts.Mines {
		if err := p.know.DeclareMine(c); err != nil {
			return err
		}
		p.declMines = append(p.declMines, c)
	}
	for _, c := range facts.Safes {
		if err := p.know.DeclareSafe(c); err != nil {
			return err
		}
		p.declSafes = append(p.declSafes, c)
	}
	if !facts.Empty() {
		Log.WithFields(logrus.Fields{
			"safes": len(facts.Safes),
			"mines": len(facts.Mines),
		}).Debug("prover verdicts declared")
	}
	return nil
}

func (p *Player) undetermined() []grid.Cell {
	bounds := p.board.Bounds()
	var cells []grid.Cell
	for i := range bounds.CellCount() {
		c := bounds.CellAt(i)
		if !p.know.SafeAt(c) && !p.know.MineAt(c) {
			cells = append(cells, c)
		}
	}
	return cells
}

func (p *Player) revealed() []grid.Cell {
	cells := make([]grid.Cell, 0, len(p.moves))
	for _, m := range p.moves {
		if !m.Mine {
			cells = append(cells, m.Cell)
		}
	}
	return cells
}
