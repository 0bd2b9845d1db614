package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-ai/internal/player"
)

type SolverRun struct {
	SolverRunId int64
	PlayerId    *int64
	Width       int
	Height      int
	MineCount   int
	Unique      bool
	Assist      bool
	Status      string
	MoveCount   int
	GuessCount  int
	StartedAt   pgtype.Timestamptz
	EndedAt     pgtype.Timestamptz
	State       []byte
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func countGuesses(state *player.GameState) int {
	guesses := 0
	for _, m := range state.Moves {
		if m.Strategy == player.Guess {
			guesses++
		}
	}
	return guesses
}

type CreateSolverRunParams struct {
	PlayerId *int64
}

func (p CreateSolverRunParams) UpdateArgs(args *pgx.NamedArgs) *pgx.NamedArgs {
	if p.PlayerId != nil {
		(*args)["player_id"] = *p.PlayerId
	}
	return args
}

func (q Queries) CreateSolverRun(
	ctx context.Context, state *player.GameState, params CreateSolverRunParams,
) (*SolverRun, error) {
	b, err := state.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"width":       state.Params.Width,
		"height":      state.Params.Height,
		"mine_count":  state.Params.MineCount,
		"unique":      state.Params.Unique,
		"assist":      state.Assist,
		"status":      state.Status.String(),
		"move_count":  len(state.Moves),
		"guess_count": countGuesses(state),
		"state":       b,
	}
	params.UpdateArgs(&args)

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO solver_run (
			player_id, width, height, mine_count, "unique", assist,
			status, move_count, guess_count, state
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @unique, @assist,
			@status, @move_count, @guess_count, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[SolverRun],
	)
}

func (q Queries) FetchSolverRun(ctx context.Context, solverRunId int64) (*SolverRun, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM solver_run WHERE solver_run_id = $1",
		solverRunId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolverRun])
}

type UpdateSolverRunParams struct {
	Status     *string
	MoveCount  *int
	GuessCount *int
	EndedAt    *time.Time
	State      *[]byte
}

func (p UpdateSolverRunParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = *p.Status
	}
	if p.MoveCount != nil {
		parts = append(parts, "move_count = @move_count")
		args["move_count"] = *p.MoveCount
	}
	if p.GuessCount != nil {
		parts = append(parts, "guess_count = @guess_count")
		args["guess_count"] = *p.GuessCount
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateSolverRun(
	ctx context.Context, solverRunId int64, params UpdateSolverRunParams,
) (*SolverRun, error) {
	setClause, args := params.SetClause()
	args["solver_run_id"] = solverRunId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE solver_run SET "+setClause+" WHERE solver_run_id = @solver_run_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolverRun])
}

/*
SaveSolverRun records the transcript after the driver advanced it. Every
derived column is recomputed from the state so they can never drift from
the gob blob.
*/
func (q Queries) SaveSolverRun(
	ctx context.Context, solverRunId int64, state *player.GameState, endedAt *time.Time,
) (*SolverRun, error) {
	b, err := state.Bytes()
	if err != nil {
		return nil, err
	}
	status := state.Status.String()
	moveCount := len(state.Moves)
	guessCount := countGuesses(state)
	return q.UpdateSolverRun(ctx, solverRunId, UpdateSolverRunParams{
		Status:     &status,
		MoveCount:  &moveCount,
		GuessCount: &guessCount,
		EndedAt:    endedAt,
		State:      &b,
	})
}
