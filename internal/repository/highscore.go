package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-ai/internal/mines"
)

type Highscore struct {
	SolverRunId string  `json:"solver_run_id"`
	Username    *string `json:"username"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	MineCount   int     `json:"mine_count"`
	Unique      bool    `json:"unique"`
	Assist      bool    `json:"assist"`
	MoveCount   int     `json:"move_count"`
	GuessCount  int     `json:"guess_count"`
	PlaytimeMs  float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username   *string
	GameParams *mines.GameParams
	Assist     *bool
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
			`"unique" = @unique`,
		)
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
		args["mineCount"] = f.GameParams.MineCount
		args["unique"] = f.GameParams.Unique
	}
	if f.Assist != nil {
		clauses = append(clauses, "assist = @assist")
		args["assist"] = *f.Assist
	}
	return strings.Join(clauses, " AND "), args
}

// GetHighscores ranks won runs by playtime, fewest guesses breaking
// ties. Anonymous runs rank with a NULL username.
func (q Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		solver_run_id::text AS solver_run_id,
		username,
		width,
		height,
		mine_count,
		"unique",
		assist,
		move_count,
		guess_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM solver_run
		LEFT OUTER JOIN player using (player_id)
	WHERE
		status = 'won'
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms, guess_count;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
