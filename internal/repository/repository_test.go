package repository

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/vancomm/minesweeper-ai/internal/grid"
	"github.com/vancomm/minesweeper-ai/internal/mines"
	"github.com/vancomm/minesweeper-ai/internal/player"
)

func TestHighscoreFilterWhereClause(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		clause, args := HighscoreFilter{}.WhereClause()
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("username only", func(t *testing.T) {
		username := "alice"
		clause, args := HighscoreFilter{Username: &username}.WhereClause()
		assert.Equal(t, "username = @username", clause)
		assert.Equal(t, pgx.NamedArgs{"username": "alice"}, args)
	})

	t.Run("full", func(t *testing.T) {
		username := "alice"
		assist := true
		params := mines.GameParams{Width: 9, Height: 9, MineCount: 10, Unique: true}
		clause, args := HighscoreFilter{
			Username:   &username,
			GameParams: &params,
			Assist:     &assist,
		}.WhereClause()

		assert.Contains(t, clause, "username = @username")
		assert.Contains(t, clause, "width = @width")
		assert.Contains(t, clause, `"unique" = @unique`)
		assert.Contains(t, clause, "assist = @assist")
		assert.Equal(t, pgx.NamedArgs{
			"username":  "alice",
			"width":     9,
			"height":    9,
			"mineCount": 10,
			"unique":    true,
			"assist":    true,
		}, args)
	})
}

func TestUpdateSolverRunSetClause(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		clause, args := UpdateSolverRunParams{}.SetClause()
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("partial", func(t *testing.T) {
		status := "won"
		endedAt := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
		clause, args := UpdateSolverRunParams{
			Status:  &status,
			EndedAt: &endedAt,
		}.SetClause()

		assert.Equal(t, "status = @status, ended_at = @ended_at", clause)
		assert.Equal(t, map[string]any{
			"status":   "won",
			"ended_at": endedAt,
		}, args)
	})
}

func TestCountGuesses(t *testing.T) {
	state := &player.GameState{
		Moves: []player.Move{
			{Cell: grid.Cell{Row: 0, Col: 0}, Strategy: player.Safe},
			{Cell: grid.Cell{Row: 0, Col: 1}, Strategy: player.Guess},
			{Cell: grid.Cell{Row: 0, Col: 2}, Strategy: player.Assisted},
			{Cell: grid.Cell{Row: 0, Col: 3}, Strategy: player.Guess},
		},
	}
	assert.Equal(t, 2, countGuesses(state))
}

func TestCreateSolverRunParamsUpdateArgs(t *testing.T) {
	args := pgx.NamedArgs{"width": 9}

	CreateSolverRunParams{}.UpdateArgs(&args)
	assert.NotContains(t, args, "player_id")

	playerId := int64(7)
	CreateSolverRunParams{PlayerId: &playerId}.UpdateArgs(&args)
	assert.Equal(t, int64(7), args["player_id"])
}
