package handlers

import (
	"fmt"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-ai/internal/grid"
	"github.com/vancomm/minesweeper-ai/internal/mines"
	"github.com/vancomm/minesweeper-ai/internal/player"
	"github.com/vancomm/minesweeper-ai/internal/repository"
)

type CreateRunDTO struct {
	Width     int     `schema:"width,required"`
	Height    int     `schema:"height,required"`
	MineCount int     `schema:"mine_count,required"`
	Unique    bool    `schema:"unique"`
	Assist    bool    `schema:"assist"`
	Seed      *uint64 `schema:"seed"`
	StartRow  *int    `schema:"start_row"`
	StartCol  *int    `schema:"start_col"`
}

func ParseCreateRunDTO(src map[string][]string) (CreateRunDTO, error) {
	var dto CreateRunDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto CreateRunDTO) GameParams() mines.GameParams {
	return mines.GameParams{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
		Unique:    dto.Unique,
	}
}

// Start defaults to the grid center when the query names no cell.
func (dto CreateRunDTO) Start(params mines.GameParams) (grid.Cell, error) {
	start := grid.Cell{Row: params.Height / 2, Col: params.Width / 2}
	if dto.StartRow != nil {
		start.Row = *dto.StartRow
	}
	if dto.StartCol != nil {
		start.Col = *dto.StartCol
	}
	if !params.Bounds().Contains(start) {
		return grid.Cell{}, fmt.Errorf("start cell %s is out of bounds", start)
	}
	return start, nil
}

type MoveDTO struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Strategy string `json:"strategy"`
	Count    *int   `json:"count,omitempty"`
	Mine     bool   `json:"mine"`
}

func NewMoveDTO(m player.Move) *MoveDTO {
	dto := &MoveDTO{
		Row:      m.Cell.Row,
		Col:      m.Cell.Col,
		Strategy: m.Strategy.String(),
		Mine:     m.Mine,
	}
	if !m.Mine {
		count := m.Count
		dto.Count = &count
	}
	return dto
}

type SolverRunDTO struct {
	SolverRunId string      `json:"solver_run_id"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	MineCount   int         `json:"mine_count"`
	Unique      bool        `json:"unique"`
	Assist      bool        `json:"assist"`
	Status      string      `json:"status"`
	MoveCount   int         `json:"move_count"`
	GuessCount  int         `json:"guess_count"`
	Grid        player.View `json:"grid"`
	StartedAt   int64       `json:"started_at"`
	EndedAt     *int64      `json:"ended_at,omitempty"`
}

/*
NewSolverRunDTO reads live values from the restored driver and takes
only identity and timestamps from the row, so a frame built mid-stream
never lags behind the moves already played.
*/
func NewSolverRunDTO(run *repository.SolverRun, p *player.Player) *SolverRunDTO {
	params := p.Board().Params()

	guesses := 0
	moves := p.Moves()
	for _, m := range moves {
		if m.Strategy == player.Guess {
			guesses++
		}
	}

	var endedAt *int64
	if run.EndedAt.Valid {
		e := run.EndedAt.Time.UnixMilli()
		endedAt = &e
	}

	return &SolverRunDTO{
		SolverRunId: strconv.FormatInt(run.SolverRunId, 10),
		Width:       params.Width,
		Height:      params.Height,
		MineCount:   params.MineCount,
		Unique:      params.Unique,
		Assist:      p.Assist(),
		Status:      p.Status().String(),
		MoveCount:   len(moves),
		GuessCount:  guesses,
		Grid:        p.View(),
		StartedAt:   run.StartedAt.Time.UnixMilli(),
		EndedAt:     endedAt,
	}
}

type StepDTO struct {
	Move *MoveDTO      `json:"move"`
	Run  *SolverRunDTO `json:"run"`
}

type SolveDTO struct {
	Moves []*MoveDTO    `json:"moves"`
	Run   *SolverRunDTO `json:"run"`
}

type HighscoresDTO struct {
	Username *string `schema:"username"`
	Seed     *string `schema:"seed"`
	Assist   *bool   `schema:"assist"`
}

func ParseHighscoresDTO(src map[string][]string) (HighscoresDTO, error) {
	var dto HighscoresDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto HighscoresDTO) Filter() (repository.HighscoreFilter, error) {
	filter := repository.HighscoreFilter{
		Username: dto.Username,
		Assist:   dto.Assist,
	}
	if dto.Seed != nil {
		params, err := mines.ParseSeed(*dto.Seed)
		if err != nil {
			return filter, err
		}
		filter.GameParams = params
	}
	return filter, nil
}
