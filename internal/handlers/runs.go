package handlers

import (
	"context"
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-ai/internal/config"
	"github.com/vancomm/minesweeper-ai/internal/metrics"
	"github.com/vancomm/minesweeper-ai/internal/middleware"
	"github.com/vancomm/minesweeper-ai/internal/player"
	"github.com/vancomm/minesweeper-ai/internal/repository"
)

type Runs struct {
	log  *logrus.Logger
	repo *repository.Queries
	ws   *config.WebSocket
}

func NewRuns(log *logrus.Logger, db *pgxpool.Pool, ws *config.WebSocket) *Runs {
	return &Runs{
		log:  log,
		repo: repository.New(db),
		ws:   ws,
	}
}

// newRand seeds from maphash, giving every request its own source
// without the handlers sharing unsynchronized rand state.
func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func runRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	return newRand()
}

func (h Runs) Create(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseCreateRunDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	params := dto.GameParams()
	if err := params.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	start, err := dto.Start(params)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	rnd := runRand(dto.Seed)
	board, err := player.GenerateSolvable(params, start, rnd)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.log.WithError(err).WithField("params", params).Warn("unable to generate a board")
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	p := player.New(board, start, rnd, dto.Assist)

	createParams := repository.CreateSolverRunParams{}
	if claims, loggedIn := middleware.PlayerClaims(r.Context()); loggedIn {
		h.log.WithField("playerId", claims.PlayerId).Debug("creating player run")
		createParams.PlayerId = &claims.PlayerId
	} else {
		h.log.Debug("creating anonymous run")
	}

	run, err := h.repo.CreateSolverRun(r.Context(), p.State(), createParams)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to create solver run")
		return
	}

	metrics.ObserveRunStarted()

	sendJSONOrLog(w, h.log, NewSolverRunDTO(run, p))
}

func (h Runs) fetchRun(w http.ResponseWriter, r *http.Request) (*repository.SolverRun, bool) {
	solverRunId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	run, err := h.repo.FetchSolverRun(r.Context(), solverRunId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch run from db")
		return nil, false
	}
	return run, true
}

func (h Runs) restore(run *repository.SolverRun, rnd *rand.Rand) (*player.Player, error) {
	state, err := player.DecodeGameState(run.State)
	if err != nil {
		return nil, err
	}
	return player.Restore(state, rnd)
}

// save persists the advanced transcript, stamping ended_at the first
// time the run leaves the playing state.
func (h Runs) save(
	ctx context.Context, run *repository.SolverRun, p *player.Player,
) (*repository.SolverRun, error) {
	var endedAt *time.Time
	if p.Status() != player.Playing && !run.EndedAt.Valid {
		now := time.Now().UTC()
		endedAt = &now
	}
	return h.repo.SaveSolverRun(ctx, run.SolverRunId, p.State(), endedAt)
}

func (h Runs) Fetch(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}

	p, err := h.restore(run, newRand())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("db returned invalid solver_run.state")
		return
	}

	sendJSONOrLog(w, h.log, NewSolverRunDTO(run, p))
}

func (h Runs) Step(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}

	p, err := h.restore(run, newRand())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("db returned invalid solver_run.state")
		return
	}

	know := p.Knowledge()
	safesBefore, minesBefore := len(know.Safes()), len(know.Mines())

	move, err := p.Step()
	if errors.Is(err, player.ErrDone) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("solver step failed")
		return
	}

	metrics.ObserveMove(move)
	metrics.ObserveDeductions(
		len(know.Safes())-safesBefore, len(know.Mines())-minesBefore,
	)
	metrics.ObserveOutcome(p.Status())

	saved, err := h.save(r.Context(), run, p)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to update run in db")
		return
	}

	sendJSONOrLog(w, h.log, &StepDTO{
		Move: NewMoveDTO(move),
		Run:  NewSolverRunDTO(saved, p),
	})
}

func (h Runs) Solve(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}

	p, err := h.restore(run, newRand())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("db returned invalid solver_run.state")
		return
	}

	know := p.Knowledge()
	movesBefore := len(p.Moves())
	safesBefore, minesBefore := len(know.Safes()), len(know.Mines())

	status, err := p.Play()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("solver playout failed")
		return
	}

	played := p.Moves()[movesBefore:]
	for _, m := range played {
		metrics.ObserveMove(m)
	}
	metrics.ObserveDeductions(
		len(know.Safes())-safesBefore, len(know.Mines())-minesBefore,
	)
	metrics.ObserveOutcome(status)

	saved := run
	if len(played) > 0 {
		saved, err = h.save(r.Context(), run, p)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.log.WithError(err).Error("unable to update run in db")
			return
		}
	}

	moves := make([]*MoveDTO, len(played))
	for i, m := range played {
		moves[i] = NewMoveDTO(m)
	}

	sendJSONOrLog(w, h.log, &SolveDTO{
		Moves: moves,
		Run:   NewSolverRunDTO(saved, p),
	})
}

func (h Runs) Highscores(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseHighscoresDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	filter, err := dto.Filter()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.log, wrapError(err))
		return
	}

	highscores, err := h.repo.GetHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch highscores")
		return
	}

	sendJSONOrLog(w, h.log, highscores)
}
