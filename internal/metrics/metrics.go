// Package metrics exposes solver counters on the default Prometheus
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/minesweeper-ai/internal/player"
)

var (
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_runs_started_total",
		Help: "Solver runs created.",
	})

	runsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_runs_completed_total",
		Help: "Solver runs that reached a verdict, by outcome.",
	}, []string{"status"})

	moves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_moves_total",
		Help: "Moves played, by selection strategy.",
	}, []string{"strategy"})

	deductions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_deductions_total",
		Help: "Cells proven safe or mined since the run was last stepped.",
	}, []string{"verdict"})
)

func ObserveRunStarted() {
	runsStarted.Inc()
}

func ObserveMove(m player.Move) {
	moves.WithLabelValues(m.Strategy.String()).Inc()
}

// ObserveOutcome counts a run once it leaves the playing state.
func ObserveOutcome(s player.Status) {
	if s != player.Playing {
		runsCompleted.WithLabelValues(s.String()).Inc()
	}
}

// ObserveDeductions takes the growth of the proven-safe and
// proven-mine sets across a step.
func ObserveDeductions(safes, mines int) {
	if safes > 0 {
		deductions.WithLabelValues("safe").Add(float64(safes))
	}
	if mines > 0 {
		deductions.WithLabelValues("mine").Add(float64(mines))
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
