package app

import (
	"github.com/vancomm/minesweeper-ai/internal/config"
	"github.com/vancomm/minesweeper-ai/internal/handlers"
	"github.com/vancomm/minesweeper-ai/internal/metrics"
)

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.log, a.db, a.cookies)
	runs := handlers.NewRuns(a.log, a.db, a.ws)

	base := config.BasePath()

	a.router.HandleFunc("POST "+base+"/v1/register", auth.Register)
	a.router.HandleFunc("POST "+base+"/v1/login", auth.Login)
	a.router.HandleFunc("POST "+base+"/v1/logout", auth.Logout)
	a.router.HandleFunc("GET "+base+"/v1/status", auth.Status)

	a.router.HandleFunc("POST "+base+"/v1/runs", runs.Create)
	a.router.HandleFunc("GET "+base+"/v1/runs/{id}", runs.Fetch)
	a.router.HandleFunc("POST "+base+"/v1/runs/{id}/step", runs.Step)
	a.router.HandleFunc("POST "+base+"/v1/runs/{id}/solve", runs.Solve)
	a.router.HandleFunc("GET "+base+"/v1/runs/{id}/watch", runs.Watch)

	a.router.HandleFunc("GET "+base+"/v1/highscores", runs.Highscores)

	a.router.Handle("GET "+base+"/metrics", metrics.Handler())
}
