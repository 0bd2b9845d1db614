package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-ai/internal/app"
)

//go:embed migrations/*.sql
var migrations embed.FS

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the solver REST and websocket API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	return app.New(log, migrations).Start(ctx)
}
