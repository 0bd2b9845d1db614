package main

import (
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-ai/internal/config"
	"github.com/vancomm/minesweeper-ai/internal/database"
	"github.com/vancomm/minesweeper-ai/internal/kb"
	"github.com/vancomm/minesweeper-ai/internal/player"
)

var (
	log = logrus.New()

	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "A minesweeper player that only guesses when it has to",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logFile, "log-file", "",
		"append JSON logs to this rotating file",
	)
	rootCmd.AddCommand(playCmd, serveCmd, migrateCmd)
}

func loggers() []*logrus.Logger {
	return []*logrus.Logger{log, kb.Log, player.Log, database.Log}
}

func setupLogging() error {
	level := config.LogLevel()

	var hook logrus.Hook
	if logFile != "" {
		var err error
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return err
		}
	}

	for _, l := range loggers() {
		l.SetLevel(level)
		l.SetFormatter(&logrus.TextFormatter{ForceColors: config.Development()})
		if hook != nil {
			l.AddHook(hook)
		}
	}
	return nil
}
