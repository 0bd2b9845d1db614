package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// LogLevel honors LOG_LEVEL when set, otherwise debug in development
// and info everywhere else.
func LogLevel() logrus.Level {
	if levelStr, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			return level
		}
	}
	if Development() {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}
