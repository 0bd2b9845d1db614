package config

import (
	"os"
	"strings"
)

func BasePath() string {
	return strings.TrimSuffix(os.Getenv("APP_BASE_PATH"), "/")
}

// Addr returns the listen address, host and port both optional.
func Addr() string {
	host := os.Getenv("APP_HOST")
	port, ok := os.LookupEnv("APP_PORT")
	if !ok {
		port = "8080"
	}
	return host + ":" + port
}
