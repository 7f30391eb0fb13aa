// cmd/analytics/main.go
package main

import (
	"os"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	// stdout carries the JSON results
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.Server.LogLevel)

	app := newApp(cfg, os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analytics command failed")
	}
}
