// Package main implements the entry point for the lexicard server,
// which accepts flashcard submissions into a durable queue, processes
// them in the background and grades review answers.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/mgirault/lexicard/internal/config"
	"github.com/mgirault/lexicard/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging and assembles the
// application's components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, err
	}

	slog.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("queue_file", cfg.Queue.FilePath))

	return newApplication(cfg, appLogger)
}
