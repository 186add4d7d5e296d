package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rocketpool/rocketpool-web/internal/app"
	"github.com/rocketpool/rocketpool-web/internal/config"
	"github.com/rocketpool/rocketpool-web/internal/logging"
	"github.com/rocketpool/rocketpool-web/internal/server"
)

func main() {
	cfg := config.New()
	logging.New()

	injector := app.New(cfg)
	s, err := server.New(injector)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	if err := s.Start(context.Background()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
