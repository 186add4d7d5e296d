package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketpool/rocketpool-web/internal/artifacts"
	"github.com/rocketpool/rocketpool-web/internal/dashboard"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Start boots the modules, serves HTTP on the configured address and blocks
// until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := waitForShutdown(ctx)
	defer stop()

	go s.Bridge.Run(ctx)
	if err := s.Bridge.Forward(ctx, s.Mirror, dashboard.PushTopics()...); err != nil {
		return err
	}

	if err := s.Artifacts.Watch(ctx); err != nil && !errors.Is(err, artifacts.ErrWatchUnsupported) {
		slog.Warn("Artifact hot reload disabled", "error", err)
	}

	if err := s.bootModules(ctx); err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.Cfg.GetAppAddr())
		if err := s.E.Start(s.Cfg.GetAppAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		_ = s.Shutdown(context.Background())
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server, the modules and every container-owned service.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http: %w", err))
	}
	if err := s.shutdownModules(ctx); err != nil {
		errs = append(errs, err)
	}
	if report := s.injector.ShutdownWithContext(ctx); report != nil && !report.Succeed {
		errs = append(errs, fmt.Errorf("services: %s", report.Error()))
	}
	return errors.Join(errs...)
}
