package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// bootModules registers every module's services, then boots them in order
// on the root route group.
func (s *Server) bootModules(ctx context.Context) error {
	for _, m := range s.Modules {
		if err := m.Register(s.Registry); err != nil {
			return fmt.Errorf("module %s: register: %w", m.Name(), err)
		}
	}

	group := s.E.Group("")
	for _, m := range s.Modules {
		if err := m.Boot(ctx, group, s.Registry); err != nil {
			return fmt.Errorf("module %s: boot: %w", m.Name(), err)
		}
		slog.Info("Module booted", "module", m.Name())
	}
	return nil
}

// shutdownModules stops the modules in reverse boot order.
func (s *Server) shutdownModules(ctx context.Context) error {
	var errs []error
	for i := len(s.Modules) - 1; i >= 0; i-- {
		m := s.Modules[i]
		if err := m.Shutdown(ctx); err != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", err)
			errs = append(errs, fmt.Errorf("module %s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}
