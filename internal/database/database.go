// Package database connects to SurrealDB and runs SurrealQL queries.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"

	"github.com/rocketpool/rocketpool-web/internal/config"
)

// ErrNotConfigured is returned when no database URL, namespace or database is set.
var ErrNotConfigured = errors.New("database: SurrealDB is not configured")

// NewDB creates and configures a new SurrealDB connection.
func NewDB(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	if cfg.GetDBUrl() == "" || cfg.GetDBNs() == "" || cfg.GetDBDb() == "" {
		return nil, ErrNotConfigured
	}

	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: cfg.GetDBUser(),
		Password: cfg.GetDBPass(),
	}

	if _, err = db.SignIn(ctx, authData); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if err = db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}

	slog.Info("Successfully signed in to SurrealDB", "namespace", cfg.GetDBNs(), "database", cfg.GetDBDb())
	return db, nil
}
