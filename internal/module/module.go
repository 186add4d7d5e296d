// Package module defines the lifecycle shared by the dashboard and contact
// features.
package module

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/rocketpool/rocketpool-web/internal/registry"
)

// Module is a self-contained feature booted by the server.
type Module interface {
	Name() string

	// Register publishes the module's services on reg. Every module registers
	// before any module boots.
	Register(reg *registry.Registry) error

	// Boot mounts routes on router and starts the module's bus work.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown releases subscriptions and timers. It may be called twice.
	Shutdown(ctx context.Context) error
}

// BaseModule gives no-op lifecycle methods to embed.
type BaseModule struct{}

func (BaseModule) Register(*registry.Registry) error                          { return nil }
func (BaseModule) Boot(context.Context, *echo.Group, *registry.Registry) error { return nil }
func (BaseModule) Shutdown(context.Context) error                              { return nil }
