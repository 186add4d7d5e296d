package contact

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/rocketpool/rocketpool-web/internal/dashboard"
	"github.com/rocketpool/rocketpool-web/internal/module"
	"github.com/rocketpool/rocketpool-web/internal/processing"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
	"github.com/rocketpool/rocketpool-web/internal/registry"
	"github.com/rocketpool/rocketpool-web/internal/rendering"
)

// AccountSource reports the account the visitor is looking at.
type AccountSource interface {
	CurrentAccount() string
}

// Dependencies holds the services the contact module needs.
type Dependencies struct {
	Bus       pubsub.Publisher
	Service   *Service
	Renderer  rendering.Renderer
	Scheduler processing.Scheduler
	// Middleware wraps the submission route, typically a rate limiter.
	Middleware []echo.MiddlewareFunc
}

// Module implements module.Module for the contact form.
type Module struct {
	module.BaseModule

	bus        pubsub.Publisher
	service    *Service
	renderer   rendering.Renderer
	scheduler  processing.Scheduler
	middleware []echo.MiddlewareFunc
	accounts   AccountSource
}

var _ module.Module = (*Module)(nil)

// New creates the contact module.
func New(deps Dependencies) *Module {
	m := &Module{
		bus:        deps.Bus,
		service:    deps.Service,
		renderer:   deps.Renderer,
		scheduler:  deps.Scheduler,
		middleware: deps.Middleware,
	}
	if m.scheduler == nil {
		m.scheduler = processing.TimerScheduler{}
	}
	if m.renderer == nil {
		m.renderer = rendering.NewUniversalRenderer()
	}
	return m
}

func (m *Module) Name() string {
	return "contact"
}

// Boot mounts the routes. When the dashboard has shared its session, enquiries
// record the account being viewed.
func (m *Module) Boot(_ context.Context, g *echo.Group, reg *registry.Registry) error {
	if sess, ok := registry.Get(reg, dashboard.SessionKey); ok {
		m.accounts = sess
	}
	NewHandler(m).Mount(g, m.middleware...)
	return nil
}

func (m *Module) currentAccount() string {
	if m.accounts == nil {
		return ""
	}
	return m.accounts.CurrentAccount()
}
