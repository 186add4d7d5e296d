package app

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"

	"github.com/rocketpool/rocketpool-web/internal/chain"
	"github.com/rocketpool/rocketpool-web/internal/config"
	"github.com/rocketpool/rocketpool-web/internal/contact"
	"github.com/rocketpool/rocketpool-web/internal/dashboard"
	"github.com/rocketpool/rocketpool-web/internal/middleware"
	"github.com/rocketpool/rocketpool-web/internal/module"
	"github.com/rocketpool/rocketpool-web/internal/processing"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
	"github.com/rocketpool/rocketpool-web/internal/rendering"
	"github.com/rocketpool/rocketpool-web/internal/websocket"
)

// Modules is the ordered list of feature modules booted by the server.
type Modules []module.Module

func provideMirror(i do.Injector) (*pubsub.Mirror, error) {
	bus, err := do.Invoke[*pubsub.Bus](i)
	if err != nil {
		return nil, err
	}
	mirror := pubsub.NewMirror()
	if err := mirror.Attach(bus, dashboard.PushTopics()...); err != nil {
		_ = mirror.Close()
		return nil, err
	}
	return mirror, nil
}

func provideOverlay(i do.Injector) (*processing.Overlay, error) {
	bus, err := do.Invoke[*pubsub.Bus](i)
	if err != nil {
		return nil, err
	}
	o := processing.NewOverlay()
	if err := o.Attach(bus); err != nil {
		return nil, err
	}
	return o, nil
}

func provideDashboard(i do.Injector) (*dashboard.Module, error) {
	bus, err := do.Invoke[*pubsub.Bus](i)
	if err != nil {
		return nil, err
	}
	provider, err := do.Invoke[chain.Provider](i)
	if err != nil {
		return nil, err
	}
	o, err := do.Invoke[*processing.Overlay](i)
	if err != nil {
		return nil, err
	}
	return dashboard.New(dashboard.Dependencies{
		Bus:          bus,
		Provider:     provider,
		Renderer:     do.MustInvoke[rendering.Renderer](i),
		Overlay:      o,
		LoadingDelay: do.MustInvoke[config.Provider](i).GetLoadingDelay(),
	}), nil
}

func provideContact(i do.Injector) (*contact.Module, error) {
	bus, err := do.Invoke[*pubsub.Bus](i)
	if err != nil {
		return nil, err
	}
	svc, err := do.Invoke[*contact.Service](i)
	if err != nil {
		return nil, err
	}
	return contact.New(contact.Dependencies{
		Bus:        bus,
		Service:    svc,
		Renderer:   do.MustInvoke[rendering.Renderer](i),
		Middleware: []echo.MiddlewareFunc{middleware.RateLimiter(middleware.DefaultContactRate)},
	}), nil
}

func provideBridge(i do.Injector) (*websocket.Bridge, error) {
	bus, err := do.Invoke[*pubsub.Bus](i)
	if err != nil {
		return nil, err
	}
	dash, err := do.Invoke[*dashboard.Module](i)
	if err != nil {
		return nil, err
	}
	allowed := websocket.NewTopicWhitelist(dashboard.PushTopics()...)
	return websocket.NewBridge(allowed,
		websocket.WithPublisher(bus),
		websocket.WithFragments(dash.Fragment),
	), nil
}

func provideModules(i do.Injector) (Modules, error) {
	dash, err := do.Invoke[*dashboard.Module](i)
	if err != nil {
		return nil, err
	}
	form, err := do.Invoke[*contact.Module](i)
	if err != nil {
		return nil, err
	}
	return Modules{dash, form}, nil
}
