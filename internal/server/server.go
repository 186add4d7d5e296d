// Package server hosts the Rocket Pool web UI: it owns the echo instance,
// boots the feature modules and streams bus events over websockets.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"

	"github.com/rocketpool/rocketpool-web/internal/app"
	"github.com/rocketpool/rocketpool-web/internal/artifacts"
	"github.com/rocketpool/rocketpool-web/internal/config"
	"github.com/rocketpool/rocketpool-web/internal/middleware"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
	"github.com/rocketpool/rocketpool-web/internal/registry"
	"github.com/rocketpool/rocketpool-web/internal/rendering"
	"github.com/rocketpool/rocketpool-web/internal/websocket"
)

// ErrorResponse is the JSON body of every error the server reports.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E         *echo.Echo
	Cfg       config.Provider
	Registry  *registry.Registry
	Modules   app.Modules
	Bridge    *websocket.Bridge
	Mirror    *pubsub.Mirror
	Artifacts *artifacts.Registry

	injector do.Injector
}

// New creates a Server from the services registered on i.
func New(i do.Injector) (*Server, error) {
	cfg, err := do.Invoke[config.Provider](i)
	if err != nil {
		return nil, err
	}
	modules, err := do.Invoke[app.Modules](i)
	if err != nil {
		return nil, err
	}
	bridge, err := do.Invoke[*websocket.Bridge](i)
	if err != nil {
		return nil, err
	}
	mirror, err := do.Invoke[*pubsub.Mirror](i)
	if err != nil {
		return nil, err
	}
	arts, err := do.Invoke[*artifacts.Registry](i)
	if err != nil {
		return nil, err
	}
	renderer, err := do.Invoke[rendering.Renderer](i)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	if er, ok := renderer.(echo.Renderer); ok {
		e.Renderer = er
	}
	setupMiddleware(e, cfg)
	setupErrorHandling(e)

	s := &Server{
		E:         e,
		Cfg:       cfg,
		Registry:  registry.New(cfg),
		Modules:   modules,
		Bridge:    bridge,
		Mirror:    mirror,
		Artifacts: arts,
		injector:  i,
	}
	s.RegisterRoutes()
	return s, nil
}

func setupMiddleware(e *echo.Echo, cfg config.Provider) {
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))
}

// setupErrorHandling reports HTTP errors as ErrorResponse and logs unhandled
// errors with a stack trace.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
			middleware.FromContext(c.Request().Context()).Debug("HTTP error", "code", code, "error", err)
		} else {
			slog.Error("Internal Server Error (Unhandled)",
				"error", err,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, ErrorResponse{Code: code, Message: message})
		}
		if respErr != nil {
			slog.Error("Failed to write error response", "error", respErr)
		}
	}
}
