// Package rendering turns templ components and gomponents nodes into HTML
// for full pages, htmx fragments and websocket pushes.
package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders templ components or gomponents nodes.
type Renderer interface {
	// RenderComponent renders into memory, for fragments pushed outside a request.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes component as the HTML response with status.
	RenderPage(c echo.Context, status int, component any) error
}

// UniversalRenderer accepts both component kinds used by the views.
type UniversalRenderer struct{}

// NewUniversalRenderer returns a UniversalRenderer.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// node matches gomponents.Node without importing it.
type node interface {
	Render(w io.Writer) error
}

func (r *UniversalRenderer) write(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case node:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type: %T", component)
	}
}

func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.write(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("render component: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage buffers the whole body first so a render failure can still
// become a proper error response.
func (r *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := r.RenderComponent(c.Request().Context(), component)
	if err != nil {
		slog.Error("Failed to render component", "path", c.Request().URL.Path, "error", err)
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render makes UniversalRenderer usable as echo's Renderer; the component
// travels in data and name is ignored.
func (r *UniversalRenderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return r.write(c.Request().Context(), data, w)
}
