package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
)

func TestLogger_InjectsRequestScopedLogger(t *testing.T) {
	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(Logger)

	var got *slog.Logger
	e.GET("/", func(c echo.Context) error {
		got = FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, got)
	assert.NotSame(t, slog.Default(), got)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, slog.Default(), FromContext(req.Context()))
}

func TestLogger_LogsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(Logger)
	e.GET("/network", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "no")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/network", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "Request handled")
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/network")
}

func TestWithLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, FromContext(WithLogger(context.Background(), l)))
}
