package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketpool/rocketpool-web/web"
)

// RegisterRoutes sets up the framework routes. Module routes are added when
// the modules boot.
func (s *Server) RegisterRoutes() {
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.Bridge.Mount(s.E, "/ws")

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
