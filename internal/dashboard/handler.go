package dashboard

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocketpool/rocketpool-web/internal/middleware"
	"github.com/rocketpool/rocketpool-web/internal/view"
)

// LaunchDate is the default countdown target of the landing page.
var LaunchDate = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

// Handler serves the dashboard pages and fragments.
type Handler struct {
	m *Module
}

// NewHandler creates a handler backed by m.
func NewHandler(m *Module) *Handler {
	return &Handler{m: m}
}

// Mount registers the dashboard routes on g.
func (h *Handler) Mount(g *echo.Group) {
	g.GET("/", h.PageGet)
	g.GET("/network", h.NetworkGet)
	g.GET("/account", h.AccountGet)
	g.GET("/accounts", h.AccountsGet)
	g.POST("/accounts/select", h.SelectPost)
	g.GET("/countdown", h.CountdownGet)
	g.GET("/api/session", h.SessionGet)
}

// PageGet renders the full dashboard page.
func (h *Handler) PageGet(c echo.Context) error {
	snap := h.m.Snapshot()
	countdowns := []Countdown{NewCountdown(LaunchDate, h.m.now())}

	content := view.AdaptGomponentToTempl(Page(snap, countdowns))
	flashes := view.GetFlashData(c)
	return h.m.renderer.RenderPage(c, http.StatusOK, view.Layout("Dashboard", flashes.Messages, content))
}

// NetworkGet renders the network label.
func (h *Handler) NetworkGet(c echo.Context) error {
	return h.m.renderer.RenderPage(c, http.StatusOK, NetworkLabel(h.m.Snapshot()))
}

// AccountGet renders the current account block.
func (h *Handler) AccountGet(c echo.Context) error {
	return h.m.renderer.RenderPage(c, http.StatusOK, AccountFragment(h.m.Snapshot()))
}

// AccountsGet renders the account list.
func (h *Handler) AccountsGet(c echo.Context) error {
	return h.m.renderer.RenderPage(c, http.StatusOK, AccountList(h.m.Snapshot()))
}

// SelectPost selects the account in the "address" form field. htmx callers
// get the refreshed account block; plain form posts get a flash message and a
// redirect back to the page.
func (h *Handler) SelectPost(c echo.Context) error {
	address := strings.TrimSpace(c.FormValue("address"))
	logger := middleware.FromContext(c.Request().Context())
	htmx := c.Request().Header.Get("HX-Request") == "true"

	if err := h.m.SelectAccount(c.Request().Context(), address); err != nil {
		logger.Warn("Rejected account selection", "address", address, "error", err)
		if !htmx {
			view.SetFlashError(c, "That is not a valid account address.")
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid account address")
	}
	logger.Info("Account selected", "address", address)

	if !htmx {
		view.SetFlashSuccess(c, "Now viewing account "+address)
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.m.renderer.RenderPage(c, http.StatusOK, AccountFragment(h.m.Snapshot()))
}

// CountdownGet renders a countdown clock for the "date" query parameter.
func (h *Handler) CountdownGet(c echo.Context) error {
	target, err := ParseCountdownDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.m.renderer.RenderPage(c, http.StatusOK, CountdownClock(NewCountdown(target, h.m.now())))
}

// SessionGet returns the session as JSON.
func (h *Handler) SessionGet(c echo.Context) error {
	return c.JSON(http.StatusOK, h.m.Snapshot())
}
