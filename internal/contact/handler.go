package contact

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocketpool/rocketpool-web/internal/middleware"
	"github.com/rocketpool/rocketpool-web/internal/processing"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
)

// HideDelay is how long the overlay stays up after a submission completes.
const HideDelay = time.Second

// Handler serves the contact endpoint.
type Handler struct {
	m *Module
}

// NewHandler creates a handler backed by m.
func NewHandler(m *Module) *Handler {
	return &Handler{m: m}
}

// Mount registers the contact routes on g.
func (h *Handler) Mount(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("/contact", h.FormGet)
	g.POST("/send-contact", h.SendPost, mw...)
}

// FormGet renders the contact form fragment.
func (h *Handler) FormGet(c echo.Context) error {
	return h.m.renderer.RenderPage(c, http.StatusOK, Form())
}

// SendPost accepts a form-encoded enquiry and answers with a Response, or
// with an HTML fragment for htmx requests.
func (h *Handler) SendPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req Request
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind contact request", "error", err)
		return h.respond(c, http.StatusBadRequest, Response{Error: "malformed request"})
	}
	req.Account = h.m.currentAccount()

	pubsub.Publish(ctx, h.m.bus, processing.Show, SendingMessage)
	defer processing.HideAfter(ctx, h.m.bus, h.m.scheduler, HideDelay)

	_, err := h.m.service.Submit(ctx, req)
	var verr *ValidationError
	switch {
	case err == nil:
		return h.respond(c, http.StatusOK, Response{Success: true})
	case errors.As(err, &verr):
		logger.Info("Rejected contact request", "error", err)
		return h.respond(c, http.StatusUnprocessableEntity, Response{Error: verr.Message})
	default:
		logger.Error("Contact request failed", "error", err)
		return h.respond(c, http.StatusInternalServerError, Response{Error: "unable to send your message, please try again later"})
	}
}

func (h *Handler) respond(c echo.Context, status int, resp Response) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		// htmx only swaps 2xx responses by default.
		return h.m.renderer.RenderPage(c, http.StatusOK, Result(resp))
	}
	return c.JSON(status, resp)
}
