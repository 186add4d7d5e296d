package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketpool/rocketpool-web/internal/view"
)

// sessionContext returns a context that has been through the session middleware.
func sessionContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	store := sessions.NewCookieStore([]byte("flash-test-secret"))

	var c echo.Context
	capture := session.Middleware(store)(func(ctx echo.Context) error {
		c = ctx
		return nil
	})
	require.NoError(t, capture(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
	return c
}

func TestFlash(t *testing.T) {
	t.Run("success is read once", func(t *testing.T) {
		c := sessionContext(t)
		view.SetFlashSuccess(c, "Now viewing account 0xabc")

		data := view.GetFlashData(c)
		assert.Equal(t, []string{"Now viewing account 0xabc"}, data.Success)
		assert.Empty(t, data.Error)
		assert.Equal(t, []view.FlashMessage{{Kind: "success", Text: "Now viewing account 0xabc"}}, data.Messages)

		assert.Empty(t, view.GetFlashData(c).Messages)
	})

	t.Run("errors follow successes", func(t *testing.T) {
		c := sessionContext(t)
		view.SetFlashError(c, "bad address")
		view.SetFlashSuccess(c, "sent")

		data := view.GetFlashData(c)
		assert.Equal(t, []string{"bad address"}, data.Error)
		require.Len(t, data.Messages, 2)
		assert.Equal(t, "success", data.Messages[0].Kind)
		assert.Equal(t, "error", data.Messages[1].Kind)
	})

	t.Run("empty session", func(t *testing.T) {
		assert.Empty(t, view.GetFlashData(sessionContext(t)).Messages)
	})

	t.Run("no session middleware", func(t *testing.T) {
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		assert.NotPanics(t, func() { view.SetFlashError(c, "dropped") })
		assert.Empty(t, view.GetFlashData(c).Messages)
	})
}
