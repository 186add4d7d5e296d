package view

import (
	"log/slog"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
)

// FlashMessage is a single flash as rendered by the layout.
type FlashMessage struct {
	Kind string
	Text string
}

// FlashData holds the flashes read from the session.
type FlashData struct {
	Success  []string
	Error    []string
	Messages []FlashMessage
}

// setFlash sets a flash message in the session.
func setFlash(c echo.Context, key, message string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		slog.Warn("Flash session unavailable", "error", err)
		return
	}
	sess.AddFlash(message, key)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Warn("Failed to save flash", "error", err)
	}
}

// SetFlashSuccess sets a success flash message.
func SetFlashSuccess(c echo.Context, message string) {
	setFlash(c, flashKeySuccess, message)
}

// SetFlashError sets an error flash message.
func SetFlashError(c echo.Context, message string) {
	setFlash(c, flashKeyError, message)
}

// GetFlashData retrieves and clears flash messages from the session. Without
// session middleware it returns no flashes.
func GetFlashData(c echo.Context) FlashData {
	var data FlashData

	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return data
	}

	// Flashes() retrieves and clears.
	for _, f := range sess.Flashes(flashKeySuccess) {
		if s, ok := f.(string); ok {
			data.Success = append(data.Success, s)
			data.Messages = append(data.Messages, FlashMessage{Kind: flashKeySuccess, Text: s})
		}
	}
	for _, f := range sess.Flashes(flashKeyError) {
		if s, ok := f.(string); ok {
			data.Error = append(data.Error, s)
			data.Messages = append(data.Messages, FlashMessage{Kind: flashKeyError, Text: s})
		}
	}

	if len(data.Messages) > 0 {
		_ = sess.Save(c.Request(), c.Response())
	}
	return data
}
