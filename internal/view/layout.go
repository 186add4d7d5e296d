package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// SiteName is appended to page titles.
const SiteName = "Rocket Pool"

// CalculateTitle returns the document title for a page.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - " + SiteName
	}
	return SiteName
}

// Layout wraps body in the base HTML document: stylesheet, htmx, the flash
// messages and the websocket event stream.
func Layout(title string, flashes []FlashMessage, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(CalculateTitle(title))+`</title>`+
			`<link rel="stylesheet" href="/static/css/app.css">`+
			`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`+
			`<script src="https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"></script>`+
			`</head><body hx-ext="ws" ws-connect="/ws/html"><div id="rocket" class="launched"></div>`); err != nil {
			return err
		}

		if len(flashes) > 0 {
			if _, err := io.WriteString(w, `<div class="flashes">`); err != nil {
				return err
			}
			for _, f := range flashes {
				if _, err := io.WriteString(w, `<div class="flash flash-`+templ.EscapeString(f.Kind)+`">`+
					templ.EscapeString(f.Text)+`</div>`); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<main>`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
