package view_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/rocketpool/rocketpool-web/internal/view"
)

func TestCalculateTitle(t *testing.T) {
	assert.Equal(t, "Dashboard - Rocket Pool", view.CalculateTitle("Dashboard"))
	assert.Equal(t, "Rocket Pool", view.CalculateTitle(""))
}

func TestLayout(t *testing.T) {
	body := view.AdaptGomponentToTempl(h.P(g.Text("hello")))
	flashes := []view.FlashMessage{{Kind: "error", Text: "<oops>"}}

	var buf bytes.Buffer
	require.NoError(t, view.Layout("Dashboard", flashes, body).Render(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "<title>Dashboard - Rocket Pool</title>")
	assert.Contains(t, out, `<main><p>hello</p></main>`)
	assert.Contains(t, out, `class="flash flash-error">&lt;oops&gt;</div>`)
	assert.Contains(t, out, `ws-connect="/ws/html"`)
}

func TestAdaptGomponentToTempl(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, view.AdaptGomponentToTempl(h.Span(g.Text("x"))).Render(context.Background(), &buf))
	assert.Equal(t, "<span>x</span>", buf.String())

	buf.Reset()
	require.NoError(t, view.AdaptGomponentToTempl(nil).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())
}
