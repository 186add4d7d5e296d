package rendering

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func TestRenderComponent(t *testing.T) {
	r := NewUniversalRenderer()

	out, err := r.RenderComponent(context.Background(), h.Span(g.Text("gomponent")))
	require.NoError(t, err)
	assert.Equal(t, "<span>gomponent</span>", string(out))

	tc := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<b>templ</b>")
		return err
	})
	out, err = r.RenderComponent(context.Background(), tc)
	require.NoError(t, err)
	assert.Equal(t, "<b>templ</b>", string(out))

	_, err = r.RenderComponent(context.Background(), 42)
	assert.ErrorContains(t, err, "unsupported component type: int")
}

func TestRenderPage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, NewUniversalRenderer().RenderPage(c, http.StatusAccepted, h.P(g.Text("ok"))))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "<p>ok</p>", rec.Body.String())
}

func TestRender_AsEchoRenderer(t *testing.T) {
	e := echo.New()
	e.Renderer = NewUniversalRenderer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, c.Render(http.StatusOK, "ignored", h.Em(g.Text("via echo"))))
	assert.Equal(t, "<em>via echo</em>", rec.Body.String())
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
}
