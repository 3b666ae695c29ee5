package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joestump/hxweather/internal/instructions"
	"github.com/joestump/hxweather/internal/llm/llmtest"
	"github.com/joestump/hxweather/internal/prompt"
)

func newTestRouter(t *testing.T, fake *llmtest.Fake) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Composer:  prompt.New(instructions.Document{}),
		Generator: fake,
		Logger:    zap.NewNop(),
	})
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLanding(t *testing.T) {
	h := newTestRouter(t, llmtest.Reply())

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="main-content"`)
	assert.Contains(t, body, `hx-post="/api/post/"`)
	assert.Contains(t, body, `name="city"`)
	assert.Contains(t, body, `/static/css/app.css`)
}

func TestStaticAssets(t *testing.T) {
	h := newTestRouter(t, llmtest.Reply())
	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, llmtest.Reply())

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", w.Body.String())

	w = serve(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hxweather_missing_city_total")
}

func TestAPIMounted(t *testing.T) {
	fake := llmtest.Reply("```html\n<section>Toronto</section>\n```")
	h := newTestRouter(t, fake)

	req := httptest.NewRequest(http.MethodPost, "/api/post/", strings.NewReader(url.Values{"city": {"Toronto"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(t, h, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<section>Toronto</section>", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))

	w = serve(t, h, httptest.NewRequest(http.MethodGet, "/api/get/7-day-forecast-Toronto/?description=Week", nil))
	assert.Equal(t, "<section>Toronto</section>", w.Body.String())
	assert.Equal(t, 2, fake.Calls())
}
