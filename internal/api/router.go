package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/hxweather/internal/llm"
	"github.com/joestump/hxweather/internal/prompt"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Composer  *prompt.Composer
	Generator llm.Generator
	Logger    *zap.Logger
}

// NewAPIRouter creates a chi sub-router for /api. Every route answers with
// an HTML fragment, including failures.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(htmlContentType)

	pages := &pageHandler{
		composer:  deps.Composer,
		generator: deps.Generator,
		logger:    deps.Logger.Named("api"),
	}

	// The action may span several path segments, e.g. /api/get/forecast/Toronto/.
	r.Get("/get/*", pages.Navigate)
	r.Post("/post", pages.Submit)
	r.Post("/post/", pages.Submit)

	return r
}

// htmlContentType sets Content-Type: text/html on all responses.
func htmlContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}
