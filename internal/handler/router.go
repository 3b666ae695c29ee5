package handler

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joestump/hxweather/internal/api"
	"github.com/joestump/hxweather/internal/llm"
	"github.com/joestump/hxweather/internal/prompt"
	"github.com/joestump/hxweather/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Composer  *prompt.Composer
	Generator llm.Generator
	Logger    *zap.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger.Named("http")))
	r.Use(middleware.Recoverer)

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	landing := NewLandingHandler()
	r.Get("/", landing.Index)

	apiRouter := api.NewAPIRouter(api.Deps{
		Composer:  deps.Composer,
		Generator: deps.Generator,
		Logger:    deps.Logger,
	})
	r.Mount("/api", apiRouter)

	return r
}
