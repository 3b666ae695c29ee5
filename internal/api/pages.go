package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/joestump/hxweather/internal/llm"
	"github.com/joestump/hxweather/internal/metrics"
	"github.com/joestump/hxweather/internal/navigation"
	"github.com/joestump/hxweather/internal/prompt"
)

// maxFormBytes caps the initial submission body.
const maxFormBytes = 1 << 20

// pageHandler turns navigation requests into generated HTML fragments.
type pageHandler struct {
	composer  *prompt.Composer
	generator llm.Generator
	logger    *zap.Logger
}

// Navigate handles GET /api/get/{action}/. Query parameters become the
// navigation context for the next page.
func (h *pageHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "*")
	// chi matches on the escaped path when one exists, so %2F and friends
	// arrive still encoded.
	if unescaped, err := url.PathUnescape(action); err == nil {
		action = unescaped
	}
	action = strings.Trim(action, "/")
	if action == "" {
		http.NotFound(w, r)
		return
	}
	nav := navigation.FromQuery(action, r.URL.Query())
	h.generate(w, r, "get", nav, msgEmptyNavigation)
}

// Submit handles POST /api/post/ with form field city. A blank city is
// answered without calling the model.
func (h *pageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r, "post")

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		log.Warn("parse form", zap.Error(err))
	}
	nav, err := navigation.FromForm(r.PostForm)
	if err != nil {
		metrics.MissingCityTotal.Inc()
		log.Info("no city provided")
		writeError(w, msgCityMissing)
		return
	}
	h.generate(w, r, "post", nav, msgEmptySubmission)
}

// generate runs compose → generate and writes exactly one body for the
// terminal outcome.
func (h *pageHandler) generate(w http.ResponseWriter, r *http.Request, endpoint string, nav navigation.Context, emptyMsg string) {
	log := h.requestLogger(r, endpoint).With(
		zap.String("action", nav.Action),
		zap.String("city", nav.City),
	)

	p, err := h.composer.Compose(nav)
	if err != nil {
		h.fail(w, log, endpoint, fmt.Errorf("compose prompt: %w", err))
		return
	}
	metrics.PromptChars.Observe(float64(len(p)))
	log.Debug("prompt composed", zap.Int("prompt_chars", len(p)), zap.Int("context_lines", len(prompt.Lines(nav))))

	// The generation runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	start := time.Now()
	res := llm.Generate(ctx, h.generator, llm.Request{Prompt: p})
	elapsed := time.Since(start)
	metrics.GenerationDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())

	switch res.Outcome {
	case llm.Succeeded:
		metrics.GenerationsTotal.WithLabelValues(endpoint, res.Outcome.String()).Inc()
		metrics.FragmentChars.Observe(float64(len(res.HTML)))
		log.Info("generated fragment", zap.Int("html_chars", len(res.HTML)), zap.Duration("elapsed", elapsed))
		writeHTML(w, res.HTML)
	case llm.Empty:
		metrics.GenerationsTotal.WithLabelValues(endpoint, res.Outcome.String()).Inc()
		log.Warn("model returned no HTML", zap.Duration("elapsed", elapsed))
		writeError(w, emptyMsg)
	default:
		h.fail(w, log, endpoint, res.Err)
	}
}

// fail logs the full error and answers with its message only.
func (h *pageHandler) fail(w http.ResponseWriter, log *zap.Logger, endpoint string, err error) {
	if err == nil {
		err = errors.New("unknown generation failure")
	}
	metrics.GenerationsTotal.WithLabelValues(endpoint, llm.Failed.String()).Inc()
	log.Error("generation failed",
		zap.Error(err),
		zap.String("error_type", fmt.Sprintf("%T", err)),
		zap.Stack("stack"),
	)
	writeError(w, "Error: "+err.Error())
}

func (h *pageHandler) requestLogger(r *http.Request, endpoint string) *zap.Logger {
	return h.logger.With(
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("endpoint", endpoint),
	)
}
