package handler

import "net/http"

// LandingHandler serves the weather shell page: the city form and the
// #main-content region that generated fragments are swapped into.
type LandingHandler struct{}

// NewLandingHandler creates a new LandingHandler.
func NewLandingHandler() *LandingHandler { return &LandingHandler{} }

// Index serves GET /.
func (h *LandingHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, "landing.html", newBasePage("Weather"))
}
