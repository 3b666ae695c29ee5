package api

import (
	"html"
	"io"
	"net/http"
)

// Fixed user-facing messages. Every failure is delivered as a 200 HTML
// fragment so the hypermedia client always has something to swap in.
const (
	msgCityMissing     = "Please enter a city name"
	msgEmptyNavigation = "Failed to generate content"
	msgEmptySubmission = "Failed to generate weather data"
)

// errorFragment renders message as the red inline error block.
func errorFragment(message string) string {
	return `<div style="color: #e61e4d;">` + html.EscapeString(message) + `</div>`
}

// writeHTML writes body as a 200 text/html response.
func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// writeError writes the inline error fragment for message.
func writeError(w http.ResponseWriter, message string) {
	writeHTML(w, errorFragment(message))
}
