package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/httpserver/handlers"
)

func init() { Register("events", API, registerEvents) }

// The event stream is long-lived, so it gets no request timeout.
func registerEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/events", handlers.Events(d))
}
