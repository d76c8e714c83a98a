package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/httpserver/handlers"
)

func init() { Register("reload", API, registerReload) }

func registerReload(r chi.Router, d deps.Deps) {
	r.Post("/api/reload", handlers.Reload(d))
}
