package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/httpserver/handlers"
)

func init() { Register("tools", API, registerTools) }

func registerTools(r chi.Router, d deps.Deps) {
	r.Route("/api/tools", func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.RequestTimeout))
		}
		r.Get("/", handlers.ListTools(d))
		r.Post("/{name}", handlers.CallTool(d))
	})
}
