package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/httpserver/mw"
	"github.com/linonon/aibookmarks/internal/logger"
)

// Scope picks the shared middlewares a route group sits behind.
type Scope int

const (
	// Public routes answer any Host (health probes).
	Public Scope = iota
	// API routes only answer the allowed hosts.
	API
)

type Registrar func(r chi.Router, d deps.Deps)

type entry struct {
	name  string
	scope Scope
	reg   Registrar
}

var registry []entry

// Register adds a named route group, called from init.
func Register(name string, scope Scope, reg Registrar) {
	registry = append(registry, entry{name: name, scope: scope, reg: reg})
}

// RegisterAll mounts every group; API groups share one host check.
func RegisterAll(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	for _, e := range registry {
		target := r
		if e.scope == API {
			target = api
		}
		e.reg(target, d)
		d.Logger.Debug("routes registered",
			logger.String("group", e.name),
			logger.Bool("host_checked", e.scope == API))
	}
}
