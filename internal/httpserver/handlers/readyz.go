package handlers

import (
	"net/http"

	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/logger"
)

type readyzResponse struct {
	Ready     bool   `json:"ready"`
	Storage   string `json:"storage"`
	Workspace string `json:"workspace"`
	Groups    int    `json:"groups"`
	Bookmarks int    `json:"bookmarks"`
	Error     string `json:"error,omitempty"`
}

// Readyz reports ready once the default workspace store is loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{Storage: d.Storage, Workspace: d.Workspaces.DefaultRoot()}

		ws, err := d.Workspaces.Default(r.Context())
		if err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			resp.Error = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}

		snap := ws.Store.Snapshot()
		resp.Ready = true
		resp.Groups = len(snap.Groups)
		resp.Bookmarks = snap.BookmarkCount()
		writeJSON(w, http.StatusOK, resp)
	}
}
