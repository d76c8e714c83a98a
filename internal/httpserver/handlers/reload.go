package handlers

import (
	"net/http"

	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/logger"
)

type reloadResponse struct {
	Workspace string `json:"workspace"`
	Status    string `json:"status"`
	Groups    int    `json:"groups,omitempty"`
	Bookmarks int    `json:"bookmarks,omitempty"`
}

// Reload re-reads the store of ?workspace= (default workspace when empty).
// With a reloader running the request is queued for it; otherwise the store
// reloads inline.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := d.Workspaces.Get(r.Context(), r.URL.Query().Get("workspace"))
		if err != nil {
			d.Logger.Error("failed to open workspace for reload", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		if ws.ReloadTrigger != nil {
			if ws.TriggerReload() {
				d.Logger.Info("manual store reload triggered via endpoint",
					logger.String("workspace", ws.Root),
					logger.String("remote_ip", r.RemoteAddr))
				writeJSON(w, http.StatusAccepted, reloadResponse{Workspace: ws.Root, Status: "triggered"})
				return
			}
			d.Logger.Warn("store reload already pending",
				logger.String("workspace", ws.Root),
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Workspace: ws.Root, Status: "pending"})
			return
		}

		if err := ws.Store.Reload(r.Context()); err != nil {
			d.Logger.Error("failed to reload store", logger.String("workspace", ws.Root), logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		snap := ws.Store.Snapshot()
		writeJSON(w, http.StatusOK, reloadResponse{
			Workspace: ws.Root,
			Status:    "reloaded",
			Groups:    len(snap.Groups),
			Bookmarks: snap.BookmarkCount(),
		})
	}
}
