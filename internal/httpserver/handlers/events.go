package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/logger"
)

const defaultHeartbeat = 30 * time.Second

type changedEvent struct {
	Workspace string `json:"workspace"`
	Groups    int    `json:"groups"`
	Bookmarks int    `json:"bookmarks"`
}

// Events streams a "changed" server-sent event whenever the store of
// ?workspace= changes. Changes arriving faster than the client reads are
// coalesced into one event.
func Events(d deps.Deps) http.HandlerFunc {
	heartbeat := d.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ctx.Err() != nil {
			return
		}

		ws, err := d.Workspaces.Get(ctx, r.URL.Query().Get("workspace"))
		if err != nil {
			d.Logger.Error("failed to open workspace for events", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		rc := http.NewResponseController(w)
		// The stream outlives the server write timeout.
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			d.Logger.Debug("failed to clear write deadline", logger.Error(err))
		}
		if err := rc.Flush(); err != nil {
			d.Logger.Error("failed to flush event stream headers", logger.Error(err))
			return
		}

		changed := make(chan struct{}, 1)
		unsubscribe := ws.Store.Subscribe(func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()

		log := d.Logger.With(logger.String("workspace", ws.Root), logger.String("remote_ip", r.RemoteAddr))
		log.Debug("event stream opened")
		defer log.Debug("event stream closed")

		if err := sendEvent(rc, w, "connected", map[string]string{"workspace": ws.Root}); err != nil {
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-changed:
				snap := ws.Store.Snapshot()
				ev := changedEvent{Workspace: ws.Root, Groups: len(snap.Groups), Bookmarks: snap.BookmarkCount()}
				if err := sendEvent(rc, w, "changed", ev); err != nil {
					return
				}
			case t := <-ticker.C:
				if err := sendEvent(rc, w, "heartbeat", map[string]string{"time": t.UTC().Format(time.RFC3339)}); err != nil {
					return
				}
			case <-d.StreamsDone:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// sendEvent writes one "event: X / data: json" frame and flushes it.
func sendEvent(rc *http.ResponseController, w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return rc.Flush()
}
