package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/httpserver/deps"
	"github.com/linonon/aibookmarks/internal/tools"
)

// maxArgsBytes bounds a tool call body.
const maxArgsBytes = 4 << 20

type listToolsResponse struct {
	Tools []tools.Def `json:"tools"`
	Count int         `json:"count"`
}

// ListTools returns every tool definition with its argument schema.
func ListTools(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs := d.Tools.Defs()
		writeJSON(w, http.StatusOK, listToolsResponse{Tools: defs, Count: len(defs)})
	}
}

// CallTool runs the tool named in the path with the JSON body as arguments.
// The body is always a tool result envelope; the status mirrors its code.
func CallTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArgsBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				res := tools.Fail(apperrors.Validation("arguments exceed %d bytes", tooLarge.Limit))
				writeJSON(w, http.StatusRequestEntityTooLarge, res)
				return
			}
			res := tools.Fail(apperrors.Validation("failed to read arguments: %v", err))
			writeJSON(w, res.Status(), res)
			return
		}

		res := d.Tools.Execute(r.Context(), name, json.RawMessage(body))
		writeJSON(w, res.Status(), res)
	}
}
