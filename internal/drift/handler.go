// Package drift keeps bookmarks in step with edits made to their files.
package drift

import (
	"context"

	"github.com/linonon/aibookmarks/internal/domain"
	"github.com/linonon/aibookmarks/internal/logger"
	"github.com/linonon/aibookmarks/internal/store"
)

// Store is what the handler needs from the bookmark store.
type Store interface {
	Root() string
	ApplyFileChange(ctx context.Context, path string, edits []domain.LineEdit) int
	GetAllBookmarks() []store.BookmarkWithGroup
	CheckBookmarkValidity(ctx context.Context, id string, fetch store.ContentFetcher) (store.ValidityReport, bool)
}

// FileChange is one editor change event for a file.
type FileChange struct {
	Path  string            `json:"path"`
	Edits []domain.LineEdit `json:"edits"`
}

// Summary reports what a batch of change events moved.
type Summary struct {
	Files   int            `json:"files"`
	Moved   int            `json:"moved"`
	PerFile map[string]int `json:"perFile"`
}

// Handler applies change events and sweeps bookmarks for drift.
type Handler struct {
	store  Store
	fetch  store.ContentFetcher
	logger logger.Logger
}

// New creates a handler. A nil fetch reads files from disk.
func New(s Store, fetch store.ContentFetcher, log logger.Logger) *Handler {
	if fetch == nil {
		fetch = store.ReadFile
	}
	return &Handler{store: s, fetch: fetch, logger: log}
}

// HandleChanges groups edits per file, keeping the order the editor
// reported them, and applies each file in a single store update.
func (h *Handler) HandleChanges(ctx context.Context, changes []FileChange) Summary {
	var order []string
	byFile := make(map[string][]domain.LineEdit)
	for _, c := range changes {
		path := domain.NormalizePath(h.store.Root(), c.Path)
		if path == "" || len(c.Edits) == 0 {
			continue
		}
		if _, seen := byFile[path]; !seen {
			order = append(order, path)
		}
		byFile[path] = append(byFile[path], c.Edits...)
	}

	sum := Summary{Files: len(order), PerFile: make(map[string]int, len(order))}
	for _, path := range order {
		moved := h.store.ApplyFileChange(ctx, path, byFile[path])
		sum.PerFile[path] = moved
		sum.Moved += moved

		if moved > 0 {
			h.logger.Debug("adjusted bookmarks after file change",
				logger.String("file", path),
				logger.Int("edits", len(byFile[path])),
				logger.Int("moved", moved))
		}
	}
	return sum
}

// Report is a validity sweep over the whole store.
type Report struct {
	Valid   int                    `json:"valid"`
	Changed int                    `json:"changed"`
	Invalid int                    `json:"invalid"`
	Skipped int                    `json:"skipped"`
	Results []store.ValidityReport `json:"results"`
}

// CheckAll runs a drift check on every bookmark. Bookmarks whose location
// cannot be parsed are counted as skipped.
func (h *Handler) CheckAll(ctx context.Context) (Report, error) {
	rep := Report{Results: []store.ValidityReport{}}

	for _, b := range h.store.GetAllBookmarks() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		res, ok := h.store.CheckBookmarkValidity(ctx, b.ID, h.fetch)
		if !ok {
			rep.Skipped++
			continue
		}

		switch res.Status {
		case domain.ValidityValid:
			rep.Valid++
		case domain.ValidityChanged:
			rep.Changed++
		default:
			rep.Invalid++
		}
		rep.Results = append(rep.Results, res)
	}

	h.logger.Info("bookmark validity sweep done",
		logger.Int("valid", rep.Valid),
		logger.Int("changed", rep.Changed),
		logger.Int("invalid", rep.Invalid),
		logger.Int("skipped", rep.Skipped))

	return rep, nil
}
