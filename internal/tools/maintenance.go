package tools

import (
	"context"
	"encoding/json"

	"github.com/linonon/aibookmarks/internal/domain"
	"github.com/linonon/aibookmarks/internal/drift"
	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/store"
	"github.com/linonon/aibookmarks/internal/workspace"
)

func clearAllTool() Tool {
	return &funcTool{
		name:        "clear_all_bookmarks",
		description: "Delete every group and bookmark of the workspace. Requires confirm: true.",
		params: object(map[string]any{
			"confirm": boolean("Must be true."),
		}, "confirm"),
		confirm: true,
		run: func(ctx context.Context, ws *workspace.Workspace, _ json.RawMessage) (any, error) {
			return ws.Store.ClearAll(ctx), nil
		},
	}
}

func exportMarkdownTool() Tool {
	return &funcTool{
		name:        "export_markdown",
		description: "Render every group and bookmark as Markdown.",
		params:      object(map[string]any{}),
		run: func(_ context.Context, ws *workspace.Workspace, _ json.RawMessage) (any, error) {
			return map[string]string{"markdown": ws.Store.ExportMarkdown()}, nil
		},
	}
}

func checkValidityTool() Tool {
	type args struct {
		BookmarkID string `json:"bookmarkId"`
	}
	return &funcTool{
		name:        "check_bookmark_validity",
		description: "Compare bookmarked code snapshots with the current files. Checks one bookmark, or all of them without bookmarkId.",
		params: object(map[string]any{
			"bookmarkId": str("Bookmark to check."),
		}),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			if a.BookmarkID == "" {
				return ws.Drift.CheckAll(ctx)
			}
			rep, ok := ws.Store.CheckBookmarkValidity(ctx, a.BookmarkID, store.ReadFile)
			if !ok {
				return nil, apperrors.NotFound("bookmark %s not found or has an unreadable location", a.BookmarkID)
			}
			return rep, nil
		},
	}
}

func notifyFileChangeTool() Tool {
	type args struct {
		Path          string             `json:"path"`
		EditStartLine int                `json:"editStartLine"`
		LineDelta     int                `json:"lineDelta"`
		Changes       []drift.FileChange `json:"changes"`
	}
	return &funcTool{
		name: "notify_file_change",
		description: "Shift bookmarks after lines were inserted or deleted. Pass path, editStartLine and lineDelta " +
			"for one edit, or changes for several edits across files.",
		params: object(map[string]any{
			"path":          str("Edited file."),
			"editStartLine": integer("1-indexed line where the edit starts.", 1),
			"lineDelta":     signedInteger("New minus old line count of the edited region."),
			"changes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"path":  nonEmpty("Edited file."),
						"edits": lineEdits(),
					},
					"required": []string{"path", "edits"},
				},
			},
		}),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			changes := a.Changes
			if a.Path != "" {
				if a.EditStartLine < 1 {
					return nil, apperrors.Validation("editStartLine is required with path")
				}
				changes = append([]drift.FileChange{{
					Path:  a.Path,
					Edits: []domain.LineEdit{{StartLine: a.EditStartLine, LineDelta: a.LineDelta}},
				}}, changes...)
			}
			if len(changes) == 0 {
				return nil, apperrors.Validation("either path or changes is required")
			}
			return ws.Drift.HandleChanges(ctx, changes), nil
		},
	}
}

func reloadStoreTool() Tool {
	return &funcTool{
		name:        "reload_store",
		description: "Re-read the bookmark store from its backing file.",
		params:      object(map[string]any{}),
		run: func(ctx context.Context, ws *workspace.Workspace, _ json.RawMessage) (any, error) {
			if err := ws.Store.Reload(ctx); err != nil {
				return nil, apperrors.Persistence("failed to reload store", err)
			}
			snap := ws.Store.Snapshot()
			return map[string]int{"groups": len(snap.Groups), "bookmarks": snap.BookmarkCount()}, nil
		},
	}
}

// RegisterDefaults registers every built-in tool.
func RegisterDefaults(r *Registry) {
	for _, t := range []Tool{
		createGroupTool(),
		getGroupTool(),
		listGroupsTool(),
		updateGroupTool(),
		deleteGroupTool(),
		addBookmarkTool(),
		getBookmarkTool(),
		listBookmarksTool(),
		searchBookmarksTool(),
		updateBookmarkTool(),
		removeBookmarkTool(),
		getBookmarkTreeTool(),
		batchAddBookmarksTool(),
		clearAllTool(),
		exportMarkdownTool(),
		checkValidityTool(),
		notifyFileChangeTool(),
		reloadStoreTool(),
	} {
		r.Register(t)
	}
}
