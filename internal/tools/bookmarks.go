package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/linonon/aibookmarks/internal/domain"
	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/store"
	"github.com/linonon/aibookmarks/internal/workspace"
)

// bookmarkArgs is the shape of a bookmark to add, alone or in a batch.
type bookmarkArgs struct {
	Location     string   `json:"location"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Order        *int     `json:"order"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	CodeSnapshot string   `json:"codeSnapshot"`
	ParentID     string   `json:"parentId"`
}

func (a bookmarkArgs) params() store.NewBookmarkParams {
	return store.NewBookmarkParams{
		Location:     a.Location,
		Title:        a.Title,
		Description:  a.Description,
		Order:        a.Order,
		Category:     domain.Category(a.Category),
		Tags:         a.Tags,
		CodeSnapshot: a.CodeSnapshot,
		ParentID:     a.ParentID,
	}
}

func bookmarkProps() map[string]any {
	return map[string]any{
		"location":     location(),
		"title":        nonEmpty("Short title."),
		"description":  nonEmpty("What the code does and why it matters."),
		"order":        integer("Position among siblings. Defaults to after the last sibling.", 1),
		"category":     category(),
		"tags":         stringArray("Free-form tags."),
		"codeSnapshot": str("Current text of the bookmarked lines, used for drift checks."),
		"parentId":     str("Parent bookmark in the same group."),
	}
}

func addBookmarkTool() Tool {
	type args struct {
		GroupID string `json:"groupId"`
		bookmarkArgs
	}
	props := bookmarkProps()
	props["groupId"] = nonEmpty("Group to add the bookmark to.")
	return &funcTool{
		name:        "add_bookmark",
		description: "Add a bookmark to a group, optionally nested under a parent bookmark. Returns the bookmark id.",
		params:      object(props, "groupId", "location", "title", "description"),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			id, err := ws.Store.AddBookmark(ctx, a.GroupID, a.params())
			if err != nil {
				return nil, err
			}
			return map[string]string{"bookmarkId": id}, nil
		},
	}
}

func getBookmarkTool() Tool {
	type args struct {
		BookmarkID string `json:"bookmarkId"`
	}
	return &funcTool{
		name:        "get_bookmark",
		description: "Get a bookmark together with its group.",
		params: object(map[string]any{
			"bookmarkId": nonEmpty("Bookmark id."),
		}, "bookmarkId"),
		run: func(_ context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			b, ok := ws.Store.GetBookmark(a.BookmarkID)
			if !ok {
				return nil, apperrors.NotFound("bookmark %s not found", a.BookmarkID)
			}
			return b, nil
		},
	}
}

func listBookmarksTool() Tool {
	type args struct {
		GroupID            string   `json:"groupId"`
		ParentID           string   `json:"parentId"`
		IncludeDescendants bool     `json:"includeDescendants"`
		FilePath           string   `json:"filePath"`
		FileGlob           string   `json:"fileGlob"`
		Category           string   `json:"category"`
		Tags               []string `json:"tags"`
	}
	return &funcTool{
		name:        "list_bookmarks",
		description: "List bookmarks matching every given filter. Tags match if any of them is present.",
		params: object(map[string]any{
			"groupId":            str("Only this group."),
			"parentId":           str("Only children of this bookmark."),
			"includeDescendants": boolean("With parentId, include the whole subtree."),
			"filePath":           str("Path or part of a path."),
			"fileGlob":           str(`Glob over stored paths, e.g. "src/**/*.go".`),
			"category":           category(),
			"tags":               stringArray("Any of these tags."),
		}),
		run: func(_ context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			if a.FileGlob != "" && !doublestar.ValidatePattern(a.FileGlob) {
				return nil, apperrors.Validation("invalid fileGlob %q", a.FileGlob)
			}
			bookmarks := ws.Store.ListBookmarks(store.ListFilter{
				GroupID:            a.GroupID,
				ParentID:           a.ParentID,
				IncludeDescendants: a.IncludeDescendants,
				FilePath:           a.FilePath,
				FileGlob:           a.FileGlob,
				Category:           domain.Category(a.Category),
				Tags:               a.Tags,
			})
			return map[string]any{"bookmarks": bookmarks, "count": len(bookmarks)}, nil
		},
	}
}

func searchBookmarksTool() Tool {
	type args struct {
		Query    string   `json:"query"`
		GroupID  string   `json:"groupId"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
		Limit    int      `json:"limit"`
	}
	return &funcTool{
		name:        "search_bookmarks",
		description: "Find bookmarks whose title, tags, file or description match a free-text query, best match first.",
		params: object(map[string]any{
			"query":    nonEmpty("Words to look for."),
			"groupId":  str("Only this group."),
			"category": category(),
			"tags":     stringArray("Any of these tags."),
			"limit":    integer("Maximum number of results. Defaults to 20.", 1),
		}, "query"),
		run: func(_ context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			if a.Limit == 0 {
				a.Limit = defaultSearchLimit
			}
			hits := ws.Store.SearchBookmarks(a.Query, store.ListFilter{
				GroupID:  a.GroupID,
				Category: domain.Category(a.Category),
				Tags:     a.Tags,
			}, a.Limit)
			return map[string]any{"results": hits, "count": len(hits)}, nil
		},
	}
}

const defaultSearchLimit = 20

func updateBookmarkTool() Tool {
	type args struct {
		BookmarkID   string          `json:"bookmarkId"`
		Location     *string         `json:"location"`
		Title        *string         `json:"title"`
		Description  *string         `json:"description"`
		Order        *int            `json:"order"`
		Category     *string         `json:"category"`
		Tags         *[]string       `json:"tags"`
		CodeSnapshot *string         `json:"codeSnapshot"`
		ParentID     json.RawMessage `json:"parentId"`
	}
	props := bookmarkProps()
	props["bookmarkId"] = nonEmpty("Bookmark id.")
	props["parentId"] = map[string]any{
		"type":        []string{"string", "null"},
		"description": "New parent in the same group, or null to move to the top level.",
	}
	return &funcTool{
		name:        "update_bookmark",
		description: "Change a bookmark. Omitted fields are left alone; tags and category are replaced, not merged.",
		params:      object(props, "bookmarkId"),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}

			u := store.BookmarkUpdate{
				Location:     a.Location,
				Title:        a.Title,
				Description:  a.Description,
				Order:        a.Order,
				Tags:         a.Tags,
				CodeSnapshot: a.CodeSnapshot,
			}
			if a.Category != nil {
				c := domain.Category(*a.Category)
				u.Category = &c
			}
			if u.ParentID, err = parentUpdate(a.ParentID); err != nil {
				return nil, err
			}

			if err := ws.Store.UpdateBookmark(ctx, a.BookmarkID, u); err != nil {
				return nil, err
			}
			return map[string]any{"bookmarkId": a.BookmarkID, "updated": true}, nil
		},
	}
}

// parentUpdate maps an absent parentId to nil, null to the top level and a
// string to that parent.
func parentUpdate(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(string(raw)) == "null" {
		top := ""
		return &top, nil
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, apperrors.Validation("parentId must be a string or null")
	}
	return &id, nil
}

func removeBookmarkTool() Tool {
	type args struct {
		BookmarkID string `json:"bookmarkId"`
	}
	return &funcTool{
		name:        "remove_bookmark",
		description: "Remove a bookmark and all of its descendants.",
		params: object(map[string]any{
			"bookmarkId": nonEmpty("Bookmark id."),
		}, "bookmarkId"),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			removed, err := ws.Store.RemoveBookmark(ctx, a.BookmarkID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"bookmarkId": a.BookmarkID, "removed": removed}, nil
		},
	}
}

func getBookmarkTreeTool() Tool {
	type args struct {
		BookmarkID string `json:"bookmarkId"`
		MaxDepth   *int   `json:"maxDepth"`
	}
	return &funcTool{
		name:        "get_bookmark_tree",
		description: "Get a bookmark with its nested children. Depth 0 is the bookmark itself; omit maxDepth for all levels.",
		params: object(map[string]any{
			"bookmarkId": nonEmpty("Bookmark id."),
			"maxDepth":   integer("Deepest level to include.", 0),
		}, "bookmarkId"),
		run: func(_ context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			depth := store.UnlimitedDepth
			if a.MaxDepth != nil {
				depth = *a.MaxDepth
			}
			tree, ok := ws.Store.GetBookmarkTree(a.BookmarkID, depth)
			if !ok {
				return nil, apperrors.NotFound("bookmark %s not found", a.BookmarkID)
			}
			return tree, nil
		},
	}
}

func batchAddBookmarksTool() Tool {
	type args struct {
		GroupID   string         `json:"groupId"`
		ParentID  string         `json:"parentId"`
		Bookmarks []bookmarkArgs `json:"bookmarks"`
	}
	return &funcTool{
		name:        "batch_add_bookmarks",
		description: "Add several bookmarks to a group in one call. Items failing validation are reported individually.",
		params: object(map[string]any{
			"groupId":  nonEmpty("Group to add the bookmarks to."),
			"parentId": str("Parent for items that do not name their own."),
			"bookmarks": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "object"},
			},
		}, "groupId", "bookmarks"),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			items := make([]store.NewBookmarkParams, len(a.Bookmarks))
			for i, b := range a.Bookmarks {
				items[i] = b.params()
			}
			return ws.Store.BatchAddBookmarks(ctx, a.GroupID, a.ParentID, items)
		},
	}
}
