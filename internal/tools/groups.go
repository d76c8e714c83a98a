package tools

import (
	"context"
	"encoding/json"

	"github.com/linonon/aibookmarks/internal/domain"
	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/store"
	"github.com/linonon/aibookmarks/internal/workspace"
)

// GroupSummary is a group without its bookmarks, as listed.
type GroupSummary struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Query         string         `json:"query,omitempty"`
	CreatedBy     domain.Creator `json:"createdBy"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
	BookmarkCount int            `json:"bookmarkCount"`
}

func summarizeGroup(g domain.Group) GroupSummary {
	return GroupSummary{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		Query:         g.Query,
		CreatedBy:     g.CreatedBy,
		CreatedAt:     g.CreatedAt.Format(timeFormat),
		UpdatedAt:     g.UpdatedAt.Format(timeFormat),
		BookmarkCount: len(g.Bookmarks),
	}
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func createGroupTool() Tool {
	type args struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Query       string `json:"query"`
		CreatedBy   string `json:"createdBy"`
	}
	return &funcTool{
		name:        "create_group",
		description: "Create a bookmark group, usually one per question or topic. Returns the group id.",
		params: object(map[string]any{
			"name":        nonEmpty("Group name."),
			"description": str("What the group is about."),
			"query":       str("The request that led to this group."),
			"createdBy":   creator(),
		}, "name"),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			createdBy := domain.Creator(a.CreatedBy)
			if createdBy == "" {
				createdBy = domain.CreatorAI
			}
			id := ws.Store.CreateGroup(ctx, store.NewGroupParams{
				Name:        a.Name,
				Description: a.Description,
				Query:       a.Query,
				CreatedBy:   createdBy,
			})
			return map[string]string{"groupId": id}, nil
		},
	}
}

func getGroupTool() Tool {
	type args struct {
		GroupID string `json:"groupId"`
	}
	return &funcTool{
		name:        "get_group",
		description: "Get a group with all of its bookmarks.",
		params: object(map[string]any{
			"groupId": nonEmpty("Group id."),
		}, "groupId"),
		run: func(_ context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			g, ok := ws.Store.GetGroup(a.GroupID)
			if !ok {
				return nil, apperrors.NotFound("group %s not found", a.GroupID)
			}
			return g, nil
		},
	}
}

func listGroupsTool() Tool {
	type args struct {
		CreatedBy string `json:"createdBy"`
	}
	return &funcTool{
		name:        "list_groups",
		description: "List bookmark groups, optionally only those created by the AI or by the user.",
		params: object(map[string]any{
			"createdBy": creator(),
		}),
		run: func(_ context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			groups := ws.Store.ListGroups(domain.Creator(a.CreatedBy))
			out := make([]GroupSummary, len(groups))
			for i, g := range groups {
				out[i] = summarizeGroup(g)
			}
			return map[string]any{"groups": out, "count": len(out)}, nil
		},
	}
}

func updateGroupTool() Tool {
	type args struct {
		GroupID     string  `json:"groupId"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	return &funcTool{
		name:        "update_group",
		description: "Rename a group or change its description. Omitted fields are left alone.",
		params: object(map[string]any{
			"groupId":     nonEmpty("Group id."),
			"name":        nonEmpty("New name."),
			"description": str("New description."),
		}, "groupId"),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			if err := ws.Store.UpdateGroup(ctx, a.GroupID, store.GroupUpdate{Name: a.Name, Description: a.Description}); err != nil {
				return nil, err
			}
			return map[string]any{"groupId": a.GroupID, "updated": true}, nil
		},
	}
}

func deleteGroupTool() Tool {
	type args struct {
		GroupID string `json:"groupId"`
	}
	return &funcTool{
		name:        "delete_group",
		description: "Delete a group and every bookmark in it.",
		params: object(map[string]any{
			"groupId": nonEmpty("Group id."),
		}, "groupId"),
		run: func(ctx context.Context, ws *workspace.Workspace, raw json.RawMessage) (any, error) {
			a, err := decode[args](raw)
			if err != nil {
				return nil, err
			}
			removed, err := ws.Store.RemoveGroup(ctx, a.GroupID)
			if err != nil {
				return nil, err
			}
			return map[string]any{"groupId": a.GroupID, "bookmarksRemoved": removed}, nil
		},
	}
}
