package store

import (
	"context"

	"github.com/linonon/aibookmarks/internal/domain"
	apperrors "github.com/linonon/aibookmarks/internal/errors"
)

// NewGroupParams describes a group to create.
type NewGroupParams struct {
	Name        string
	Description string
	Query       string
	CreatedBy   domain.Creator // defaults to user
}

// GroupUpdate is a partial group update; nil fields are left alone.
type GroupUpdate struct {
	Name        *string
	Description *string
}

// CreateGroup adds an empty group and returns its id.
func (s *Store) CreateGroup(ctx context.Context, p NewGroupParams) string {
	createdBy := p.CreatedBy
	if createdBy == "" {
		createdBy = domain.CreatorUser
	}

	s.mu.Lock()
	now := s.timestamp()
	g := domain.Group{
		ID:          domain.NewID(),
		Name:        p.Name,
		Description: p.Description,
		Query:       p.Query,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
		Bookmarks:   []domain.Bookmark{},
	}
	s.data.Groups = append(s.data.Groups, g)
	s.commitLocked(ctx)

	return g.ID
}

// GetGroup returns a copy of the group with the given id.
func (s *Store) GetGroup(id string) (domain.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gi := s.groupIndex(id)
	if gi == -1 {
		return domain.Group{}, false
	}
	return s.data.Groups[gi].Clone(), true
}

// ListGroups returns copies of every group, optionally filtered by creator.
func (s *Store) ListGroups(createdBy domain.Creator) []domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]domain.Group, 0, len(s.data.Groups))
	for _, g := range s.data.Groups {
		if createdBy != "" && g.CreatedBy != createdBy {
			continue
		}
		groups = append(groups, g.Clone())
	}
	return groups
}

// UpdateGroup applies a partial update and refreshes updatedAt.
func (s *Store) UpdateGroup(ctx context.Context, id string, u GroupUpdate) error {
	s.mu.Lock()
	gi := s.groupIndex(id)
	if gi == -1 {
		s.mu.Unlock()
		return apperrors.NotFound("group %s not found", id)
	}

	g := &s.data.Groups[gi]
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	g.UpdatedAt = s.timestamp()
	s.commitLocked(ctx)

	return nil
}

// RemoveGroup deletes a group together with all of its bookmarks.
// It returns the number of bookmarks removed.
func (s *Store) RemoveGroup(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	gi := s.groupIndex(id)
	if gi == -1 {
		s.mu.Unlock()
		return 0, apperrors.NotFound("group %s not found", id)
	}

	removed := len(s.data.Groups[gi].Bookmarks)
	s.data.Groups = append(s.data.Groups[:gi], s.data.Groups[gi+1:]...)
	s.commitLocked(ctx)

	return removed, nil
}

// ClearResult reports what ClearAll removed.
type ClearResult struct {
	GroupsRemoved    int `json:"groupsRemoved"`
	BookmarksRemoved int `json:"bookmarksRemoved"`
}

// ClearAll removes every group and bookmark unconditionally.
func (s *Store) ClearAll(ctx context.Context) ClearResult {
	s.mu.Lock()
	res := ClearResult{
		GroupsRemoved:    len(s.data.Groups),
		BookmarksRemoved: s.data.BookmarkCount(),
	}
	s.data.Groups = []domain.Group{}
	s.commitLocked(ctx)

	return res
}

func (s *Store) groupIndex(id string) int {
	for i := range s.data.Groups {
		if s.data.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) touchLocked(gi int) {
	s.data.Groups[gi].UpdatedAt = s.timestamp()
}
