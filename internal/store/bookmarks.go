package store

import (
	"context"

	"github.com/linonon/aibookmarks/internal/domain"
	apperrors "github.com/linonon/aibookmarks/internal/errors"
)

// NewBookmarkParams describes a bookmark to add.
type NewBookmarkParams struct {
	Location    string
	Title       string
	Description string

	Order        *int // nil picks max sibling order + 1
	Category     domain.Category
	Tags         []string
	CodeSnapshot string
	ParentID     string
}

// BookmarkUpdate is a partial bookmark update; nil fields are left alone.
// A non-nil ParentID pointing at "" moves the bookmark to the top level.
type BookmarkUpdate struct {
	Location     *string
	Title        *string
	Description  *string
	Order        *int
	Category     *domain.Category
	Tags         *[]string
	CodeSnapshot *string
	ParentID     *string
}

// BookmarkWithGroup is a bookmark together with its owning group.
type BookmarkWithGroup struct {
	domain.Bookmark
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName"`
}

// AddBookmark appends a bookmark to a group and returns its id.
func (s *Store) AddBookmark(ctx context.Context, groupID string, p NewBookmarkParams) (string, error) {
	s.mu.Lock()
	gi := s.groupIndex(groupID)
	if gi == -1 {
		s.mu.Unlock()
		return "", apperrors.NotFound("group %s not found", groupID)
	}

	id, err := s.addLocked(gi, p)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.touchLocked(gi)
	s.commitLocked(ctx)

	return id, nil
}

// addLocked validates and inserts one bookmark without persisting.
func (s *Store) addLocked(gi int, p NewBookmarkParams) (string, error) {
	g := &s.data.Groups[gi]

	if p.ParentID != "" {
		if err := s.checkParentLocked(gi, p.ParentID); err != nil {
			return "", err
		}
	}

	location, err := domain.NormalizeLocation(s.root, p.Location)
	if err != nil {
		return "", err
	}

	order := nextSiblingOrder(g.Bookmarks, p.ParentID)
	if p.Order != nil {
		order = *p.Order
	}

	b := domain.Bookmark{
		ID:           domain.NewID(),
		Order:        order,
		Location:     location,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		CodeSnapshot: p.CodeSnapshot,
		ParentID:     p.ParentID,
	}
	if len(p.Tags) > 0 {
		b.Tags = append([]string(nil), p.Tags...)
	}

	g.Bookmarks = append(g.Bookmarks, b)
	sortByOrder(g.Bookmarks)

	return b.ID, nil
}

// GetBookmark returns a copy of the bookmark and its owning group.
func (s *Store) GetBookmark(id string) (BookmarkWithGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gi, bi := s.locateLocked(id)
	if gi == -1 {
		return BookmarkWithGroup{}, false
	}
	return s.withGroupLocked(gi, bi), true
}

// UpdateBookmark applies a partial update. Every field is checked before
// anything changes, so a rejected reparent leaves the bookmark untouched.
func (s *Store) UpdateBookmark(ctx context.Context, id string, u BookmarkUpdate) error {
	s.mu.Lock()
	gi, bi := s.locateLocked(id)
	if gi == -1 {
		s.mu.Unlock()
		return apperrors.NotFound("bookmark %s not found", id)
	}

	g := &s.data.Groups[gi]
	b := g.Bookmarks[bi].Clone()

	if u.Location != nil {
		location, err := domain.NormalizeLocation(s.root, *u.Location)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		b.Location = location
	}

	if u.ParentID != nil {
		if err := s.checkReparentLocked(gi, id, *u.ParentID); err != nil {
			s.mu.Unlock()
			return err
		}
		b.ParentID = *u.ParentID
	}

	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.Order != nil {
		b.Order = *u.Order
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	if u.Tags != nil {
		b.Tags = append([]string(nil), (*u.Tags)...)
	}
	if u.CodeSnapshot != nil {
		b.CodeSnapshot = *u.CodeSnapshot
	}

	g.Bookmarks[bi] = b
	if u.Order != nil || u.ParentID != nil {
		sortByOrder(g.Bookmarks)
	}
	s.touchLocked(gi)
	s.commitLocked(ctx)

	return nil
}

// RemoveBookmark deletes a bookmark and all of its descendants.
// It returns the number of bookmarks removed.
func (s *Store) RemoveBookmark(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	gi, _ := s.locateLocked(id)
	if gi == -1 {
		s.mu.Unlock()
		return 0, apperrors.NotFound("bookmark %s not found", id)
	}

	g := &s.data.Groups[gi]
	doomed := map[string]struct{}{id: {}}
	for _, d := range descendantIDs(g.Bookmarks, id) {
		doomed[d] = struct{}{}
	}

	kept := g.Bookmarks[:0]
	for _, b := range g.Bookmarks {
		if _, ok := doomed[b.ID]; !ok {
			kept = append(kept, b)
		}
	}
	removed := len(g.Bookmarks) - len(kept)
	g.Bookmarks = kept

	s.touchLocked(gi)
	s.commitLocked(ctx)

	return removed, nil
}

// GetBookmarksByFile lists every bookmark whose path matches path.
func (s *Store) GetBookmarksByFile(path string) []BookmarkWithGroup {
	return s.ListBookmarks(ListFilter{FilePath: path})
}

// GetAllBookmarks lists every bookmark of every group.
func (s *Store) GetAllBookmarks() []BookmarkWithGroup {
	return s.ListBookmarks(ListFilter{})
}

// checkParentLocked verifies parentID names a bookmark of group gi.
func (s *Store) checkParentLocked(gi int, parentID string) error {
	if bookmarkIndex(s.data.Groups[gi].Bookmarks, parentID) != -1 {
		return nil
	}
	if other, _ := s.locateLocked(parentID); other != -1 {
		return apperrors.InvalidHierarchy("parent bookmark %s belongs to another group", parentID)
	}
	return apperrors.NotFound("parent bookmark %s not found", parentID)
}

// checkReparentLocked rejects moves that would leave the group or make id
// its own ancestor.
func (s *Store) checkReparentLocked(gi int, id, newParentID string) error {
	if newParentID == "" {
		return nil
	}
	if newParentID == id {
		return apperrors.InvalidHierarchy("bookmark %s cannot be its own parent", id)
	}
	if err := s.checkParentLocked(gi, newParentID); err != nil {
		return err
	}
	for _, d := range descendantIDs(s.data.Groups[gi].Bookmarks, id) {
		if d == newParentID {
			return apperrors.InvalidHierarchy("bookmark %s is a descendant of %s", newParentID, id)
		}
	}
	return nil
}

func (s *Store) locateLocked(id string) (gi, bi int) {
	for i := range s.data.Groups {
		if j := bookmarkIndex(s.data.Groups[i].Bookmarks, id); j != -1 {
			return i, j
		}
	}
	return -1, -1
}

func (s *Store) withGroupLocked(gi, bi int) BookmarkWithGroup {
	g := &s.data.Groups[gi]
	return BookmarkWithGroup{
		Bookmark:  g.Bookmarks[bi].Clone(),
		GroupID:   g.ID,
		GroupName: g.Name,
	}
}
