package store

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/linonon/aibookmarks/internal/domain"
)

// ListFilter narrows ListBookmarks. Zero fields do not filter; the rest
// combine with AND.
type ListFilter struct {
	GroupID string

	// ParentID keeps direct children of that bookmark, or its whole
	// subtree in pre-order when IncludeDescendants is set.
	ParentID           string
	IncludeDescendants bool

	// FilePath matches by substring containment in either direction.
	FilePath string
	// FileGlob is a doublestar pattern matched against the stored path.
	FileGlob string

	Category domain.Category
	// Tags matches bookmarks carrying any of them.
	Tags []string
}

// ListBookmarks returns copies of every bookmark matching f, each with its
// group attached. Results follow group order, then stored order.
func (s *Store) ListBookmarks(f ListFilter) []BookmarkWithGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	queryPath := ""
	if f.FilePath != "" {
		queryPath = domain.NormalizePath(s.root, f.FilePath)
	}

	out := []BookmarkWithGroup{}
	for gi := range s.data.Groups {
		g := &s.data.Groups[gi]
		if f.GroupID != "" && g.ID != f.GroupID {
			continue
		}

		for _, bi := range candidateIndexes(g.Bookmarks, f) {
			if matchBookmark(g.Bookmarks[bi], f, queryPath) {
				out = append(out, s.withGroupLocked(gi, bi))
			}
		}
	}
	return out
}

// candidateIndexes applies the hierarchy part of the filter.
func candidateIndexes(bookmarks []domain.Bookmark, f ListFilter) []int {
	if f.ParentID == "" {
		all := make([]int, len(bookmarks))
		for i := range bookmarks {
			all[i] = i
		}
		return all
	}

	if bookmarkIndex(bookmarks, f.ParentID) == -1 {
		return nil
	}
	if !f.IncludeDescendants {
		return childIndexes(bookmarks, f.ParentID)
	}

	ids := descendantIDs(bookmarks, f.ParentID)
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = append(out, bookmarkIndex(bookmarks, id))
	}
	return out
}

func matchBookmark(b domain.Bookmark, f ListFilter, queryPath string) bool {
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if len(f.Tags) > 0 && !b.HasAnyTag(f.Tags) {
		return false
	}

	if queryPath == "" && f.FileGlob == "" {
		return true
	}

	// Malformed locations never match a path filter.
	loc, err := domain.ParseLocation(b.Location)
	if err != nil {
		return false
	}
	if queryPath != "" && !domain.PathsMatch(loc.FilePath, queryPath) {
		return false
	}
	if f.FileGlob != "" {
		// An invalid pattern matches nothing; callers validate it up front.
		ok, err := doublestar.Match(f.FileGlob, loc.FilePath)
		if err != nil || !ok {
			return false
		}
	}
	return true
}
