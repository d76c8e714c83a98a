package store

import (
	"sort"

	"github.com/linonon/aibookmarks/internal/domain"
)

// SearchHit is a bookmark ranked against a search query.
type SearchHit struct {
	BookmarkWithGroup
	Score float64 `json:"score"`
}

// SearchBookmarks ranks the bookmarks matching f by how well their title,
// tags, file or description match query, best first. Equal scores keep
// stored order. A limit <= 0 returns every hit.
func (s *Store) SearchBookmarks(query string, f ListFilter, limit int) []SearchHit {
	hits := []SearchHit{}
	for _, b := range s.ListBookmarks(f) {
		if score := domain.ScoreBookmark(query, b.Bookmark); score > 0 {
			hits = append(hits, SearchHit{BookmarkWithGroup: b, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
