package store

import (
	"sort"

	"github.com/linonon/aibookmarks/internal/domain"
)

// UnlimitedDepth asks GetBookmarkTree for every level.
const UnlimitedDepth = -1

// TreeNode is a bookmark with its nested children materialized.
type TreeNode struct {
	domain.Bookmark
	Depth    int         `json:"depth"`
	Children []*TreeNode `json:"children"`
}

// GetBookmarkTree returns the bookmark and its descendants down to maxDepth
// levels; depth 0 is the bookmark itself. A negative maxDepth is unbounded.
func (s *Store) GetBookmarkTree(id string, maxDepth int) (*TreeNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gi, bi := s.locateLocked(id)
	if gi == -1 {
		return nil, false
	}

	bookmarks := s.data.Groups[gi].Bookmarks
	visited := make(map[string]struct{})
	return buildTree(bookmarks, bi, 0, maxDepth, visited), true
}

func buildTree(bookmarks []domain.Bookmark, bi, depth, maxDepth int, visited map[string]struct{}) *TreeNode {
	b := bookmarks[bi]
	visited[b.ID] = struct{}{}

	node := &TreeNode{Bookmark: b.Clone(), Depth: depth, Children: []*TreeNode{}}
	if maxDepth >= 0 && depth >= maxDepth {
		return node
	}

	for _, ci := range childIndexes(bookmarks, b.ID) {
		if _, seen := visited[bookmarks[ci].ID]; seen {
			continue
		}
		node.Children = append(node.Children, buildTree(bookmarks, ci, depth+1, maxDepth, visited))
	}
	return node
}

// sortByOrder is a single flat stable sort of a group's bookmarks, not
// aware of nesting. Sibling order still holds since it is a subsequence.
func sortByOrder(bookmarks []domain.Bookmark) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		return bookmarks[i].Order < bookmarks[j].Order
	})
}

func bookmarkIndex(bookmarks []domain.Bookmark, id string) int {
	for i := range bookmarks {
		if bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextSiblingOrder returns max(order of siblings under parentID) + 1, or 1.
func nextSiblingOrder(bookmarks []domain.Bookmark, parentID string) int {
	next := 1
	for _, b := range bookmarks {
		if b.ParentID == parentID && b.Order >= next {
			next = b.Order + 1
		}
	}
	return next
}

// childIndexes returns the direct children of parentID in stored order.
func childIndexes(bookmarks []domain.Bookmark, parentID string) []int {
	var out []int
	for i := range bookmarks {
		if bookmarks[i].ParentID == parentID {
			out = append(out, i)
		}
	}
	return out
}

// descendantIDs walks the subtree under id in pre-order, excluding id.
// Corrupt documents may contain cycles; each bookmark is visited once.
func descendantIDs(bookmarks []domain.Bookmark, id string) []string {
	var out []string
	visited := map[string]struct{}{id: {}}

	var walk func(parentID string)
	walk = func(parentID string) {
		for _, ci := range childIndexes(bookmarks, parentID) {
			child := bookmarks[ci].ID
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)

	return out
}

// rootIndexes returns the top-level bookmarks of a group. Bookmarks whose
// parent no longer exists are treated as top-level.
func rootIndexes(bookmarks []domain.Bookmark) []int {
	var out []int
	for i, b := range bookmarks {
		if b.ParentID == "" || bookmarkIndex(bookmarks, b.ParentID) == -1 {
			out = append(out, i)
		}
	}
	return out
}
