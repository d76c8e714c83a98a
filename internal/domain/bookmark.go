package domain

// Bookmark is a titled pointer to a file location inside a workspace.
// Bookmarks live inside exactly one Group; nesting is expressed with
// ParentID referencing another bookmark of the same group.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is an opaque random identifier (uuid v4).
	ID string `json:"id"`

	// Order positions the bookmark among its siblings.
	// Duplicates are allowed; ties keep insertion order.
	Order int `json:"order"`

	// ─────────────────────────────
	// Target
	// ─────────────────────────────

	// Location is the encoded position, "path:line" or "path:start-end".
	// The path is stored relative to the workspace root when possible.
	Location string `json:"location"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// CodeSnapshot is the verbatim text of the bookmarked lines at
	// creation or last sync. Only used for drift detection.
	CodeSnapshot string `json:"codeSnapshot,omitempty"`

	// ─────────────────────────────
	// Hierarchy
	// ─────────────────────────────

	// ParentID references a bookmark in the same group. Empty means top-level.
	ParentID string `json:"parentId,omitempty"`
}

// Clone returns a deep copy of the bookmark.
func (b Bookmark) Clone() Bookmark {
	if b.Tags != nil {
		b.Tags = append([]string(nil), b.Tags...)
	}
	return b
}

// HasAnyTag reports whether any of the given tags is present on the bookmark.
func (b Bookmark) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range b.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
