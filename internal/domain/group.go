package domain

import (
	"path/filepath"
	"time"
)

// SchemaVersion is the version written into every persisted store.
const SchemaVersion = 1

// Creator tells who created a group.
type Creator string

const (
	CreatorAI   Creator = "ai"
	CreatorUser Creator = "user"
)

// Valid reports whether c is one of the known creators.
func (c Creator) Valid() bool {
	return c == CreatorAI || c == CreatorUser
}

// Group is a named collection of bookmarks, usually one per AI query or topic.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Query is the natural-language request that produced the group.
	// Provenance only.
	Query string `json:"query,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy Creator   `json:"createdBy"`

	// Bookmarks holds every bookmark of the group at every nesting level,
	// kept sorted by Order (flat, not hierarchy-aware).
	Bookmarks []Bookmark `json:"bookmarks"`
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	bookmarks := make([]Bookmark, len(g.Bookmarks))
	for i, b := range g.Bookmarks {
		bookmarks[i] = b.Clone()
	}
	g.Bookmarks = bookmarks
	return g
}

// Store is the root persisted document, one per workspace.
type Store struct {
	Version     int     `json:"version"`
	ProjectName string  `json:"projectName"`
	Groups      []Group `json:"groups"`
}

// NewStore builds the default empty store for a workspace root.
// The project name is the workspace directory name.
func NewStore(workspaceRoot string) *Store {
	name := filepath.Base(filepath.Clean(workspaceRoot))
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	return &Store{
		Version:     SchemaVersion,
		ProjectName: name,
		Groups:      []Group{},
	}
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	out := &Store{
		Version:     s.Version,
		ProjectName: s.ProjectName,
		Groups:      make([]Group, len(s.Groups)),
	}
	for i, g := range s.Groups {
		out.Groups[i] = g.Clone()
	}
	return out
}

// BookmarkCount returns the number of bookmarks across all groups.
func (s *Store) BookmarkCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Bookmarks)
	}
	return n
}
