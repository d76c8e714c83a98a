package store

import (
	"fmt"
	"strings"

	"github.com/linonon/aibookmarks/internal/domain"
)

// ExportMarkdown renders every group and bookmark exactly once, groups in
// stored order and bookmarks nested under their parents in order.
func (s *Store) ExportMarkdown() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	title := s.data.ProjectName
	if title == "" {
		title = "workspace"
	}
	fmt.Fprintf(&sb, "# AI Bookmarks: %s\n", title)

	if len(s.data.Groups) == 0 {
		sb.WriteString("\n_No bookmarks._\n")
		return sb.String()
	}

	for _, g := range s.data.Groups {
		writeGroup(&sb, g)
	}
	return sb.String()
}

func writeGroup(sb *strings.Builder, g domain.Group) {
	fmt.Fprintf(sb, "\n## %s\n\n", g.Name)
	if g.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", g.Description)
	}
	if g.Query != "" {
		fmt.Fprintf(sb, "> Query: %s\n\n", g.Query)
	}
	fmt.Fprintf(sb, "_Created by %s, updated %s_\n\n", g.CreatedBy, g.UpdatedAt.Format("2006-01-02 15:04"))

	if len(g.Bookmarks) == 0 {
		sb.WriteString("_Empty group._\n")
		return
	}

	visited := make(map[string]struct{}, len(g.Bookmarks))
	for _, ri := range rootIndexes(g.Bookmarks) {
		writeBookmark(sb, g.Bookmarks, ri, 0, visited)
	}
	// Bookmarks caught in a parent cycle have no root; emit them flat.
	for i := range g.Bookmarks {
		if _, seen := visited[g.Bookmarks[i].ID]; !seen {
			writeBookmark(sb, g.Bookmarks, i, 0, visited)
		}
	}
}

func writeBookmark(sb *strings.Builder, bookmarks []domain.Bookmark, bi, depth int, visited map[string]struct{}) {
	b := bookmarks[bi]
	visited[b.ID] = struct{}{}

	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString("- ")
	if b.Category != "" {
		fmt.Fprintf(sb, "[%s] ", b.Category)
	}
	fmt.Fprintf(sb, "**%s** `%s`\n", b.Title, b.Location)

	if b.Description != "" {
		for _, line := range strings.Split(b.Description, "\n") {
			fmt.Fprintf(sb, "%s  %s\n", indent, line)
		}
	}
	if len(b.Tags) > 0 {
		fmt.Fprintf(sb, "%s  Tags: %s\n", indent, strings.Join(b.Tags, ", "))
	}

	for _, ci := range childIndexes(bookmarks, b.ID) {
		if _, seen := visited[bookmarks[ci].ID]; seen {
			continue
		}
		writeBookmark(sb, bookmarks, ci, depth+1, visited)
	}
}
