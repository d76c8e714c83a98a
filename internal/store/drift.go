package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/linonon/aibookmarks/internal/domain"
	"github.com/linonon/aibookmarks/internal/logger"
)

// AdjustBookmarksForFileChange shifts every bookmark in path after a single
// edit. It returns how many bookmarks moved.
func (s *Store) AdjustBookmarksForFileChange(ctx context.Context, path string, editStartLine, lineDelta int) int {
	return s.ApplyFileChange(ctx, path, []domain.LineEdit{{StartLine: editStartLine, LineDelta: lineDelta}})
}

// ApplyFileChange folds edits, in the order the editor reported them, over
// every bookmark of path across all groups. Anything that moved is saved
// once and announced once. Bookmarks with malformed locations are skipped.
func (s *Store) ApplyFileChange(ctx context.Context, path string, edits []domain.LineEdit) int {
	target := domain.NormalizePath(s.root, path)

	s.mu.Lock()
	moved, skipped := 0, 0
	for gi := range s.data.Groups {
		g := &s.data.Groups[gi]
		groupMoved := false

		for bi := range g.Bookmarks {
			b := &g.Bookmarks[bi]
			loc, err := domain.ParseLocation(b.Location)
			if err != nil {
				skipped++
				continue
			}
			if !domain.SameFile(loc.FilePath, target) {
				continue
			}

			adjusted, changed := domain.ApplyEdits(loc, edits)
			if !changed {
				continue
			}
			b.Location = adjusted.String()
			groupMoved = true
			moved++
		}

		if groupMoved {
			s.touchLocked(gi)
		}
	}

	if skipped > 0 {
		s.logger.Debug("skipped bookmarks with malformed locations",
			logger.String("file", target),
			logger.Int("count", skipped))
	}

	if moved == 0 {
		s.mu.Unlock()
		return 0
	}
	s.commitLocked(ctx)

	return moved
}

// ContentFetcher returns the current text of a file.
type ContentFetcher func(ctx context.Context, path string) (string, error)

// ReadFile is a ContentFetcher backed by the local filesystem.
func ReadFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ValidityReport is the outcome of a drift check for one bookmark.
type ValidityReport struct {
	BookmarkID string          `json:"bookmarkId"`
	Location   string          `json:"location"`
	Status     domain.Validity `json:"status"`
	Similarity float64         `json:"similarity"`
	Reason     string          `json:"reason,omitempty"`
	Current    string          `json:"currentCode,omitempty"`
	Diff       string          `json:"diff,omitempty"`
}

// CheckBookmarkValidity compares the bookmark's snapshot with the current
// text of its lines, read through fetch outside the store lock. It reports
// false when the bookmark does not exist or its location cannot be parsed.
func (s *Store) CheckBookmarkValidity(ctx context.Context, id string, fetch ContentFetcher) (ValidityReport, bool) {
	s.mu.Lock()
	gi, bi := s.locateLocked(id)
	if gi == -1 {
		s.mu.Unlock()
		return ValidityReport{}, false
	}
	b := s.data.Groups[gi].Bookmarks[bi].Clone()
	s.mu.Unlock()

	loc, err := domain.ParseLocation(b.Location)
	if err != nil {
		return ValidityReport{}, false
	}

	report := ValidityReport{BookmarkID: b.ID, Location: b.Location}

	file, ok := s.resolvePath(loc.FilePath)
	if !ok {
		report.Status = domain.ValidityInvalid
		report.Reason = "file is outside the workspace"
		return report, true
	}

	content, err := fetch(ctx, file)
	if err != nil {
		report.Status = domain.ValidityInvalid
		report.Reason = fmt.Sprintf("failed to read file: %v", err)
		return report, true
	}

	lo, hi := loc.Bounds()
	current, ok := domain.ExtractLines(content, lo, hi)
	if !ok {
		report.Status = domain.ValidityInvalid
		report.Reason = fmt.Sprintf("lines %d-%d are outside the file", lo, hi)
		return report, true
	}

	report.Current = current
	report.Status, report.Similarity = domain.ClassifyDrift(b.CodeSnapshot, current)
	switch report.Status {
	case domain.ValidityChanged:
		report.Reason = "code changed since the snapshot"
	case domain.ValidityInvalid:
		report.Reason = "code no longer resembles the snapshot"
	}
	if report.Status != domain.ValidityValid {
		report.Diff = unifiedDiff(b.CodeSnapshot, current)
	}
	return report, true
}

// resolvePath makes a stored path absolute against the workspace root.
// Paths that resolve outside the root report false and are never read.
func (s *Store) resolvePath(p string) (string, bool) {
	p = filepath.FromSlash(p)
	if s.root == "" {
		return p, true
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Clean(p), true
}

func unifiedDiff(snapshot, current string) string {
	a, b := withNewline(snapshot), withNewline(current)
	edits := myers.ComputeEdits(span.URIFromPath("snapshot"), a, b)
	return fmt.Sprint(gotextdiff.ToUnified("snapshot", "current", a, edits))
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
