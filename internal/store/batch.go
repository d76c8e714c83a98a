package store

import (
	"context"
	"strings"

	apperrors "github.com/linonon/aibookmarks/internal/errors"
)

// BatchItemResult is the outcome of one item of a batch add.
type BatchItemResult struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates a batch add.
type BatchResult struct {
	Results      []BatchItemResult `json:"results"`
	SuccessCount int               `json:"successCount"`
	FailureCount int               `json:"failureCount"`
}

// BatchAddBookmarks adds items to a group in one save. Items without their
// own ParentID are placed under parentID (top level when empty). A failing
// item is reported and does not stop the others.
func (s *Store) BatchAddBookmarks(ctx context.Context, groupID, parentID string, items []NewBookmarkParams) (BatchResult, error) {
	s.mu.Lock()
	gi := s.groupIndex(groupID)
	if gi == -1 {
		s.mu.Unlock()
		return BatchResult{}, apperrors.NotFound("group %s not found", groupID)
	}
	if parentID != "" {
		if err := s.checkParentLocked(gi, parentID); err != nil {
			s.mu.Unlock()
			return BatchResult{}, err
		}
	}

	res := BatchResult{Results: make([]BatchItemResult, 0, len(items))}
	for i, item := range items {
		if item.ParentID == "" {
			item.ParentID = parentID
		}

		id, err := s.addItemLocked(gi, item)
		if err != nil {
			res.FailureCount++
			res.Results = append(res.Results, BatchItemResult{Index: i, Error: err.Error()})
			continue
		}
		res.SuccessCount++
		res.Results = append(res.Results, BatchItemResult{Index: i, Success: true, ID: id})
	}

	if res.SuccessCount == 0 {
		s.mu.Unlock()
		return res, nil
	}
	s.touchLocked(gi)
	s.commitLocked(ctx)

	return res, nil
}

func (s *Store) addItemLocked(gi int, item NewBookmarkParams) (string, error) {
	var missing []string
	if strings.TrimSpace(item.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(item.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(item.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return "", apperrors.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if item.Category != "" && !item.Category.Valid() {
		return "", apperrors.Validation("invalid category %q", item.Category)
	}

	return s.addLocked(gi, item)
}
