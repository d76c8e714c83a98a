package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linonon/aibookmarks/internal/domain"
)

// ErrCorruptDocument marks a persisted document that cannot be decoded.
var ErrCorruptDocument = errors.New("corrupt store document")

// EncodeDocument renders the store as 2-space indented JSON with a
// trailing newline.
func EncodeDocument(s *domain.Store) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal store: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeDocument parses a persisted store document.
func DecodeDocument(data []byte) (*domain.Store, error) {
	var s domain.Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return &s, nil
}
