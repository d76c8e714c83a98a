// Package jsonfile persists the store as a pretty-printed JSON document
// at a fixed path under the workspace root.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/linonon/aibookmarks/internal/domain"
	"github.com/linonon/aibookmarks/internal/store"
)

// DefaultRelPath is where the store lives inside a workspace.
const DefaultRelPath = ".vscode/ai-bookmarks.json"

// Persister implements store.Persister on a single file.
type Persister struct {
	path string
}

// New returns a persister for path. Relative paths are resolved against
// workspaceRoot.
func New(workspaceRoot, path string) *Persister {
	if path == "" {
		path = DefaultRelPath
	}
	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspaceRoot, path)
	}
	return &Persister{path: path}
}

// Path returns the absolute file path.
func (p *Persister) Path() string { return p.path }

// Location implements store.Persister.
func (p *Persister) Location() string { return p.path }

// Load reads and decodes the file. A missing file surfaces as an error
// wrapping fs.ErrNotExist; unparsable content as store.ErrCorruptDocument.
func (p *Persister) Load(_ context.Context) (*domain.Store, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	return store.DecodeDocument(data)
}

// Save writes the document atomically: a temp file in the same directory
// is renamed over the target. Missing directories are created.
func (p *Persister) Save(_ context.Context, s *domain.Store) error {
	data, err := store.EncodeDocument(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ai-bookmarks-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close store file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to chmod store file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
