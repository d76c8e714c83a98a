// Package workspace routes requests to the store of the right workspace.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/linonon/aibookmarks/internal/drift"
	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/logger"
	"github.com/linonon/aibookmarks/internal/scheduler"
	"github.com/linonon/aibookmarks/internal/store"
)

// Workspace bundles the components serving one workspace root.
type Workspace struct {
	Root  string
	Store *store.Store
	Drift *drift.Handler

	// Reloader may be nil when nothing watches the backing document.
	Reloader      *scheduler.StoreReloader
	ReloadTrigger chan struct{}
}

// TriggerReload asks the reloader for a reload without blocking. It
// reports false when a reload is already pending or nothing listens.
func (w *Workspace) TriggerReload() bool {
	if w.ReloadTrigger == nil {
		return false
	}
	select {
	case w.ReloadTrigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Close stops background work for the workspace.
func (w *Workspace) Close() {
	if w.Reloader != nil {
		w.Reloader.Stop()
	}
}

// Factory builds and loads the workspace for a normalized root.
type Factory func(ctx context.Context, root string) (*Workspace, error)

// Registry holds one Workspace per normalized root, created on first use.
type Registry struct {
	mu          sync.RWMutex
	workspaces  map[string]*Workspace // root -> workspace
	defaultRoot string
	factory     Factory
	logger      logger.Logger
}

// NewRegistry creates a registry whose empty-root lookups go to defaultRoot.
func NewRegistry(defaultRoot string, factory Factory, log logger.Logger) (*Registry, error) {
	root, err := NormalizeRoot(defaultRoot)
	if err != nil {
		return nil, err
	}
	return &Registry{
		workspaces:  make(map[string]*Workspace),
		defaultRoot: root,
		factory:     factory,
		logger:      log,
	}, nil
}

// NormalizeRoot makes root absolute and clean so equivalent spellings share
// a registry entry.
func NormalizeRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root %q: %w", root, err)
	}
	return filepath.Clean(abs), nil
}

// DefaultRoot returns the normalized default workspace root.
func (r *Registry) DefaultRoot() string { return r.defaultRoot }

// Default returns the default workspace.
func (r *Registry) Default(ctx context.Context) (*Workspace, error) {
	return r.Get(ctx, "")
}

// Get returns the workspace for root, building it on first use.
// An empty root selects the default workspace.
func (r *Registry) Get(ctx context.Context, root string) (*Workspace, error) {
	key := r.defaultRoot
	if root != "" {
		var err error
		if key, err = NormalizeRoot(root); err != nil {
			return nil, err
		}
	}

	r.mu.RLock()
	ws, ok := r.workspaces[key]
	r.mu.RUnlock()
	if ok {
		return ws, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.workspaces[key]; ok {
		return ws, nil
	}

	// Other roots are opened on request; never create one.
	if key != r.defaultRoot {
		if info, err := os.Stat(key); err != nil || !info.IsDir() {
			return nil, apperrors.Validation("workspace %s is not an existing directory", key)
		}
	}

	ws, err := r.factory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace %s: %w", key, err)
	}
	r.workspaces[key] = ws

	r.logger.Info("workspace opened",
		logger.String("root", key),
		logger.Int("open", len(r.workspaces)))

	return ws, nil
}

// Roots lists the open workspace roots in sorted order.
func (r *Registry) Roots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roots := make([]string, 0, len(r.workspaces))
	for root := range r.workspaces {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

// Close closes every open workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for root, ws := range r.workspaces {
		ws.Close()
		delete(r.workspaces, root)
	}
}
