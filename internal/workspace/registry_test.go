package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/linonon/aibookmarks/internal/domain"
	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/logger"
	"github.com/linonon/aibookmarks/internal/store"
)

// memory persists nothing; every load starts from the default store.
type memory struct{}

func (memory) Load(context.Context) (*domain.Store, error) { return nil, fs.ErrNotExist }
func (memory) Save(context.Context, *domain.Store) error   { return nil }
func (memory) Location() string                            { return "memory" }

func countingFactory(calls *atomic.Int32) Factory {
	return func(ctx context.Context, root string) (*Workspace, error) {
		calls.Add(1)
		s := store.New(root, memory{}, logger.NewNop())
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		return &Workspace{Root: root, Store: s}, nil
	}
}

func TestRegistryGetReusesWorkspace(t *testing.T) {
	var calls atomic.Int32
	root := t.TempDir()
	reg, err := NewRegistry(root, countingFactory(&calls), logger.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	def, err := reg.Default(context.Background())
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		name string
		root string
	}{
		{"empty root", ""},
		{"same root", root},
		{"trailing separator", root + string(filepath.Separator)},
		{"dot segment", filepath.Join(root, "sub", "..")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := reg.Get(context.Background(), tt.root)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.root, err)
			}
			if ws != def {
				t.Errorf("Get(%q) returned a different workspace", tt.root)
			}
		})
	}

	if calls.Load() != 1 {
		t.Errorf("factory called %d times, want 1", calls.Load())
	}
}

func TestRegistryIndependentWorkspaces(t *testing.T) {
	var calls atomic.Int32
	a, b := t.TempDir(), t.TempDir()
	reg, err := NewRegistry(a, countingFactory(&calls), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	wa, _ := reg.Get(context.Background(), a)
	wb, _ := reg.Get(context.Background(), b)
	if wa == wb || wa.Store == wb.Store {
		t.Fatal("different roots must get different stores")
	}

	wa.Store.CreateGroup(context.Background(), store.NewGroupParams{Name: "only in a"})
	if n := len(wb.Store.ListGroups("")); n != 0 {
		t.Errorf("workspace b sees %d groups, want 0", n)
	}

	if got := reg.Roots(); len(got) != 2 {
		t.Errorf("Roots() = %v, want 2 roots", got)
	}

	reg.Close()
	if got := reg.Roots(); len(got) != 0 {
		t.Errorf("Roots() after Close = %v, want none", got)
	}
}

func TestRegistryConcurrentGet(t *testing.T) {
	var calls atomic.Int32
	root := t.TempDir()
	reg, err := NewRegistry(root, countingFactory(&calls), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Get(context.Background(), root); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("factory called %d times, want 1", calls.Load())
	}
}

func TestRegistryFactoryError(t *testing.T) {
	boom := errors.New("boom")
	reg, err := NewRegistry(t.TempDir(), func(context.Context, string) (*Workspace, error) {
		return nil, boom
	}, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := reg.Default(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Default() error = %v, want %v", err, boom)
	}
	if got := reg.Roots(); len(got) != 0 {
		t.Errorf("failed workspaces must not be registered, got %v", got)
	}
}

func TestTriggerReload(t *testing.T) {
	ws := &Workspace{}
	if ws.TriggerReload() {
		t.Error("TriggerReload() without a channel should report false")
	}

	ws.ReloadTrigger = make(chan struct{}, 1)
	if !ws.TriggerReload() {
		t.Error("first TriggerReload() should be accepted")
	}
	if ws.TriggerReload() {
		t.Error("second TriggerReload() should be dropped while one is pending")
	}
}

func TestRegistryRejectsMissingRoot(t *testing.T) {
	var calls atomic.Int32
	base := t.TempDir()
	reg, err := NewRegistry(base, countingFactory(&calls), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(base, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, root := range []string{filepath.Join(base, "missing"), file} {
		_, err := reg.Get(context.Background(), root)
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Get(%q) error = %v, want validation error", root, err)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("factory called %d times, want 0", calls.Load())
	}
}
