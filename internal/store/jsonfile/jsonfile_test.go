package jsonfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linonon/aibookmarks/internal/domain"
	"github.com/linonon/aibookmarks/internal/store"
)

func TestNewResolvesPath(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"default", "/ws", "", filepath.Join("/ws", ".vscode", "ai-bookmarks.json")},
		{"relative", "/ws", "data/bm.json", filepath.Join("/ws", "data", "bm.json")},
		{"absolute", "/ws", "/tmp/bm.json", filepath.FromSlash("/tmp/bm.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.root, tt.path).Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	p := New(t.TempDir(), "")

	_, err := p.Load(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	root := t.TempDir()
	p := New(root, "bm.json")
	if err := os.WriteFile(p.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := p.Load(context.Background())
	if !errors.Is(err, store.ErrCorruptDocument) {
		t.Fatalf("Load() error = %v, want ErrCorruptDocument", err)
	}
}

func TestSaveCreatesDirectoryAndRoundTrips(t *testing.T) {
	root := t.TempDir()
	p := New(root, "")

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := domain.NewStore(root)
	doc.Groups = append(doc.Groups, domain.Group{
		ID:        "g1",
		Name:      "Auth flow",
		CreatedAt: created,
		UpdatedAt: created,
		CreatedBy: domain.CreatorAI,
		Bookmarks: []domain.Bookmark{{
			ID:          "b1",
			Order:       1,
			Location:    "src/auth.go:10-20",
			Title:       "Login",
			Description: "entry",
			Tags:        []string{"auth"},
		}},
	})

	if err := p.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(p.Path())
	if err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	if !strings.HasPrefix(string(raw), "{\n  \"version\": 1,") {
		t.Errorf("file is not 2-space indented JSON:\n%s", raw)
	}
	if !strings.HasSuffix(string(raw), "}\n") {
		t.Errorf("file does not end with a newline")
	}

	got, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Groups) != 1 || len(got.Groups[0].Bookmarks) != 1 {
		t.Fatalf("Load() = %+v, want 1 group with 1 bookmark", got)
	}
	if b := got.Groups[0].Bookmarks[0]; b.Location != "src/auth.go:10-20" || b.Tags[0] != "auth" {
		t.Errorf("bookmark = %+v", b)
	}
	if !got.Groups[0].CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.Groups[0].CreatedAt, created)
	}

	entries, _ := os.ReadDir(filepath.Dir(p.Path()))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the store file", len(entries))
	}
}
