package redis

import (
	"strings"
	"testing"
)

func TestDocumentKey(t *testing.T) {
	key := DocumentKey("/ws/app")

	if !strings.HasPrefix(key, KeyPrefixDocument) {
		t.Fatalf("DocumentKey() = %q, want prefix %q", key, KeyPrefixDocument)
	}
	if got := len(key) - len(KeyPrefixDocument); got != 16 {
		t.Errorf("hash part has %d chars, want 16", got)
	}

	tests := []struct {
		name string
		root string
		same bool
	}{
		{"trailing slash", "/ws/app/", true},
		{"backslashes", `\ws\app`, true},
		{"other root", "/ws/other", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentKey(tt.root) == key; got != tt.same {
				t.Errorf("DocumentKey(%q) == DocumentKey(/ws/app) is %v, want %v", tt.root, got, tt.same)
			}
		})
	}
}

func TestPersisterLocation(t *testing.T) {
	p := NewPersister(nil, "/ws/app")
	if want := "redis:" + DocumentKey("/ws/app"); p.Location() != want {
		t.Errorf("Location() = %q, want %q", p.Location(), want)
	}
}
