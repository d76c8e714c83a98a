// Package redis keeps the store document in Redis, one key per workspace.
// The value is the same indented JSON the file persister writes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/redis/go-redis/v9"

	"github.com/linonon/aibookmarks/internal/domain"
	"github.com/linonon/aibookmarks/internal/store"
)

// Persister implements store.Persister on top of a Redis client.
type Persister struct {
	client redis.Cmdable
	key    string
}

// NewPersister creates a persister for the given workspace root.
func NewPersister(client redis.Cmdable, workspaceRoot string) *Persister {
	return &Persister{
		client: client,
		key:    DocumentKey(workspaceRoot),
	}
}

// Load reads the document. A missing key reports fs.ErrNotExist.
func (p *Persister) Load(ctx context.Context) (*domain.Store, error) {
	data, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("store key %s: %w", p.key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return store.DecodeDocument(data)
}

// Save overwrites the document. Keys never expire.
func (p *Persister) Save(ctx context.Context, s *domain.Store) error {
	data, err := store.EncodeDocument(s)
	if err != nil {
		return err
	}
	if err := p.client.Set(ctx, p.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// Location names the key for logs.
func (p *Persister) Location() string {
	return "redis:" + p.key
}
