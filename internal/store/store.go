// Package store holds the in-memory bookmark store for one workspace.
//
// Every mutating call persists synchronously through a Persister before it
// returns and then fires exactly one change notification. A failed save is
// logged and does not roll back the in-memory mutation.
package store

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/linonon/aibookmarks/internal/domain"
	"github.com/linonon/aibookmarks/internal/logger"
)

// Persister reads and writes the store document.
// Load returns an error wrapping fs.ErrNotExist when nothing was persisted
// yet, and one wrapping ErrCorruptDocument when the document cannot be parsed.
type Persister interface {
	Load(ctx context.Context) (*domain.Store, error)
	Save(ctx context.Context, s *domain.Store) error
	Location() string
}

// Store is the bookmark store engine for a single workspace.
type Store struct {
	mu   sync.Mutex
	root string
	data *domain.Store
	gen  uint64 // bumped by every commit

	persister Persister
	logger    logger.Logger

	now         func() time.Time
	saveTimeout time.Duration

	subMu   sync.RWMutex
	subs    map[uint64]func()
	nextSub uint64
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSaveTimeout bounds each persistence call.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// New creates a store for workspaceRoot starting from the default document.
// Call Load to read the persisted state.
func New(workspaceRoot string, p Persister, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		root:        workspaceRoot,
		data:        domain.NewStore(workspaceRoot),
		persister:   p,
		logger:      log,
		now:         time.Now,
		saveTimeout: 5 * time.Second,
		subs:        make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the workspace root the store belongs to.
func (s *Store) Root() string { return s.root }

// Load reads the persisted document. A missing document leaves the default
// store in place without writing it; a corrupt or unreadable one is logged,
// replaced by the default in memory and left untouched on disk.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.read(ctx)
	if data == nil {
		data = domain.NewStore(s.root)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	return err
}

// Reload replaces the in-memory store with the persisted one and fires a
// change notification, unless the persisted document is identical to what
// is already in memory (for example the echo of our own save).
//
// A failed read keeps the in-memory store. So does a commit landing while
// the document is read: memory is then newer than what was read.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	data, err := s.read(ctx)
	if data == nil {
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.logger.Debug("store changed during reload, keeping in-memory state",
			logger.String("file", s.persister.Location()))
		return nil
	}
	same := documentsEqual(s.data, data)
	s.data = data
	s.mu.Unlock()

	if !same {
		s.logger.Info("store reloaded from disk",
			logger.String("file", s.persister.Location()),
			logger.Int("groups", len(data.Groups)))
		s.notify()
	}
	return err
}

// ResetToDefault drops every group in memory without writing, used when the
// backing document is removed externally.
func (s *Store) ResetToDefault() {
	s.mu.Lock()
	s.data = domain.NewStore(s.root)
	s.mu.Unlock()

	s.logger.Info("store file removed, reset to empty store",
		logger.String("file", s.persister.Location()))
	s.notify()
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() *domain.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Subscribe registers fn to be called after every completed mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) read(ctx context.Context) (*domain.Store, error) {
	data, err := s.persister.Load(ctx)
	switch {
	case err == nil:
		normalizeDocument(data, s.root)
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("no persisted store, using empty store",
			logger.String("file", s.persister.Location()))
		return domain.NewStore(s.root), nil
	case errors.Is(err, ErrCorruptDocument):
		s.logger.Warn("store file is corrupt, falling back to empty store",
			logger.String("file", s.persister.Location()),
			logger.Error(err))
		return domain.NewStore(s.root), nil
	default:
		s.logger.Error("failed to read store",
			logger.String("file", s.persister.Location()),
			logger.Error(err))
		return nil, err
	}
}

// persistLocked writes the current document. Must hold s.mu.
// The save outlives a canceled caller so a mutation is never half-applied.
func (s *Store) persistLocked(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	if err := s.persister.Save(ctx, s.data); err != nil {
		s.logger.Error("failed to save store",
			logger.String("file", s.persister.Location()),
			logger.Error(err))
	}
}

// commitLocked persists and releases the lock, then notifies subscribers.
func (s *Store) commitLocked(ctx context.Context) {
	s.gen++
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func normalizeDocument(d *domain.Store, root string) {
	if d.Version == 0 {
		d.Version = domain.SchemaVersion
	}
	if d.ProjectName == "" {
		d.ProjectName = domain.NewStore(root).ProjectName
	}
	if d.Groups == nil {
		d.Groups = []domain.Group{}
	}
	for i := range d.Groups {
		if d.Groups[i].Bookmarks == nil {
			d.Groups[i].Bookmarks = []domain.Bookmark{}
		}
	}
}

func documentsEqual(a, b *domain.Store) bool {
	ea, errA := EncodeDocument(a)
	eb, errB := EncodeDocument(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
