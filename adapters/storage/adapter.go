// Package storage persists saved quotes. Backends: file (one JSON
// document per quote, grouped by account) and memory (tests, demos).
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"greenquote/core/quote"
	"greenquote/core/types"
	"greenquote/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// Store is the quote storage interface
type Store interface {
	// Save stores a quote record, assigning ID and CreatedAt if unset
	Save(ctx context.Context, rec *quote.Record) error

	// Get retrieves a quote by ID
	Get(ctx context.Context, id string) (*quote.Record, error)

	// List lists quotes matching the filter, newest first
	List(ctx context.Context, filter *ListFilter) ([]*quote.Record, error)

	// Delete removes a quote
	Delete(ctx context.Context, id string) error

	// Close closes the store
	Close() error
}

// ListFilter filters quote listing
type ListFilter struct {
	AccountID string
	Frequency types.Frequency
	Since     time.Time
	Until     time.Time
	Limit     int
	Offset    int
}

func (f *ListFilter) matches(rec *quote.Record) bool {
	if f == nil {
		return true
	}
	if f.AccountID != "" && rec.AccountID != f.AccountID {
		return false
	}
	if f.Frequency != "" && rec.Frequency != f.Frequency {
		return false
	}
	if !f.Since.IsZero() && rec.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && rec.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

func (f *ListFilter) page(recs []*quote.Record) []*quote.Record {
	if f == nil {
		return recs
	}
	if f.Offset > 0 {
		if f.Offset >= len(recs) {
			return nil
		}
		recs = recs[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(recs) {
		recs = recs[:f.Limit]
	}
	return recs
}

func sortNewestFirst(recs []*quote.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}

func stamp(rec *quote.Record) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

// FileStore keeps one JSON file per quote under basePath/<account>/<id>.json.
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store rooted at basePath
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Storage("creating storage directory", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) Save(ctx context.Context, rec *quote.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(rec)

	accountDir := filepath.Join(s.basePath, accountDirName(rec.AccountID))
	if err := os.MkdirAll(accountDir, 0755); err != nil {
		return errors.Storage("creating account directory", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Storage("marshaling quote", err)
	}

	path := filepath.Join(accountDir, rec.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Storage("writing quote", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*quote.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.find(id)
	if !ok {
		return nil, errors.NotFound("quote", id)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Storage("reading quote", err)
	}
	var rec quote.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Storage("unmarshaling quote", err)
	}
	return &rec, nil
}

func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*quote.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []*quote.Record
	walkErr := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var rec quote.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			// Skip files that are not quote documents
			return nil
		}
		if filter.matches(&rec) {
			recs = append(recs, &rec)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.Storage("walking storage", walkErr)
	}

	sortNewestFirst(recs)
	return filter.page(recs), nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.find(id)
	if !ok {
		return errors.NotFound("quote", id)
	}
	if err := os.Remove(path); err != nil {
		return errors.Storage("deleting quote", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// find locates a quote file by ID across account directories. Callers
// hold the lock.
func (s *FileStore) find(id string) (string, bool) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.basePath, entry.Name(), id+".json")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func accountDirName(accountID string) string {
	if accountID == "" {
		return "default"
	}
	return accountID
}

// MemoryStore is an in-memory backend
type MemoryStore struct {
	recs map[string]*quote.Record
	mu   sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*quote.Record)}
}

func (s *MemoryStore) Save(ctx context.Context, rec *quote.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(rec)
	cp := *rec
	s.recs[rec.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*quote.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, errors.NotFound("quote", id)
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*quote.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []*quote.Record
	for _, rec := range s.recs {
		if filter.matches(rec) {
			cp := *rec
			recs = append(recs, &cp)
		}
	}
	sortNewestFirst(recs)
	return filter.page(recs), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[id]; !ok {
		return errors.NotFound("quote", id)
	}
	delete(s.recs, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Open creates a store for the configured backend
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		if path == "" {
			path = ".greenquote"
		}
		return NewFileStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Newf(errors.TypeStorage, "unsupported backend: %s", backend)
	}
}

var _ io.Closer = (*FileStore)(nil)
var _ io.Closer = (*MemoryStore)(nil)
