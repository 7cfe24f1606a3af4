package registry

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when no schema is stored for a product.
var ErrNotFound = errors.New("registry: schema not found")

// Record is a stored schema document.
type Record struct {
	ProductID string
	Schema    []byte
	UpdatedAt time.Time
}

// Store persists schema documents keyed by product id.
type Store interface {
	Get(ctx context.Context, productID string) (Record, error)
	Put(ctx context.Context, record Record) error
	Delete(ctx context.Context, productID string) error
	List(ctx context.Context) ([]string, error)
}

// MemoryStore keeps records in process. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Get(ctx context.Context, productID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[productID]
	if !ok {
		return Record{}, ErrNotFound
	}
	record.Schema = append([]byte(nil), record.Schema...)
	return record, nil
}

func (s *MemoryStore) Put(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record.Schema = append([]byte(nil), record.Schema...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ProductID] = record
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, productID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[productID]; !ok {
		return ErrNotFound
	}
	delete(s.records, productID)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
