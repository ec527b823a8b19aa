// Package memory is an in-process document store for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/retailku/order-admin/pkg/storage"
)

type collection struct {
	order []string
	docs  map[string]map[string]any
}

// Store keeps collections in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New returns an empty store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

var (
	_ storage.Gateway = (*Store)(nil)
	_ storage.Seeder  = (*Store)(nil)
)

// Put inserts or replaces a document. A new id is appended to the end of
// the collection order; replacing keeps the original position.
func (s *Store) Put(_ context.Context, name, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("memory: empty document id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		s.collections[name] = c
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = storage.NormalizeFields(fields)
	return nil
}

func (s *Store) ListAll(ctx context.Context, name string) ([]storage.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return []storage.Record{}, nil
	}

	records := make([]storage.Record, 0, len(c.order))
	for _, id := range c.order {
		records = append(records, storage.Record{
			ID:     id,
			Fields: storage.NormalizeFields(c.docs[id]),
		})
	}
	return records, nil
}

func (s *Store) UpdatePartial(ctx context.Context, name, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return storage.ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return storage.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = storage.Normalize(v)
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, name, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return storage.ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of documents in a collection.
func (s *Store) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[name]; ok {
		return len(c.order)
	}
	return 0
}

// Get returns a copy of one document, or false when absent.
func (s *Store) Get(name, id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, false
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return storage.NormalizeFields(doc), true
}

func (s *Store) Health(context.Context) map[string]string {
	return map[string]string{"status": "up", "driver": "memory"}
}

func (s *Store) Close() error { return nil }
