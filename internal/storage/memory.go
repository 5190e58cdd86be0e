package storage

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory fallback used when no persistent backend
// is configured. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	order       map[string][]string // insertion order of ids per collection
}

// NewMemoryStore creates a new in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
		order:       make(map[string][]string),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil, ErrNotFound
	}
	doc, ok := docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := s.order[collection]

	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		doc, ok := docs[id]
		if !ok {
			continue
		}
		cp := make([]byte, len(doc))
		copy(cp, doc)
		out = append(out, cp)
	}
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	docs[id] = cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	if _, exists := docs[id]; !exists {
		return ErrNotFound
	}
	delete(docs, id)

	ids := s.order[collection]
	for i, existing := range ids {
		if existing == id {
			s.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
