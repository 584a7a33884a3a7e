// Package draftstore provides DraftStore implementations: an in-memory store
// for tests and a file-backed store giving a wizard client one durable
// key-value slot per offering.
package draftstore

import (
	"context"
	"sync"
)

// MemStore is an in-memory DraftStore.
type MemStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{slots: make(map[string][]byte)}
}

// Get returns the value for key if present.
// INVARIANT: the returned slice is a copy; callers cannot mutate the slot
func (s *MemStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put overwrites the value for key.
func (s *MemStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.slots[key] = v
	return nil
}

// Delete removes the slot for key. Deleting a missing key is not an error.
func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// Len returns the number of stored slots. Intended for tests.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
