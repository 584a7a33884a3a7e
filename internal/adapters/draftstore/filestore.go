package draftstore

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per key in a directory. It is the durable
// local slot for a wizard client: draft snapshots survive process restarts
// the way browser local storage survives page reloads.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating draft store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path maps a key to a filename. Keys are hex-encoded so separators and
// other unsafe characters cannot escape the directory.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+".json")
}

// Get returns the value for key if a slot file exists.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading draft slot: %w", err)
	}
	return raw, true, nil
}

// Put overwrites the slot for key.
func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	if err := os.WriteFile(s.path(key), value, 0o644); err != nil {
		return fmt.Errorf("writing draft slot: %w", err)
	}
	return nil
}

// Delete removes the slot for key. Deleting a missing key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing draft slot: %w", err)
	}
	return nil
}
