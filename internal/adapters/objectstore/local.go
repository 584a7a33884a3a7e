package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploads under a root directory, one file per upload,
// named by a fresh UUID plus the original extension.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{root: dir}, nil
}

// Put stores the reader's content and returns the relative path.
// PRE: name is the client-supplied filename (used only for its extension)
// POST: file written under the root; returned path is relative to it
func (s *LocalStore) Put(_ context.Context, name string, r io.Reader) (string, error) {
	ext := filepath.Ext(name)
	if len(ext) > 10 {
		ext = ""
	}
	rel := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return rel, nil
}

// Open retrieves a previously stored file by its relative path.
// PRE: path was returned by Put
// POST: caller must close the returned reader
func (s *LocalStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	clean := filepath.Clean(path)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid upload path %q", path)
	}
	return os.Open(filepath.Join(s.root, clean))
}
