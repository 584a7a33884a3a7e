// Package objectstore is the boundary to the file/image storage provider.
// Only the boundary is owned here; a local filesystem implementation stands
// in for the external provider.
package objectstore

import (
	"context"
	"io"
)

// Store persists uploaded files and returns an opaque path usable to
// retrieve them later.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (path string, err error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
