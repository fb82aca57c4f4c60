// Package upload accepts image files over multipart requests and stores
// them behind a pluggable Storage backend.
package upload

import (
	"context"
	"io"
)

// Storage persists uploaded files. Save returns the public path the file is
// reachable under; Remove deletes by that same path.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}
