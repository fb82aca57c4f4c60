package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStorage writes uploads into a local directory. Public paths use
// forward slashes and are prefixed with the directory name, e.g.
// "images/<name>", so they can be served back under the same route.
type DiskStorage struct {
	dir    string
	prefix string
}

// NewDiskStorage creates the directory if needed.
func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &DiskStorage{dir: dir, prefix: filepath.Base(dir)}, nil
}

func (s *DiskStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name = filepath.Base(name)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("error writing file: %w", err)
	}

	return path.Join(s.prefix, name), nil
}

func (s *DiskStorage) Remove(ctx context.Context, p string) error {
	// only paths under our own prefix are removable
	name := path.Base(filepath.ToSlash(p))
	if name == "." || name == "/" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid path %q", p)
	}
	return os.Remove(filepath.Join(s.dir, name))
}
