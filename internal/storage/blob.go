package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidName = errors.New("invalid file name")

// BlobStore persists uploaded file contents and returns an opaque locator
// the rest of the system stores alongside the file name.
type BlobStore interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DiskStore keeps blobs under a single uploads directory and hands back
// "/uploads/<name>" locators the HTTP layer can serve statically.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", ErrInvalidName
	}

	path := filepath.Join(s.dir, name)

	// Uploads never overwrite each other; collisions get a timestamp
	// prefix.
	if _, err := os.Stat(path); err == nil {
		name = fmt.Sprintf("%d_%s", time.Now().UnixNano(), name)
		path = filepath.Join(s.dir, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return "/uploads/" + name, nil
}
