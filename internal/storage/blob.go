package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store keeps binary content on disk, one file per object, addressed by
// a generated uuid key. Descriptor rows in the database reference the
// key; the store itself knows nothing about products or images.
type Store struct {
	dir string
}

// NewStore opens a blob store rooted at dir, creating it when absent.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Put writes content under a fresh key and returns the key.
func (s *Store) Put(r io.Reader) (string, int64, error) {
	key := uuid.NewString()
	f, err := os.Create(s.path(key))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create blob %s: %w", key, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(s.path(key))
		return "", 0, fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return key, n, nil
}

// Open returns the content stored under key. The caller closes it.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", key, err)
	}
	return f, nil
}

// Remove deletes the content stored under key. A missing blob is not an
// error; descriptor deletion already committed.
func (s *Store) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	// Keys are generated uuids, never caller input, so the join is safe.
	return filepath.Join(s.dir, key)
}
