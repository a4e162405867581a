package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"drama-catalog-service/internal/domain"
)

// FileStorage implements domain.Storage as one file per key inside a data
// directory. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated history behind.
type FileStorage struct {
	fs  afero.Fs
	dir string
}

// NewFileStorage creates a file-backed storage rooted at dir, creating the
// directory when missing.
func NewFileStorage(fs afero.Fs, dir string) (*FileStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &FileStorage{fs: fs, dir: dir}, nil
}

func (s *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if os.IsNotExist(err) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *FileStorage) Set(_ context.Context, key string, value []byte) error {
	tmp := s.path(key) + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return err
	}

	// Not every afero backend renames over an existing file.
	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}

	return s.fs.Rename(tmp, s.path(key))
}

func (s *FileStorage) Remove(_ context.Context, key string) error {
	err := s.fs.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
