package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"codego/internal/models"
	"codego/internal/observability"
)

// FileStore keeps the identity as a JSON file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (*models.User, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		observability.StorageErrors.WithLabelValues("file", "load").Inc()
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return decodeUser(raw)
}

func (s *FileStore) Save(_ context.Context, u *models.User) error {
	raw, err := encodeUser(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		observability.StorageErrors.WithLabelValues("file", "save").Inc()
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		observability.StorageErrors.WithLabelValues("file", "save").Inc()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		observability.StorageErrors.WithLabelValues("file", "save").Inc()
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		observability.StorageErrors.WithLabelValues("file", "clear").Inc()
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
