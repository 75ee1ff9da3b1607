// AngelaMos | 2026
// local.go

package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/carterperez-dev/jobboard/internal/core"
)

type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("resume directory is required")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create resume directory: %w", err)
	}

	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save writes to a temp file in the same directory and renames it into
// place, so readers never observe a partial resume.
func (s *LocalStorage) Save(_ context.Context, name string, body io.Reader, _ int64) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write resume: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close resume: %w", err)
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store resume: %w", err)
	}

	return nil
}

func (s *LocalStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open resume: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	return f, nil
}

func (s *LocalStorage) Exists(_ context.Context, name string) (bool, error) {
	info, err := os.Stat(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat resume: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete resume: %w", err)
	}
	return nil
}

// Ping reports whether the resume directory is still present and a
// directory.
func (s *LocalStorage) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat resume directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("resume directory %s is not a directory", s.dir)
	}
	return nil
}
