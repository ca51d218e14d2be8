package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local keeps media files in a directory on disk.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir, %w", err)
	}

	return &Local{dir: dir}, nil
}

func (l *Local) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	f, err := os.Create(filepath.Join(l.dir, filepath.Base(key)))
	if err != nil {
		return fmt.Errorf("failed to create media file, %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to write media file, %w", err)
	}

	return nil
}

func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.dir, filepath.Base(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return f, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
