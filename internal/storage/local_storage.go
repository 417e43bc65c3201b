package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type localStorage struct {
	dir string
}

// NewLocalStorage stages uploads as files in dir, creating it if missing
func NewLocalStorage(dir string) (StagingStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) Backend() string {
	return "local"
}

func (s *localStorage) Stage(ctx context.Context, originalName string, data []byte) (StagedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := stagedName(originalName)
	path := filepath.Join(s.dir, name)

	// O_EXCL guarantees we never overwrite another request's upload
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close staged file: %w", err)
	}

	return &localStagedImage{name: name, path: path}, nil
}

type localStagedImage struct {
	name string
	path string
	once sync.Once
	err  error
}

func (l *localStagedImage) Name() string {
	return l.name
}

func (l *localStagedImage) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	return f, nil
}

// Release deletes the staged file. Safe to call more than once.
func (l *localStagedImage) Release(context.Context) error {
	l.once.Do(func() {
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			l.err = fmt.Errorf("remove staged file: %w", err)
		}
	})
	return l.err
}
