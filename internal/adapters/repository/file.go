package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/arena/internal/adapters/codec"
	"github.com/okian/arena/internal/domain/model"
)

// FileStore keeps the collection in a single JSON or YAML file.
// Writes go to a temporary file that is renamed over the target.
type FileStore struct {
	mu     sync.Mutex
	path   string
	format codec.Format
	mode   os.FileMode
}

// NewFileStore creates a file store at path. The format comes from the
// file extension unless WithFormat is given.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.format == "" {
		f, err := codec.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		o.format = f
	}
	return &FileStore{path: path, format: o.format, mode: o.fileMode}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load reads the file. A missing file is an empty collection.
func (s *FileStore) Load(_ context.Context) (model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Collection{}, nil
	}
	if err != nil {
		return model.Collection{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	c, err := codec.Decode(s.format, data)
	if err != nil {
		return model.Collection{}, fmt.Errorf("%w: %s: %w", ErrLoad, s.path, err)
	}
	return c, nil
}

// Save replaces the file contents with c.
func (s *FileStore) Save(ctx context.Context, c model.Collection) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	data, err := codec.Encode(s.format, c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := os.Chmod(tmp.Name(), s.mode); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
