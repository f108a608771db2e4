package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"neeklo-backend/internal/shared/storage/object"
)

// Store implements ObjectStore on the local filesystem, for development.
type Store struct {
	baseDir string
	now     func() time.Time
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

// Save writes r under baseDir/<key>. contentType is not recorded.
func (s *Store) Save(ctx context.Context, owner string, fileName string, contentType string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	key, err := object.NewKey(owner, fileName, s.now())
	if err != nil {
		return "", 0, err
	}

	full := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", 0, fmt.Errorf("mkdir: %w", err)
	}
	// Published by rename; readers never see a partial file.
	tmp := full + ".part"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", 0, fmt.Errorf("write body: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", 0, fmt.Errorf("rename: %w", err)
	}
	return key, written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !object.ValidKey(storageKey) {
		return nil, fmt.Errorf("invalid storage key %q", storageKey)
	}
	f, err := os.Open(filepath.Join(s.baseDir, filepath.FromSlash(storageKey)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", storageKey, object.ErrNotFound)
	}
	return f, err
}

var _ object.ObjectStore = (*Store)(nil)
