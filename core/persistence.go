package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const DefaultStorageKey = "calendar-events"

// Persistence stores the whole event collection as one opaque blob.
// Load returns a nil slice when nothing has been stored yet.
type Persistence interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Close()
}

/*
 * memory
 */

type MemoryPersistence struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemoryPersistence(initial []byte) *MemoryPersistence {
	return &MemoryPersistence{blob: clone(initial)}
}

func (m *MemoryPersistence) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return clone(m.blob), nil
}

func (m *MemoryPersistence) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blob = clone(blob)

	return nil
}

func (m *MemoryPersistence) Close() {}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}

/*
 * file
 */

// FilePersistence keeps the blob in a single JSON file, written atomically
// through a temp file in the same directory.
type FilePersistence struct {
	path string
}

func NewFilePersistence(path string) *FilePersistence {
	return &FilePersistence{path: path}
}

func (f *FilePersistence) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	return data, nil
}

func (f *FilePersistence) Save(_ context.Context, blob []byte) error {
	dir := filepath.Dir(f.path)

	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".calendar-events-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	_, err = tmp.Write(blob)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	err = tmp.Sync()
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	err = os.Chmod(tmpName, 0o600)
	if err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	err = os.Rename(tmpName, f.path)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}

	return nil
}

func (f *FilePersistence) Close() {}
