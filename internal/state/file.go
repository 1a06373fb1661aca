package state

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileBackend stores each record as <dir>/<name>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend using the given directory.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Dir returns the backend's directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) recordPath(name string) string {
	return filepath.Join(b.dir, name+".json")
}

func (b *FileBackend) lockPath() string {
	return filepath.Join(b.dir, "focus.lock")
}

// Read returns the record's bytes. Returns ErrRecordNotFound if the file doesn't exist.
func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.recordPath(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", name, err)
	}
	return data, nil
}

// Write replaces the record under an exclusive lock. Unchanged records are
// not rewritten.
func (b *FileBackend) Write(_ context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(b.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	path := b.recordPath(name)
	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s file: %w", name, err)
	}

	tmpFile, err := os.CreateTemp(b.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp %s file: %w", name, err)
	}
	tmpName := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write temp %s file: %w", name, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s file: %w", name, err)
	}

	return nil
}

// Close is a no-op; files are opened per call.
func (b *FileBackend) Close() error {
	return nil
}
