// Package state persists the tracker's records.
//
// Two independent records are stored: "tasks" (a JSON array of tasks) and
// "stats" (a JSON object). A Backend stores opaque bytes per record name; Store
// encodes and decodes them.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/amonks/focus/internal/validation"
)

// Record names.
const (
	RecordTasks = "tasks"
	RecordStats = "stats"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

var (
	// ErrRecordNotFound indicates a record has never been written.
	ErrRecordNotFound = errors.New("record not found")

	// ErrCorruptRecord indicates a record exists but cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrUnknownDriver indicates an unsupported storage driver name.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Backend stores named records.
type Backend interface {
	// Read returns the bytes of a record, or ErrRecordNotFound.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the bytes of a record.
	Write(ctx context.Context, name string, data []byte) error

	// Close releases the backend's resources.
	Close() error
}

// Open returns the backend for driver rooted at dir.
// An empty driver selects the file backend.
func Open(driver, dir string) (Backend, error) {
	switch driver {
	case "", DriverFile:
		return NewFileBackend(dir), nil
	case DriverSQLite:
		return OpenSQLite(SQLitePath(dir))
	default:
		return nil, validation.FormatInvalidValueError(ErrUnknownDriver, driver, []string{DriverFile, DriverSQLite})
	}
}

func validateName(name string) error {
	switch name {
	case RecordTasks, RecordStats:
		return nil
	default:
		return fmt.Errorf("unknown record %q", name)
	}
}
