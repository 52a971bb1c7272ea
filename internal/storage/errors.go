package storage

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	// ErrConfigNotFound is returned when config.json has not been written yet.
	ErrConfigNotFound = errors.New("company config not found, run setup first")

	// ErrClientNotFound is returned when a client has no record.
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidClientID is returned for IDs that cannot name a record file.
	ErrInvalidClientID = errors.New("invalid client id")

	// ErrInvalidRecord is returned when a record fails validation before it
	// is written.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrCorruptRecord is returned when a stored file is not valid JSON.
	ErrCorruptRecord = errors.New("corrupt record")
)

// StorageError wraps errors with the operation and file involved.
type StorageError struct {
	// Op is the operation that failed (e.g., "LoadClient", "SaveConfig").
	Op string

	// Path is the file the operation touched, relative to the storage root.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *StorageError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Path: path, Err: err}
}

// FieldError reports a record field that failed validation.
type FieldError struct {
	Field string
	Tag   string
	Value interface{}

	err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: failed %q check (value: %v)", e.Field, e.Tag, e.Value)
}

// Unwrap returns ErrInvalidRecord, or the more specific sentinel the field
// error was created with.
func (e *FieldError) Unwrap() error {
	if e.err != nil {
		return e.err
	}
	return ErrInvalidRecord
}
