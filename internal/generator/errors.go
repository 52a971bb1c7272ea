package generator

import (
	"errors"
	"fmt"

	"wlog/internal/document"
	"wlog/internal/storage"
)

// Common generation errors
var (
	// ErrNoBillableHours is returned when the invoiced month has no hours
	// logged. No document is produced.
	ErrNoBillableHours = errors.New("no billable hours for month")

	// ErrNoLogEntries is returned when the reported month has no entries.
	ErrNoLogEntries = errors.New("no log entries for month")

	// ErrUnknownClient is returned when the requested client has no record.
	ErrUnknownClient = storage.ErrClientNotFound

	// ErrRenderFault is returned when drawing or writing the document failed.
	// Any path produced alongside it must not be trusted.
	ErrRenderFault = document.ErrRenderFault
)

// GenerationError wraps errors with the operation and request they belong to.
type GenerationError struct {
	// Op is the operation that failed (e.g., "GenerateInvoice").
	Op string

	// ClientID is the requested client.
	ClientID string

	// Month is the resolved month, empty if resolution itself failed.
	Month string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Month != "" {
		return fmt.Sprintf("generator: %s failed for %s (%s): %v", e.Op, e.ClientID, e.Month, e.Err)
	}
	return fmt.Sprintf("generator: %s failed for %s: %v", e.Op, e.ClientID, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *GenerationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newGenerationError(op, clientID, month string, err error) error {
	if err == nil {
		return nil
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Op: op, ClientID: clientID, Month: month, Err: err}
}
