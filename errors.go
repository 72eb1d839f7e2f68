// errors.go
package hercformula

import (
	"fmt"

	"github.com/wrljet/hercformula/pkg/fetch"
	"github.com/wrljet/hercformula/pkg/install"
)

// Re-export the typed install failures so callers can use errors.As on them
type (
	// MissingFileError reports a manifest entry absent from the source tree
	MissingFileError = install.MissingFileError
	// PermissionError reports a destination that could not be written
	PermissionError = install.PermissionError
	// IntegrityError reports a downloaded archive with the wrong checksum
	IntegrityError = fetch.IntegrityError
)

var (
	// ErrMissingFile indicates a manifest entry was not found in the source tree
	ErrMissingFile = install.ErrMissingFile

	// ErrPermission indicates a destination directory or file was not writable
	ErrPermission = install.ErrPermission

	// ErrIntegrity indicates a checksum verification failure
	ErrIntegrity = fetch.ErrIntegrity

	// ErrNoChecksum indicates the formula carries no checksum
	ErrNoChecksum = fetch.ErrNoChecksum
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Formula name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
