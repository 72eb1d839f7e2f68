// pkg/install/errors.go
package install

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrMissingFile matches any *MissingFileError
	ErrMissingFile = errors.New("missing file")

	// ErrPermission matches any *PermissionError
	ErrPermission = errors.New("permission denied")
)

// MissingFileError reports a manifest entry absent from the source tree
type MissingFileError struct {
	Name string // Manifest entry
	Path string // Path that was looked up
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing file %s: %s is not a file in the source tree", e.Name, e.Path)
}

func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// PermissionError reports a destination that could not be written
type PermissionError struct {
	Op   string // Operation that was denied
	Path string // Destination path
	Err  error  // Underlying error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermission
}

// classify turns permission failures into a *PermissionError and wraps everything else
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return &PermissionError{Op: op, Path: path, Err: err}
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}
