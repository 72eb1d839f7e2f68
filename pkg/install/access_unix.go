//go:build unix

package install

import (
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"
)

// checkWritable fails early when dir exists but cannot be written to
func checkWritable(dir string) error {
	if err := unix.Access(dir, unix.W_OK); err != nil {
		if err == unix.EACCES || err == unix.EPERM || err == unix.EROFS {
			return &PermissionError{Op: "write", Path: dir, Err: fmt.Errorf("%w: %v", fs.ErrPermission, err)}
		}
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	return nil
}
