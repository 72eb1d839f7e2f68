// pkg/install/copy.go
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// copyFile copies src to dst with the given permission bits, replacing dst.
// dst is removed first, so read-only files from an earlier install are replaced.
func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return classify("replacing", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return classify("creating", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return classify("writing", dst, err)
	}
	if err := out.Close(); err != nil {
		return classify("writing", dst, err)
	}

	// OpenFile is subject to the umask
	if err := os.Chmod(dst, perm); err != nil {
		return classify("chmod", dst, err)
	}
	return nil
}

type dirMode struct {
	path    string
	perm    fs.FileMode
	touched bool // created or reopened by this copy
}

// copyTree recursively copies src into dst preserving modes and symlinks.
// It returns the number of files and symlinks written.
func copyTree(ctx context.Context, src, dst string) (int, error) {
	count := 0
	var dirs []dirMode

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walking %s: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", path, err)
		}

		switch {
		case d.IsDir():
			dm, err := prepareDir(target, info.Mode().Perm())
			if err != nil {
				return err
			}
			dirs = append(dirs, dm)

		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("reading link %s: %w", path, err)
			}
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return classify("replacing", target, err)
			}
			if err := os.Symlink(link, target); err != nil {
				return classify("linking", target, err)
			}
			count++

		case info.Mode().IsRegular():
			if err := copyFile(path, target, info.Mode().Perm()); err != nil {
				return err
			}
			count++

		default:
			// sockets, devices and pipes are skipped
		}
		return nil
	})

	// deepest first, so read-only parents do not block their children
	for i := len(dirs) - 1; i >= 0; i-- {
		if err != nil && !dirs[i].touched {
			continue
		}
		if cerr := os.Chmod(dirs[i].path, dirs[i].perm); cerr != nil && err == nil {
			err = classify("chmod", dirs[i].path, cerr)
		}
	}

	return count, err
}

// prepareDir makes target writable for the copy. New directories are created
// with owner rwx; an existing read-only directory is reopened only when its mode
// already matches perm, i.e. it is an earlier copy of the same source.
func prepareDir(target string, perm fs.FileMode) (dirMode, error) {
	dm := dirMode{path: target, perm: perm}

	fi, err := os.Stat(target)
	switch {
	case err == nil && fi.IsDir():
		if fi.Mode().Perm() == perm && perm&0200 == 0 {
			if err := os.Chmod(target, perm|0700); err != nil {
				return dm, classify("chmod", target, err)
			}
			dm.touched = true
		}
	case err == nil || errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(target, perm|0700); err != nil {
			return dm, classify("creating", target, err)
		}
		dm.touched = true
	default:
		return dm, fmt.Errorf("inspecting %s: %w", target, err)
	}
	return dm, nil
}
