// pkg/fetch/extract.go
package fetch

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"zombiezen.com/go/nix/nar"
)

// DetectFormat picks the archive format from a file name or URL path
func DetectFormat(name string) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FormatTarXz, nil
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return FormatTarZst, nil
	case strings.HasSuffix(lower, ".nar.xz"):
		return FormatNarXz, nil
	case strings.HasSuffix(lower, ".nar"):
		return FormatNar, nil
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar, nil
	}
	return "", fmt.Errorf("unsupported archive format: %s", filepath.Base(name))
}

// Extract unpacks archivePath into destDir and returns the build root: the single
// top-level directory of the archive if there is exactly one, destDir otherwise.
func (f *Fetcher) Extract(archivePath, destDir string, format Format) (string, error) {
	f.logger.Printf("Extracting %s (%s) -> %s", archivePath, format, destDir)

	file, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	var count int
	switch format {
	case FormatTar:
		count, err = extractTar(tar.NewReader(file), destDir)
	case FormatTarGz:
		gzr, gerr := gzip.NewReader(file)
		if gerr != nil {
			return "", fmt.Errorf("creating gzip reader: %w", gerr)
		}
		defer gzr.Close()
		count, err = extractTar(tar.NewReader(gzr), destDir)
	case FormatTarXz:
		xzr, xerr := xz.NewReader(bufio.NewReader(file))
		if xerr != nil {
			return "", fmt.Errorf("creating xz reader: %w", xerr)
		}
		count, err = extractTar(tar.NewReader(xzr), destDir)
	case FormatTarZst:
		zr, zerr := zstd.NewReader(file)
		if zerr != nil {
			return "", fmt.Errorf("creating zstd reader: %w", zerr)
		}
		defer zr.Close()
		count, err = extractTar(tar.NewReader(zr), destDir)
	case FormatNar:
		count, err = extractNAR(bufio.NewReader(file), destDir)
	case FormatNarXz:
		xzr, xerr := xz.NewReader(bufio.NewReader(file))
		if xerr != nil {
			return "", fmt.Errorf("creating xz reader: %w", xerr)
		}
		count, err = extractNAR(bufio.NewReader(xzr), destDir)
	default:
		return "", fmt.Errorf("unsupported archive format: %s", format)
	}
	if err != nil {
		return "", err
	}

	f.logger.Printf("✓ Extraction complete (%d files)", count)
	return buildRoot(destDir)
}

// buildRoot descends into a lone top-level directory
func buildRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

// safeJoin joins name onto dir and rejects paths escaping dir, either lexically
// or through a symlink extracted earlier
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	clean := filepath.Clean(dir)
	if !within(clean, target) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	if target == clean {
		return target, nil
	}

	rel, err := filepath.Rel(clean, filepath.Dir(target))
	if err != nil || rel == "." {
		return target, err
	}
	parent := clean
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		parent = filepath.Join(parent, part)
		fi, err := os.Lstat(parent)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("inspecting %s: %w", parent, err)
		}
		if fi.Mode()&fs.ModeSymlink != 0 {
			return "", fmt.Errorf("illegal file path: %s passes through symlink %s", name, parent)
		}
	}
	return target, nil
}

// within reports whether path is dir or lies below it
func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(os.PathSeparator))
}

func extractTar(tr *tar.Reader, destDir string) (int, error) {
	count := 0
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("reading tar entry: %w", err)
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return count, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, fmt.Errorf("creating directory %s: %w", target, err)
			}

		case tar.TypeSymlink:
			if err := writeSymlink(destDir, header.Linkname, target); err != nil {
				return count, err
			}
			count++

		case tar.TypeReg:
			if err := writeFile(tr, target, fs.FileMode(header.Mode).Perm(), header.Size); err != nil {
				return count, err
			}
			count++

		default:
			// pax headers, hard links and devices are skipped
		}
	}
	return count, nil
}

func extractNAR(r io.Reader, destDir string) (int, error) {
	nr := nar.NewReader(r)
	count := 0
	for {
		hdr, err := nr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("reading NAR entry: %w", err)
		}

		target, err := safeJoin(destDir, filepath.FromSlash(hdr.Path))
		if err != nil {
			return count, err
		}

		switch hdr.Mode.Type() {
		case fs.ModeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, fmt.Errorf("creating directory %s: %w", target, err)
			}
		case fs.ModeSymlink:
			if hdr.Path == "" {
				return count, fmt.Errorf("NAR root is a symlink, expected a directory")
			}
			if err := writeSymlink(destDir, hdr.LinkTarget, target); err != nil {
				return count, err
			}
			count++
		case 0:
			if hdr.Path == "" {
				return count, fmt.Errorf("NAR root is a file, expected a directory")
			}
			perm := fs.FileMode(0644)
			if hdr.Mode&0111 != 0 {
				perm = 0755
			}
			if err := writeFile(nr, target, perm, hdr.Size); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func writeFile(r io.Reader, target string, perm fs.FileMode, size int64) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	// a symlink left at target by an earlier entry is replaced, not followed
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}

	written, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing file %s: %w", target, err)
	}
	if written != size {
		return fmt.Errorf("file size mismatch for %s: expected %d, got %d", target, size, written)
	}

	if err := os.Chmod(target, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", target, err)
	}
	return nil
}

// writeSymlink creates target -> linkname, refusing links that point outside destDir
func writeSymlink(destDir, linkname, target string) error {
	if linkname == "" || filepath.IsAbs(linkname) ||
		!within(filepath.Clean(destDir), filepath.Join(filepath.Dir(target), linkname)) {
		return fmt.Errorf("illegal symlink %s -> %s: target outside %s", target, linkname, destDir)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating parent directory for symlink: %w", err)
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("creating symlink %s -> %s: %w", target, linkname, err)
	}
	return nil
}
