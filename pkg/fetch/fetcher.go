// pkg/fetch/fetcher.go
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// New creates a new Fetcher
func New(cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.CachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cfg.CachePath = filepath.Join(os.TempDir(), "hercformula")
		} else {
			cfg.CachePath = filepath.Join(home, ".cache", "hercformula")
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "hercformula/1.0"
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[DEBUG] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Fetcher{
		client: NewClientWithTimeout(cfg.UserAgent, cfg.Timeout),
		config: cfg,
		logger: logger,
	}
}

// ArchivePath returns the cache location for a formula archive
func (f *Fetcher) ArchivePath(name, version string, format Format) string {
	return filepath.Join(f.config.CachePath, "downloads", fmt.Sprintf("%s--%s.%s", name, version, format))
}

// Download fetches url into destPath, creating parent directories.
// A partial file is removed on failure.
func (f *Fetcher) Download(ctx context.Context, url, destPath string) error {
	f.logger.Printf("Downloading %s", url)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	written, err := f.client.Download(ctx, url, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(destPath)
		f.logger.Printf("✗ Failed to download: %v", err)
		return fmt.Errorf("downloading %s: %w", url, err)
	}

	f.logger.Printf("✓ Downloaded %d bytes to %s", written, destPath)
	return nil
}

// Checksum returns the hex SHA256 of the file at path
func Checksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("computing hash: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifySHA256 compares the file's checksum against expected.
// An empty expected returns ErrNoChecksum; callers treat that as verification disabled.
func (f *Fetcher) VerifySHA256(path, expected string) error {
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return ErrNoChecksum
	}

	actual, err := Checksum(path)
	if err != nil {
		return err
	}

	f.logger.Printf("  Expected: %s", expected)
	f.logger.Printf("  Actual:   %s", actual)

	if !strings.EqualFold(actual, expected) {
		return &IntegrityError{Path: path, Expected: expected, Actual: actual}
	}
	return nil
}

// CloneHead shallow-clones a single branch of url into dest
func (f *Fetcher) CloneHead(ctx context.Context, url, branch, dest string) error {
	if url == "" {
		return fmt.Errorf("no HEAD repository configured")
	}
	if branch == "" {
		branch = "main"
	}

	f.logger.Printf("Cloning %s (%s) into %s", url, branch, dest)

	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      f.logger.Writer(),
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}
