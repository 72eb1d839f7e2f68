// formula.go
package hercformula

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/wrljet/hercformula/pkg/fetch"
	"github.com/wrljet/hercformula/pkg/install"
	"github.com/wrljet/hercformula/pkg/manifest"
)

// Re-export types for convenience
type (
	Formula  = manifest.Formula
	Reporter = install.Reporter
	Result   = install.Result
)

// Default returns the built-in SDL-Hercules formula
func Default() *Formula {
	return manifest.Default()
}

// Config holds configuration for a Manager
type Config struct {
	// InstallPath is the Homebrew-style prefix; kegs go to <InstallPath>/Cellar
	InstallPath string

	// CachePath is where downloaded archives are kept
	CachePath string

	// Timeout for network operations
	Timeout time.Duration

	// Debug enables debug logging
	Debug bool

	// Logger for debug output
	Logger *log.Logger

	// Reporter receives the user-facing progress lines
	Reporter Reporter
}

// InstallOptions configures a single install
type InstallOptions struct {
	SourceDir   string   // Already-extracted source tree; skips fetching
	Head        bool     // Install from the HEAD git repository instead of the release archive
	BinDir      string   // Default: <prefix>/bin
	Prefix      string   // Default: <InstallPath>/Cellar/<name>/<version>
	Only        []string // Subset of the install manifest
	DryRun      bool     // Report copies without writing
	KeepArchive bool     // Keep the downloaded archive in the cache
	Force       bool     // Download again even if the archive is cached
}

// Manager installs a formula
type Manager struct {
	formula  *Formula
	config   *Config
	logger   *log.Logger
	reporter Reporter
	fetcher  *fetch.Fetcher
	executor *install.Executor
}

// NewManager creates a manager for formula f. A nil f selects the built-in formula.
func NewManager(f *Formula, config *Config) (*Manager, error) {
	if f == nil {
		f = manifest.Default()
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid formula: %w", err)
	}
	if config == nil {
		config = &Config{}
	}
	if config.InstallPath == "" {
		return nil, fmt.Errorf("install path is required")
	}

	logger := config.Logger
	if logger == nil {
		if config.Debug {
			logger = log.New(os.Stdout, "[DEBUG] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	reporter := config.Reporter
	if reporter == nil {
		reporter = log.New(io.Discard, "", 0)
	}

	return &Manager{
		formula:  f,
		config:   config,
		logger:   logger,
		reporter: reporter,
		fetcher: fetch.New(&fetch.Config{
			CachePath: config.CachePath,
			Timeout:   config.Timeout,
			Debug:     config.Debug,
			Logger:    config.Logger,
		}),
		executor: install.NewExecutor(&install.Config{
			Formula:  f,
			Reporter: reporter,
			Debug:    config.Debug,
			Logger:   config.Logger,
		}),
	}, nil
}

// Formula returns the formula being installed
func (m *Manager) Formula() *Formula {
	return m.formula
}

// Prefix returns the keg directory for a release or HEAD install
func (m *Manager) Prefix(head bool) string {
	version := m.formula.Version
	if head {
		version = "HEAD"
	}
	return filepath.Join(m.config.InstallPath, "Cellar", m.formula.Name, version)
}

// Install fetches the formula sources unless opts.SourceDir is set, then copies
// the install manifest into the bin directory and lib/share into the prefix.
func (m *Manager) Install(ctx context.Context, opts *InstallOptions) (*Result, error) {
	if opts == nil {
		opts = &InstallOptions{}
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = m.Prefix(opts.Head)
	}
	binDir := opts.BinDir
	if binDir == "" {
		binDir = filepath.Join(prefix, "bin")
	}

	root := opts.SourceDir
	if root == "" {
		buildDir, err := os.MkdirTemp("", m.formula.Name+"-*")
		if err != nil {
			return nil, &Error{Op: "fetch", Package: m.formula.Name, Err: err}
		}
		defer os.RemoveAll(buildDir)

		if opts.Head {
			if err := m.fetcher.CloneHead(ctx, m.formula.Head, m.formula.Branch, buildDir); err != nil {
				return nil, &Error{Op: "fetch", Package: m.formula.Name, Err: err}
			}
			root = buildDir
		} else {
			root, err = m.fetchRelease(ctx, buildDir, opts)
		}
		if err != nil {
			return nil, err
		}
	}

	m.logger.Printf("Installing %s from %s", m.formula.Name, root)

	result, err := m.executor.Install(ctx, root, binDir, prefix, &install.Options{
		Only:   opts.Only,
		DryRun: opts.DryRun,
	})
	if err != nil {
		return result, &Error{Op: "install", Package: m.formula.Name, Err: err}
	}
	return result, nil
}

// fetchRelease downloads, verifies and extracts the release archive into buildDir
func (m *Manager) fetchRelease(ctx context.Context, buildDir string, opts *InstallOptions) (string, error) {
	name := m.formula.Name

	format, err := fetch.DetectFormat(m.formula.URL)
	if err != nil {
		return "", &Error{Op: "fetch", Package: name, Err: err}
	}

	archive := m.fetcher.ArchivePath(name, m.formula.Version, format)
	if _, err := os.Stat(archive); err == nil && !opts.Force {
		m.logger.Printf("Using cached %s", archive)
	} else {
		if err := m.fetcher.Download(ctx, m.formula.URL, archive); err != nil {
			return "", &Error{Op: "fetch", Package: name, Err: err}
		}
	}
	if !opts.KeepArchive {
		defer os.Remove(archive)
	}

	if err := m.fetcher.VerifySHA256(archive, m.formula.SHA256); err != nil {
		if !errors.Is(err, fetch.ErrNoChecksum) {
			os.Remove(archive)
			return "", &Error{Op: "verify", Package: name, Err: err}
		}
		m.reporter.Printf("Warning: %s has no sha256 checksum, skipping verification", name)
	}

	root, err := m.fetcher.Extract(archive, buildDir, format)
	if err != nil {
		return "", &Error{Op: "extract", Package: name, Err: err}
	}
	return root, nil
}
