// pkg/install/executor.go
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/wrljet/hercformula/pkg/manifest"
)

// NewExecutor creates a new manifest executor
func NewExecutor(cfg *Config) *Executor {
	if cfg == nil {
		cfg = &Config{}
	}

	formula := cfg.Formula
	if formula == nil {
		formula = manifest.Default()
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = discardReporter{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[DEBUG] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Executor{
		formula:  formula,
		reporter: reporter,
		logger:   logger,
	}
}

// Formula returns the formula the executor installs
func (e *Executor) Formula() *manifest.Formula {
	return e.formula
}

// Install copies <sourceRoot>/bin/<name> into binDir for every manifest entry, then
// copies each directory of the copy set present in sourceRoot into prefix.
// The first failure aborts the install; files already copied are left in place.
func (e *Executor) Install(ctx context.Context, sourceRoot, binDir, prefix string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	if sourceRoot == "" || binDir == "" || prefix == "" {
		return nil, fmt.Errorf("source root, bin directory and prefix are required")
	}

	names, err := e.formula.Select(opts.Only)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", sourceRoot)
	}

	e.reporter.Printf("Beginning %s installation (prefix = %s)", e.formula.Name, prefix)
	e.logger.Printf("  buildpath: %s", sourceRoot)
	e.logger.Printf("  bin: %s", binDir)
	e.logger.Printf("  binaries: %d, dirs: %v, dry run: %v", len(names), e.formula.Dirs, opts.DryRun)

	if !opts.DryRun {
		for _, dir := range []string{binDir, prefix} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, classify("creating", dir, err)
			}
			if err := checkWritable(dir); err != nil {
				return nil, err
			}
		}
	}

	result := &Result{}

	binSrc := filepath.Join(sourceRoot, manifest.BinDir)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		src := filepath.Join(binSrc, name)
		dst := filepath.Join(binDir, name)

		fi, err := os.Stat(src)
		if err != nil || !fi.Mode().IsRegular() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return result, fmt.Errorf("inspecting %s: %w", src, err)
			}
			return result, &MissingFileError{Name: name, Path: src}
		}

		if opts.DryRun {
			e.reporter.Printf("would install %s -> %s", src, dst)
		} else {
			if err := copyFile(src, dst, fi.Mode().Perm()); err != nil {
				return result, err
			}
			e.logger.Printf("  ✓ %s (%s)", dst, fi.Mode().Perm())
		}
		result.Binaries = append(result.Binaries, dst)
	}

	for _, dir := range e.formula.Dirs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		src := filepath.Join(sourceRoot, dir)
		fi, err := os.Stat(src)
		if err != nil || !fi.IsDir() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return result, fmt.Errorf("inspecting %s: %w", src, err)
			}
			e.logger.Printf("  - %s not present, skipping", dir)
			result.SkippedDirs = append(result.SkippedDirs, dir)
			continue
		}

		dst := filepath.Join(prefix, dir)
		if opts.DryRun {
			e.reporter.Printf("would copy %s -> %s", src, dst)
		} else {
			n, err := copyTree(ctx, src, dst)
			result.Files += n
			if err != nil {
				return result, err
			}
			e.logger.Printf("  ✓ %s (%d files)", dst, n)
		}
		result.Dirs = append(result.Dirs, dir)
	}

	e.reporter.Printf("Completed install")
	return result, nil
}
