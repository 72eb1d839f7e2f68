// pkg/install/types.go
package install

import (
	"log"

	"github.com/wrljet/hercformula/pkg/manifest"
)

// Reporter receives the user-facing progress lines of an install.
// *log.Logger satisfies it.
type Reporter interface {
	Printf(format string, v ...any)
}

// Config configures an Executor
type Config struct {
	Formula  *manifest.Formula // Default: manifest.Default()
	Reporter Reporter          // Progress output (optional, discarded if nil)
	Debug    bool              // Enable debug logging
	Logger   *log.Logger       // Custom debug logger (optional)
}

// Options tunes a single Install call
type Options struct {
	Only   []string // Subset of manifest entries to install (all if empty)
	DryRun bool     // Report what would be copied without writing
}

// Result lists what an install wrote
type Result struct {
	Binaries    []string // Destination paths of installed binaries, in install order
	Dirs        []string // Prefix directories that were copied
	SkippedDirs []string // Directory copy set entries absent from the source
	Files       int      // Regular files and symlinks written by the directory copy
}

// Executor copies the install manifest and directory copy set out of a source tree
type Executor struct {
	formula  *manifest.Formula
	reporter Reporter
	logger   *log.Logger
}

type discardReporter struct{}

func (discardReporter) Printf(string, ...any) {}
