// pkg/fetch/types.go
package fetch

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// Format is a supported source archive format
type Format string

const (
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tar.gz"
	FormatTarXz  Format = "tar.xz"
	FormatTarZst Format = "tar.zst"
	FormatNar    Format = "nar"
	FormatNarXz  Format = "nar.xz"
)

// String returns the file extension of the format
func (f Format) String() string {
	return string(f)
}

// Config configures a Fetcher
type Config struct {
	CachePath string        // Where archives are downloaded
	Timeout   time.Duration // Default: 2 minutes
	UserAgent string        // Default: hercformula/<version>
	Debug     bool          // Enable debug logging
	Logger    *log.Logger   // Custom logger (optional)
}

// Fetcher downloads, verifies and unpacks formula sources
type Fetcher struct {
	client *Client
	config *Config
	logger *log.Logger
}

var (
	// ErrNoChecksum is returned by VerifySHA256 when no checksum is configured
	ErrNoChecksum = errors.New("no checksum configured")

	// ErrIntegrity matches any *IntegrityError
	ErrIntegrity = errors.New("download integrity check failed")
)

// IntegrityError reports a downloaded archive whose checksum does not match
type IntegrityError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("sha256 mismatch for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}
