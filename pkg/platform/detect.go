// pkg/platform/detect.go
package platform

import (
	"fmt"
	"os"
	"runtime"
)

const (
	// PrefixARM is the Homebrew prefix on Apple Silicon
	PrefixARM = "/opt/homebrew"

	// PrefixIntel is the Homebrew prefix on Intel Macs
	PrefixIntel = "/usr/local"

	// PrefixLinux is the Homebrew prefix on Linux
	PrefixLinux = "/home/linuxbrew/.linuxbrew"
)

// Platform represents the detected system platform
type Platform struct {
	OS     string // linux, darwin
	Arch   string // amd64, arm64
	Prefix string // Homebrew-style install prefix
	Brew   bool   // Whether a brew executable is on PATH
}

// Detect detects the current platform and its default install prefix.
// HOMEBREW_PREFIX, when set, wins over the built-in prefixes.
func Detect() *Platform {
	return detect(runtime.GOOS, runtime.GOARCH, os.Getenv("HOMEBREW_PREFIX"))
}

func detect(goos, goarch, envPrefix string) *Platform {
	p := &Platform{
		OS:     goos,
		Arch:   goarch,
		Prefix: DefaultPrefix(goos, goarch),
		Brew:   commandExists("brew"),
	}
	if envPrefix != "" {
		p.Prefix = envPrefix
	}
	return p
}

// DefaultPrefix returns the Homebrew prefix for an OS/arch pair
func DefaultPrefix(goos, goarch string) string {
	switch goos {
	case "darwin":
		if goarch == "arm64" {
			return PrefixARM
		}
		return PrefixIntel
	case "linux":
		return PrefixLinux
	default:
		return PrefixIntel
	}
}

// Supported reports whether the published binaries run on this platform
func (p *Platform) Supported() bool {
	return p.OS == "darwin"
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (prefix: %s, brew: %v)", p.OS, p.Arch, p.Prefix, p.Brew)
}
