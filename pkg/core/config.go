// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wrljet/hercformula/pkg/platform"
)

// Config holds hercformula configuration
type Config struct {
	InstallPath string        `yaml:"install_path"`
	CachePath   string        `yaml:"cache_path"`
	BinDir      string        `yaml:"bin_dir"`
	Formula     string        `yaml:"formula"`
	Timeout     time.Duration `yaml:"timeout"`
	KeepArchive bool          `yaml:"keep_archive"`
	Debug       bool          `yaml:"debug"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		InstallPath: getDefaultInstallPath(),
		CachePath:   getDefaultCachePath(),
		Timeout:     2 * time.Minute,
	}
}

// DefaultPath returns $HOME/.config/hercformula/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hercformula", "config.yaml"), nil
}

// LoadConfig loads configuration from file; fields missing from the file keep their defaults
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultInstallPath() string {
	if path := os.Getenv("HERCFORMULA_INSTALL_PATH"); path != "" {
		return path
	}
	return platform.Detect().Prefix
}

func getDefaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "hercformula")
	}
	return filepath.Join(os.TempDir(), "hercformula")
}
