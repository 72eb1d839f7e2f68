// pkg/registry/registry.go
package registry

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wrljet/hercformula/pkg/manifest"
)

// Entry is the on-disk form of a formula definition.
// Fields left out fall back to the built-in formula.
type Entry struct {
	Name     string    `toml:"name"`
	Version  string    `toml:"version"`
	Desc     string    `toml:"desc"`
	Homepage string    `toml:"homepage"`
	URL      string    `toml:"url"`
	SHA256   *string   `toml:"sha256"`
	License  string    `toml:"license"`
	Head     string    `toml:"head"`
	Branch   string    `toml:"branch"`
	Binaries []string  `toml:"binaries"`
	Dirs     *[]string `toml:"dirs"`
}

// Load reads a formula definition from path and merges it over the built-in formula
func Load(path string) (*manifest.Formula, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("registry: formula file '%s' not found", path)
		}
		return nil, fmt.Errorf("registry: reading '%s': %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML formula definition and merges it over the built-in formula
func Parse(data string) (*manifest.Formula, error) {
	var entry Entry
	md, err := toml.Decode(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to parse formula: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("registry: unknown formula keys: %v", undecoded)
	}

	f := entry.Apply(manifest.Default())
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return f, nil
}

// Apply overlays the entry's set fields onto f and returns it
func (e *Entry) Apply(f *manifest.Formula) *manifest.Formula {
	setString(&f.Name, e.Name)
	setString(&f.Version, e.Version)
	setString(&f.Desc, e.Desc)
	setString(&f.Homepage, e.Homepage)
	setString(&f.URL, e.URL)
	setString(&f.License, e.License)
	setString(&f.Head, e.Head)
	setString(&f.Branch, e.Branch)

	// an explicit empty sha256 is meaningful: it disables verification
	if e.SHA256 != nil {
		f.SHA256 = *e.SHA256
	}
	if len(e.Binaries) > 0 {
		f.Binaries = append([]string(nil), e.Binaries...)
	}
	if e.Dirs != nil {
		f.Dirs = append([]string(nil), (*e.Dirs)...)
	}
	return f
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
