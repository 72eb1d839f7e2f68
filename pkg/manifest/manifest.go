// pkg/manifest/manifest.go
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Formula describes what gets installed and where it comes from
type Formula struct {
	Name     string   // Formula name (Cellar directory)
	Version  string   // Release version
	Desc     string   // Human-readable description
	Homepage string   // Project homepage
	URL      string   // Source archive URL
	SHA256   string   // Expected archive checksum (empty = unverified)
	License  string   // SPDX license identifier
	Head     string   // Git repository for HEAD installs
	Branch   string   // Branch for HEAD installs
	Binaries []string // Install manifest, relative to bin/
	Dirs     []string // Directories copied verbatim into the prefix
}

// Binaries returns a copy of the built-in install manifest
func Binaries() []string {
	out := make([]string, len(binaries))
	copy(out, binaries)
	return out
}

// Dirs returns a copy of the built-in directory copy set
func Dirs() []string {
	out := make([]string, len(dirs))
	copy(out, dirs)
	return out
}

// Default returns the built-in formula
func Default() *Formula {
	return &Formula{
		Name:     DefaultName,
		Version:  DefaultVersion,
		Desc:     DefaultDesc,
		Homepage: DefaultHomepage,
		URL:      DefaultURL,
		SHA256:   DefaultSHA256,
		License:  DefaultLicense,
		Head:     DefaultHead,
		Branch:   DefaultHeadBranch,
		Binaries: Binaries(),
		Dirs:     Dirs(),
	}
}

// Verified reports whether the formula carries a checksum
func (f *Formula) Verified() bool {
	return strings.TrimSpace(f.SHA256) != ""
}

// Validate checks that every manifest and directory entry is a plain name
func (f *Formula) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("formula name is required")
	}
	if len(f.Binaries) == 0 {
		return fmt.Errorf("formula %s: install manifest is empty", f.Name)
	}

	seen := make(map[string]bool, len(f.Binaries))
	for _, name := range f.Binaries {
		if err := ValidName(name); err != nil {
			return fmt.Errorf("formula %s: binary %w", f.Name, err)
		}
		if seen[name] {
			return fmt.Errorf("formula %s: binary %q listed twice", f.Name, name)
		}
		seen[name] = true
	}
	for _, dir := range f.Dirs {
		if err := ValidName(dir); err != nil {
			return fmt.Errorf("formula %s: directory %w", f.Name, err)
		}
	}
	return nil
}

// Select returns the manifest entries named in only, in manifest order.
// An empty only selects the whole manifest.
func (f *Formula) Select(only []string) ([]string, error) {
	if len(only) == 0 {
		return append([]string(nil), f.Binaries...), nil
	}

	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = true
	}

	selected := make([]string, 0, len(only))
	for _, name := range f.Binaries {
		if want[name] {
			selected = append(selected, name)
			delete(want, name)
		}
	}

	for _, name := range only {
		if want[name] {
			return nil, fmt.Errorf("%q is not in the %s install manifest", name, f.Name)
		}
	}
	return selected, nil
}

// ValidName rejects empty names, "." and "..", and anything with a path separator
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("name is empty")
	case name == "." || name == "..":
		return fmt.Errorf("%q is not a file name", name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%q must not contain a path separator", name)
	}
	return nil
}
