package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wrljet/hercformula/pkg/manifest"
)

type recorder struct {
	lines []string
}

func (r *recorder) Printf(format string, v ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

// createSourceTree lays out bin/<name> for every name plus the given extra files
func createSourceTree(t *testing.T, names []string, extra map[string]string) string {
	t.Helper()

	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatalf("failed to create bin dir: %v", err)
	}

	for _, name := range names {
		content := "#!/bin/sh\necho " + name + "\n"
		if err := os.WriteFile(filepath.Join(binDir, name), []byte(content), 0755); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	for rel, content := range extra {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create parent of %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}

	return root
}

// snapshot records mode and content of every entry below dir
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()

	snap := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			snap[rel] = "link:" + link
		case info.IsDir():
			snap[rel] = "dir:" + info.Mode().Perm().String()
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snap[rel] = info.Mode().Perm().String() + ":" + string(data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", dir, err)
	}
	return snap
}

func TestInstallFullManifest(t *testing.T) {
	src := createSourceTree(t, manifest.Binaries(), map[string]string{
		"lib/libhercs.dylib":              "hercs",
		"lib/hercules/libhdt3420.dylib":   "tape",
		"share/man/man1/hercules.1":       ".TH HERCULES 1",
		"share/hercules/hercules.cnf.txt": "ARCHLVL z/Arch",
	})
	if err := os.Symlink("libhercs.dylib", filepath.Join(src, "lib", "libhercs.0.dylib")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	binDir := filepath.Join(t.TempDir(), "bin")
	prefix := t.TempDir()
	rec := &recorder{}

	exec := NewExecutor(&Config{Reporter: rec})
	result, err := exec.Install(context.Background(), src, binDir, prefix, nil)
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}

	if len(result.Binaries) != len(manifest.Binaries()) {
		t.Errorf("expected %d binaries, got %d", len(manifest.Binaries()), len(result.Binaries))
	}
	for _, name := range manifest.Binaries() {
		info, err := os.Stat(filepath.Join(binDir, name))
		if err != nil {
			t.Errorf("binary %s not installed: %v", name, err)
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			t.Errorf("binary %s lost its executable bits: %s", name, info.Mode())
		}
	}

	if strings.Join(result.Dirs, ",") != "lib,share" {
		t.Errorf("unexpected copied dirs: %v", result.Dirs)
	}
	if result.Files != 5 {
		t.Errorf("expected 5 files copied, got %d", result.Files)
	}

	link, err := os.Readlink(filepath.Join(prefix, "lib", "libhercs.0.dylib"))
	if err != nil || link != "libhercs.dylib" {
		t.Errorf("symlink not preserved: %q, %v", link, err)
	}
	data, err := os.ReadFile(filepath.Join(prefix, "share", "man", "man1", "hercules.1"))
	if err != nil || string(data) != ".TH HERCULES 1" {
		t.Errorf("share content not copied: %q, %v", data, err)
	}

	if len(rec.lines) != 2 {
		t.Fatalf("expected 2 progress lines, got %d: %v", len(rec.lines), rec.lines)
	}
	if !strings.Contains(rec.lines[0], prefix) {
		t.Errorf("first progress line does not name the prefix: %q", rec.lines[0])
	}
	if rec.lines[1] != "Completed install" {
		t.Errorf("unexpected completion line: %q", rec.lines[1])
	}
}

func TestInstallMissingBinary(t *testing.T) {
	var present []string
	for _, name := range manifest.Binaries() {
		if name != "dasdcat" {
			present = append(present, name)
		}
	}
	src := createSourceTree(t, present, nil)
	binDir := t.TempDir()

	rec := &recorder{}
	result, err := NewExecutor(&Config{Reporter: rec}).Install(context.Background(), src, binDir, t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected error but got none")
	}

	var missing *MissingFileError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingFileError, got %T: %v", err, err)
	}
	if missing.Name != "dasdcat" {
		t.Errorf("error names %q, want dasdcat", missing.Name)
	}
	if !errors.Is(err, ErrMissingFile) {
		t.Error("errors.Is(err, ErrMissingFile) = false")
	}
	if !strings.Contains(err.Error(), "dasdcat") {
		t.Errorf("error message does not mention dasdcat: %v", err)
	}

	// fail-fast: entries before dasdcat are copied, later ones are not
	if len(result.Binaries) != 16 {
		t.Errorf("expected 16 binaries before dasdcat, got %d", len(result.Binaries))
	}
	if _, err := os.Stat(filepath.Join(binDir, "vmfplc2")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("vmfplc2 should not have been copied after the failure")
	}
	if len(rec.lines) != 1 {
		t.Errorf("completion line must not be reported on failure: %v", rec.lines)
	}
}

func TestInstallBinaryIsDirectory(t *testing.T) {
	src := createSourceTree(t, nil, nil)
	if err := os.Mkdir(filepath.Join(src, "bin", "hercules"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := NewExecutor(nil).Install(context.Background(), src, t.TempDir(), t.TempDir(), &Options{Only: []string{"hercules"}})
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("expected missing file error, got %v", err)
	}
}

func TestInstallWithoutLibAndShare(t *testing.T) {
	src := createSourceTree(t, manifest.Binaries(), nil)
	prefix := t.TempDir()

	result, err := NewExecutor(nil).Install(context.Background(), src, t.TempDir(), prefix, nil)
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}
	if len(result.Dirs) != 0 {
		t.Errorf("expected no copied dirs, got %v", result.Dirs)
	}
	if strings.Join(result.SkippedDirs, ",") != "lib,share" {
		t.Errorf("expected lib and share skipped, got %v", result.SkippedDirs)
	}
}

func TestInstallSingleBinaryScenario(t *testing.T) {
	src := createSourceTree(t, []string{"hercules"}, nil)
	t1 := filepath.Join(t.TempDir(), "T1")
	t2 := filepath.Join(t.TempDir(), "T2")

	_, err := NewExecutor(nil).Install(context.Background(), src, t1, t2, &Options{Only: []string{"hercules"}})
	if err != nil {
		t.Fatalf("install failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(t1, "hercules"))
	if err != nil {
		t.Fatalf("hercules not installed: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("hercules is not executable: %s", info.Mode())
	}

	entries, err := os.ReadDir(t2)
	if err != nil {
		t.Fatalf("reading prefix: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty prefix, found %d entries", len(entries))
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	src := createSourceTree(t, manifest.Binaries(), map[string]string{
		"lib/libhercu.dylib":    "utils",
		"share/hercules/README": "readme",
	})
	// read-only binaries must not block a reinstall
	if err := os.Chmod(filepath.Join(src, "bin", "hercules"), 0555); err != nil {
		t.Fatal(err)
	}

	binDir := t.TempDir()
	prefix := t.TempDir()
	exec := NewExecutor(nil)

	if _, err := exec.Install(context.Background(), src, binDir, prefix, nil); err != nil {
		t.Fatalf("first install failed: %v", err)
	}
	firstBin, firstPrefix := snapshot(t, binDir), snapshot(t, prefix)

	if _, err := exec.Install(context.Background(), src, binDir, prefix, nil); err != nil {
		t.Fatalf("second install failed: %v", err)
	}
	secondBin, secondPrefix := snapshot(t, binDir), snapshot(t, prefix)

	for _, pair := range []struct {
		name          string
		first, second map[string]string
	}{
		{"bin", firstBin, secondBin},
		{"prefix", firstPrefix, secondPrefix},
	} {
		if len(pair.first) != len(pair.second) {
			t.Errorf("%s: entry count changed %d -> %d", pair.name, len(pair.first), len(pair.second))
		}
		for k, v := range pair.first {
			if pair.second[k] != v {
				t.Errorf("%s: %s changed from %q to %q", pair.name, k, v, pair.second[k])
			}
		}
	}
}

func TestInstallDryRun(t *testing.T) {
	src := createSourceTree(t, manifest.Binaries(), map[string]string{"share/doc": "x"})
	binDir := filepath.Join(t.TempDir(), "bin")
	prefix := filepath.Join(t.TempDir(), "prefix")
	rec := &recorder{}

	result, err := NewExecutor(&Config{Reporter: rec}).Install(context.Background(), src, binDir, prefix, &Options{DryRun: true})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if len(result.Binaries) != len(manifest.Binaries()) {
		t.Errorf("dry run planned %d binaries", len(result.Binaries))
	}
	if _, err := os.Stat(binDir); !errors.Is(err, fs.ErrNotExist) {
		t.Error("dry run created the bin directory")
	}
	if _, err := os.Stat(prefix); !errors.Is(err, fs.ErrNotExist) {
		t.Error("dry run created the prefix")
	}
	// begin + one line per binary + share + completed
	if want := len(manifest.Binaries()) + 3; len(rec.lines) != want {
		t.Errorf("expected %d report lines, got %d", want, len(rec.lines))
	}
}

func TestInstallPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	src := createSourceTree(t, []string{"hercules"}, nil)
	binDir := t.TempDir()
	if err := os.Chmod(binDir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(binDir, 0755) })

	_, err := NewExecutor(nil).Install(context.Background(), src, binDir, t.TempDir(), &Options{Only: []string{"hercules"}})
	if err == nil {
		t.Fatal("expected error but got none")
	}

	var perm *PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("expected *PermissionError, got %T: %v", err, err)
	}
	if perm.Path != binDir {
		t.Errorf("error path = %s, want %s", perm.Path, binDir)
	}
	if !errors.Is(err, ErrPermission) || !errors.Is(err, fs.ErrPermission) {
		t.Error("permission error does not match ErrPermission and fs.ErrPermission")
	}
}

func TestInstallPermissionDeniedInPrefix(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	src := createSourceTree(t, []string{"hercules"}, map[string]string{"lib/libhercu.dylib": "utils"})
	prefix := t.TempDir()
	libDir := filepath.Join(prefix, "lib")
	if err := os.Mkdir(libDir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(libDir, 0755) })

	result, err := NewExecutor(nil).Install(context.Background(), src, t.TempDir(), prefix, &Options{Only: []string{"hercules"}})

	var perm *PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("expected *PermissionError, got %T: %v", err, err)
	}
	if want := filepath.Join(libDir, "libhercu.dylib"); perm.Path != want {
		t.Errorf("error path = %s, want %s", perm.Path, want)
	}
	if !errors.Is(err, ErrPermission) || !errors.Is(err, fs.ErrPermission) {
		t.Error("permission error does not match ErrPermission and fs.ErrPermission")
	}
	if result == nil || len(result.Binaries) != 1 {
		t.Errorf("binaries copied before the failure should be reported, got %+v", result)
	}
	if info, err := os.Stat(libDir); err != nil || info.Mode().Perm() != 0555 {
		t.Errorf("existing lib directory was modified: %v", err)
	}
}

func TestInstallPreservesDirectoryModes(t *testing.T) {
	src := createSourceTree(t, []string{"hercules"}, map[string]string{
		"share/hercules/README": "readme",
		"share/doc/NEWS":        "news",
	})
	roDir := filepath.Join(src, "share", "hercules")
	if err := os.Chmod(roDir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(roDir, 0755) })
	if err := os.Chmod(filepath.Join(src, "share", "doc"), 0750); err != nil {
		t.Fatal(err)
	}

	prefix := t.TempDir()
	installed := filepath.Join(prefix, "share", "hercules")
	t.Cleanup(func() { _ = os.Chmod(installed, 0755) })

	exec := NewExecutor(nil)
	opts := &Options{Only: []string{"hercules"}}
	for i := 0; i < 2; i++ {
		if _, err := exec.Install(context.Background(), src, t.TempDir(), prefix, opts); err != nil {
			t.Fatalf("install %d failed: %v", i+1, err)
		}

		for dir, want := range map[string]fs.FileMode{
			installed:                            0555,
			filepath.Join(prefix, "share", "doc"): 0750,
		} {
			info, err := os.Stat(dir)
			if err != nil {
				t.Fatalf("install %d: %v", i+1, err)
			}
			if got := info.Mode().Perm(); got != want {
				t.Errorf("install %d: %s mode = %s, want %s", i+1, dir, got, want)
			}
		}
	}

	data, err := os.ReadFile(filepath.Join(installed, "README"))
	if err != nil || string(data) != "readme" {
		t.Errorf("README = %q, %v", data, err)
	}
}

func TestInstallCancelled(t *testing.T) {
	src := createSourceTree(t, manifest.Binaries(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor(nil).Install(ctx, src, t.TempDir(), t.TempDir(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInstallArgumentErrors(t *testing.T) {
	exec := NewExecutor(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		src  string
		opts *Options
	}{
		{name: "empty_source", src: ""},
		{name: "missing_source", src: filepath.Join(t.TempDir(), "nope")},
		{name: "unknown_binary", src: t.TempDir(), opts: &Options{Only: []string{"ipl"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := exec.Install(ctx, tt.src, t.TempDir(), t.TempDir(), tt.opts); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}
