package archive

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/qtinst/qtinst/internal/models"
)

func dirEntry(name string) Entry {
	return Entry{Name: name, IsDir: true}
}

func fileEntry(name, content string, mode uint32) Entry {
	return Entry{
		Name:     name,
		UnixMode: mode,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(content))), nil
		},
	}
}

func TestExtractWritesTree(t *testing.T) {
	dest := t.TempDir()
	entries := []Entry{
		dirEntry("6.8.2"),
		dirEntry("6.8.2/gcc_64"),
		dirEntry("6.8.2/gcc_64/bin"),
		fileEntry("6.8.2/gcc_64/bin/qmake", "#!/bin/sh\n", 0o100755),
		fileEntry("6.8.2/gcc_64/readme", "hi", 0),
	}

	x := NewExtractor()
	if err := x.extract(context.Background(), entries, dest); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "6.8.2", "gcc_64", "bin", "qmake"))
	if err != nil {
		t.Fatalf("Extracted file missing: %v", err)
	}
	if string(data) != "#!/bin/sh\n" {
		t.Errorf("Unexpected content: %q", data)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dest, "6.8.2", "gcc_64", "bin", "qmake"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("Permission metadata not applied: %v", info.Mode())
		}
	}
}

func TestExtractRejectsPathEscape(t *testing.T) {
	x := NewExtractor()
	for _, name := range []string{"../evil", "a/../../evil", "../../../../evil"} {
		err := x.extract(context.Background(), []Entry{fileEntry(name, "x", 0)}, t.TempDir())
		if !models.IsType(err, models.ErrPathEscape) {
			t.Errorf("Entry %q: expected PathEscape, got %v", name, err)
		}

		// Rejection must not depend on destination depth.
		deep := filepath.Join(t.TempDir(), "a", "b", "c")
		if err := os.MkdirAll(deep, 0755); err != nil {
			t.Fatal(err)
		}
		err = x.extract(context.Background(), []Entry{fileEntry(name, "x", 0)}, deep)
		if !models.IsType(err, models.ErrPathEscape) {
			t.Errorf("Entry %q in deep dest: expected PathEscape, got %v", name, err)
		}
	}
}

func TestExtractRequiresExplicitParentDirs(t *testing.T) {
	x := NewExtractor()
	entries := []Entry{
		fileEntry("sub/file.txt", "x", 0),
	}
	err := x.extract(context.Background(), entries, t.TempDir())
	if !models.IsType(err, models.ErrMissingParentDir) {
		t.Fatalf("Expected MissingParentDirectory, got %v", err)
	}

	// Root-level files need no parent entry.
	if err := x.extract(context.Background(), []Entry{fileEntry("file.txt", "x", 0)}, t.TempDir()); err != nil {
		t.Fatalf("Root-level file failed: %v", err)
	}
}

func TestExtractRejectsEmptyEntryName(t *testing.T) {
	x := NewExtractor()
	err := x.extract(context.Background(), []Entry{fileEntry("", "x", 0)}, t.TempDir())
	if !models.IsType(err, models.ErrCorruptEntry) {
		t.Fatalf("Expected CorruptEntry, got %v", err)
	}
}

func TestExtractRecreatesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}

	dest := t.TempDir()
	entries := []Entry{
		dirEntry("lib"),
		fileEntry("lib/libQt6Core.so.6.8.2", "elf bytes", 0o100644),
		fileEntry("lib/libQt6Core.so", "libQt6Core.so.6.8.2", 0o120777),
	}

	x := NewExtractor()
	if err := x.extract(context.Background(), entries, dest); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dest, "lib", "libQt6Core.so"))
	if err != nil {
		t.Fatalf("Expected a symlink: %v", err)
	}
	if target != "libQt6Core.so.6.8.2" {
		t.Errorf("Unexpected link target: %s", target)
	}
}

func TestExtractObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := NewExtractor()
	err := x.extract(ctx, []Entry{fileEntry("file.txt", "x", 0)}, t.TempDir())
	if !models.IsType(err, models.ErrCancelled) {
		t.Fatalf("Expected Cancelled, got %v", err)
	}
}
