package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/qtinst/qtinst/internal/archive"
	"github.com/qtinst/qtinst/internal/models"
	"github.com/qtinst/qtinst/internal/planner"
)

func TestCleanupGuardDeletesUnreleased(t *testing.T) {
	base := t.TempDir()
	keep := filepath.Join(base, "keep")
	drop := filepath.Join(base, "drop")
	for _, dir := range []string{keep, drop} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	guard := newCleanupGuard()
	guard.add(keep)
	guard.add(drop)
	guard.release(keep)
	guard.run()

	if _, err := os.Stat(keep); err != nil {
		t.Errorf("Released path must survive: %v", err)
	}
	if _, err := os.Stat(drop); !os.IsNotExist(err) {
		t.Errorf("Unreleased path must be deleted, got %v", err)
	}
}

func TestArchLeafFromEntries(t *testing.T) {
	dirs := func(names ...string) []archive.Entry {
		var out []archive.Entry
		for _, n := range names {
			out = append(out, archive.Entry{Name: n, IsDir: true})
		}
		return out
	}

	leaf, err := archLeafFromEntries(dirs("6.8.2", "6.8.2/gcc_64", "6.8.2/gcc_64/bin", "6.8.2/gcc_64/lib"), "6.8.2", "qtbase.7z")
	if err != nil {
		t.Fatalf("archLeafFromEntries failed: %v", err)
	}
	if leaf != "gcc_64" {
		t.Errorf("Expected gcc_64, got %s", leaf)
	}

	_, err = archLeafFromEntries(dirs("6.8.2", "6.8.2/gcc_64"), "6.8.2", "qtbase.7z")
	if !models.IsType(err, models.ErrAmbiguousLayout) {
		t.Errorf("No candidate: expected AmbiguousLayout, got %v", err)
	}

	_, err = archLeafFromEntries(dirs("6.8.2/gcc_64/bin", "6.8.2/other/bin"), "6.8.2", "qtbase.7z")
	if !models.IsType(err, models.ErrAmbiguousLayout) {
		t.Errorf("Two candidates: expected AmbiguousLayout, got %v", err)
	}
}

func TestInstallDirLeafPrefersMetadata(t *testing.T) {
	d := models.Download{
		Archive: models.Archive{
			Identifier:          "qtbase-x",
			TargetDirComponents: []string{"6.8.2", "gcc_64"},
		},
	}
	// No staged archive exists; the embedded name must win without a scan.
	leaf, err := installDirLeaf(d, filepath.Join(t.TempDir(), "missing.7z"), "6.8.2")
	if err != nil {
		t.Fatalf("installDirLeaf failed: %v", err)
	}
	if leaf != "gcc_64" {
		t.Errorf("Expected gcc_64, got %s", leaf)
	}
}

func TestReserveInstallDirAlreadyInstalled(t *testing.T) {
	outputDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(outputDir, "6.8.2", "gcc_64"), 0755); err != nil {
		t.Fatal(err)
	}

	install := &models.AutonomousInstall{
		InstallSpec: models.InstallSpec{
			Host: "linux", Target: "desktop", Arch: "linux_gcc_64",
			Version: models.Version{Major: 6, Minor: 8, Patch: 2},
		},
	}
	ip := &planner.InstallPlan{
		Install: install,
		Downloads: []models.Download{{
			Archive: models.Archive{
				Identifier:          "qtbase-x",
				TargetDirComponents: []string{"6.8.2", "gcc_64"},
			},
		}},
	}

	ins := New(nil, Options{})
	guard := newCleanupGuard()
	err := ins.reserveInstallDir(ip, outputDir, func(models.Download) string { return "" }, guard)
	if !models.IsType(err, models.ErrAlreadyInstalled) {
		t.Fatalf("Expected AlreadyInstalled, got %v", err)
	}
}

func TestReserveInstallDirSetsRoot(t *testing.T) {
	outputDir := t.TempDir()
	install := &models.AutonomousInstall{
		InstallSpec: models.InstallSpec{
			Version: models.Version{Major: 6, Minor: 8, Patch: 2},
		},
	}
	ip := &planner.InstallPlan{
		Install: install,
		Downloads: []models.Download{{
			Archive: models.Archive{
				Identifier:          "qtbase-x",
				TargetDirComponents: []string{"6.8.2", "gcc_64"},
			},
		}},
	}

	ins := New(nil, Options{})
	guard := newCleanupGuard()
	if err := ins.reserveInstallDir(ip, outputDir, func(models.Download) string { return "" }, guard); err != nil {
		t.Fatalf("reserveInstallDir failed: %v", err)
	}
	want := filepath.Join(outputDir, "6.8.2", "gcc_64")
	if install.Dir != want {
		t.Errorf("Root = %s, want %s", install.Dir, want)
	}
}

func TestForEachLimitStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32

	err := forEachLimit(context.Background(), 2, 100, func(ctx context.Context, i int) error {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		ran.Add(1)
		if i == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected first error back, got %v", err)
	}
	if n := ran.Load(); n == 100 {
		t.Errorf("Cancellation should skip pending work, all %d items ran", n)
	}
}

func TestForEachLimitCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := forEachLimit(ctx, 2, 5, func(ctx context.Context, i int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if got := asRunError(err); !models.IsType(got, models.ErrCancelled) {
		t.Errorf("asRunError must map to Cancelled, got %v", got)
	}
}
