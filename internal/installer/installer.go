// Package installer drives the planned downloads and extractions under
// bounded concurrency and leaves either a complete, patched install tree or
// nothing.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/qtinst/qtinst/internal/archive"
	"github.com/qtinst/qtinst/internal/fetch"
	"github.com/qtinst/qtinst/internal/models"
	"github.com/qtinst/qtinst/internal/patcher"
	"github.com/qtinst/qtinst/internal/planner"
	"github.com/sirupsen/logrus"
)

const (
	defaultDownloadWorkers = 6
	defaultExtractWorkers  = 3
)

// Options configures a run.
type Options struct {
	OutputDir        string
	DownloadWorkers  int
	ExtractWorkers   int
	SkipVerification bool
}

// Installer owns the shared client, extractor and locks of one run.
type Installer struct {
	client    *fetch.Client
	opts      Options
	extractor *archive.Extractor

	// stagingLock serializes staging-subdirectory creation; download
	// workers may share a parent directory.
	stagingLock sync.Mutex
}

// New creates an Installer.
func New(client *fetch.Client, opts Options) *Installer {
	if opts.DownloadWorkers <= 0 {
		opts.DownloadWorkers = defaultDownloadWorkers
	}
	if opts.ExtractWorkers <= 0 {
		opts.ExtractWorkers = defaultExtractWorkers
	}
	return &Installer{
		client:    client,
		opts:      opts,
		extractor: archive.NewExtractor(),
	}
}

// Run executes a plan: download every archive into a staging directory,
// derive and reserve the install directories, extract, then patch. The
// staging directory never survives the run; the install directories survive
// only a fully successful one. The already-installed check is check-then-act,
// which is acceptable for a single-user CLI.
func (ins *Installer) Run(ctx context.Context, plan *planner.Plan) error {
	outputDir, err := filepath.Abs(ins.opts.OutputDir)
	if err != nil {
		return err
	}

	staging, err := os.MkdirTemp("", "qtinst-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	guard := newCleanupGuard()
	guard.add(staging)
	defer guard.run()

	downloads := plan.Downloads()
	staged := make([]string, len(downloads))

	logrus.Infof("Downloading %d archives...", len(downloads))
	err = forEachLimit(ctx, ins.opts.DownloadWorkers, len(downloads), func(ctx context.Context, i int) error {
		return ins.download(ctx, downloads[i], staging, &staged[i])
	})
	if err != nil {
		return asRunError(err)
	}

	stagedFor := func(d models.Download) string {
		for i := range downloads {
			if downloads[i].Package.Name == d.Package.Name &&
				downloads[i].Archive.Identifier == d.Archive.Identifier {
				return staged[i]
			}
		}
		return ""
	}

	installs := []*planner.InstallPlan{plan.Primary, plan.Companion}
	for _, ip := range installs {
		if ip == nil {
			continue
		}
		if err := ins.reserveInstallDir(ip, outputDir, stagedFor, guard); err != nil {
			return err
		}
	}

	logrus.Infof("Extracting %d archives...", len(downloads))
	err = forEachLimit(ctx, ins.opts.ExtractWorkers, len(downloads), func(ctx context.Context, i int) error {
		dest := outputDir
		for _, comp := range downloads[i].Archive.TargetDirComponents {
			dest = filepath.Join(dest, comp)
		}
		if err := ins.extractor.Extract(ctx, staged[i], dest); err != nil {
			return err
		}
		// Bound disk usage: the staged archive is no longer needed.
		return os.Remove(staged[i])
	})
	if err != nil {
		return asRunError(err)
	}

	for _, ip := range installs {
		if ip == nil {
			continue
		}
		if err := patcher.Patch(ip.Install); err != nil {
			return err
		}
	}

	for _, ip := range installs {
		if ip == nil {
			continue
		}
		guard.release(ip.Install.Root())
		logrus.Infof("Installed %s", ip.Install.Root())
	}
	return nil
}

func (ins *Installer) download(ctx context.Context, d models.Download, staging string, stagedPath *string) error {
	dir := filepath.Join(staging, d.Package.Name)
	ins.stagingLock.Lock()
	err := os.MkdirAll(dir, 0755)
	ins.stagingLock.Unlock()
	if err != nil {
		return err
	}

	url := d.URL()
	dest := filepath.Join(dir, d.Archive.FileName)
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	logrus.Debugf("Downloading %s", url)
	if ins.opts.SkipVerification {
		err = ins.client.FetchToSink(ctx, url, f)
	} else {
		var expected [32]byte
		expected, err = ins.client.FetchPublishedHash(ctx, url)
		if err == nil {
			err = ins.client.FetchVerified(ctx, url, expected, f)
		}
	}
	if err != nil {
		// Partial or mismatching bytes stay on disk until the staging
		// directory is cleaned up.
		return err
	}

	*stagedPath = dest
	return nil
}

// reserveInstallDir derives the installation's final directory, fails if it
// already exists, and schedules it for deletion-on-failure.
func (ins *Installer) reserveInstallDir(ip *planner.InstallPlan, outputDir string, stagedFor func(models.Download) string, guard *cleanupGuard) error {
	var core *models.Download
	for i := range ip.Downloads {
		if ip.Downloads[i].IsCore() {
			core = &ip.Downloads[i]
			break
		}
	}
	if core == nil {
		return &models.QtError{
			Type: models.ErrAmbiguousLayout,
			Err:  fmt.Errorf("plan has no core archive to derive the install directory from"),
		}
	}

	version := ip.Install.Spec().Version.String()
	leaf, err := installDirLeaf(*core, stagedFor(*core), version)
	if err != nil {
		return err
	}

	dir := filepath.Join(outputDir, version, leaf)
	if _, err := os.Stat(dir); err == nil {
		return &models.QtError{
			Type:    models.ErrAlreadyInstalled,
			Subject: dir,
			Err:     fmt.Errorf("install directory already exists"),
		}
	}
	guard.add(dir)
	ip.Install.SetRoot(dir)
	return nil
}

// asRunError maps a cooperative cancellation onto the Cancelled outcome.
func asRunError(err error) error {
	if models.IsType(err, models.ErrCancelled) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return &models.QtError{Type: models.ErrCancelled, Err: err}
	}
	return err
}

// forEachLimit runs fn for every index with at most limit goroutines. The
// first error cancels the remaining work and is returned.
func forEachLimit(ctx context.Context, limit, n int, fn func(ctx context.Context, i int) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if err := fn(ctx, i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return context.Cause(ctx)
}
