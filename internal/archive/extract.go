package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qtinst/qtinst/internal/models"
)

// Extractor unpacks archives into a destination tree. A single Extractor is
// shared across parallel extractions; dirLock serializes directory creation
// since workers may create the same parent concurrently.
type Extractor struct {
	dirLock sync.Mutex
}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks the archive at archivePath into dest, creating dest if
// absent. Entries escaping dest fail with PathEscape; file entries whose
// parent was not an explicit directory entry of the same archive fail with
// MissingParentDirectory; empty entry names fail with CorruptEntry. Symlink
// entries are recreated as symlinks, and Unix permission metadata is applied
// when present. The context is observed at every entry boundary.
func (x *Extractor) Extract(ctx context.Context, archivePath, dest string) error {
	r, err := Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", archivePath, err)
	}
	defer r.Close()

	return x.extract(ctx, r.Entries(), dest)
}

func (x *Extractor) extract(ctx context.Context, entries []Entry, dest string) error {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	if err := x.mkdir(dest); err != nil {
		return err
	}

	// Directories already seen as explicit directory entries of this
	// archive, keyed by cleaned slash path. Per-archive scope; no lock
	// needed beyond the shared directory-creation lock.
	seen := make(map[string]bool)

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return &models.QtError{Type: models.ErrCancelled, Err: ctx.Err()}
		default:
		}

		if entry.Name == "" {
			return &models.QtError{
				Type: models.ErrCorruptEntry,
				Err:  fmt.Errorf("archive entry with empty name"),
			}
		}

		name := path.Clean(entry.Name)
		target := filepath.Join(dest, filepath.FromSlash(name))
		if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
			return &models.QtError{
				Type:    models.ErrPathEscape,
				Subject: entry.Name,
				Err:     fmt.Errorf("entry resolves outside destination %s", dest),
			}
		}

		if entry.IsDir {
			if err := x.mkdir(target); err != nil {
				return err
			}
			seen[name] = true
			continue
		}

		// Directories must come from explicit directory entries; a
		// file path alone never creates one.
		if parent := path.Dir(name); parent != "." && !seen[parent] {
			return &models.QtError{
				Type:    models.ErrMissingParentDir,
				Subject: entry.Name,
				Err:     fmt.Errorf("parent directory %s was not an entry of this archive", parent),
			}
		}

		if err := x.writeEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func (x *Extractor) mkdir(dir string) error {
	x.dirLock.Lock()
	defer x.dirLock.Unlock()
	return os.MkdirAll(dir, 0755)
}

func (x *Extractor) writeEntry(entry Entry, target string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	// Symlinks are stored as regular entries whose content is the link
	// target path; recreate them instead of writing a file.
	if entry.IsSymlink() {
		linkTarget, err := io.ReadAll(src)
		if err != nil {
			return fmt.Errorf("reading symlink entry %s: %w", entry.Name, err)
		}
		return os.Symlink(string(linkTarget), target)
	}

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("extracting %s: %w", entry.Name, err)
	}
	if err := dst.Close(); err != nil {
		return err
	}

	if entry.HasUnixMode() {
		if err := os.Chmod(target, entry.Perm()); err != nil {
			return err
		}
	}
	return nil
}
