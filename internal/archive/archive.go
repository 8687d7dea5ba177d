// Package archive opens the distribution's 7z archives, lists their entries
// and extracts them with path-safety and permission/symlink fidelity. The
// container format itself is decoded by an external reader; all extraction
// policy lives here.
package archive

import (
	"io"
	"io/fs"

	"github.com/bodgit/sevenzip"
)

// Extended-attribute layout of per-entry Unix metadata: bit 15 of the
// attributes word marks the presence of a POSIX mode in the high 16 bits.
const (
	attrUnixExtension = 0x8000
	unixTypeMask      = 0xF000
	unixSymlink       = 0xA000
)

// Entry is a single archive member.
type Entry struct {
	// Name is the slash-separated path relative to the archive root.
	Name string

	// IsDir marks explicit directory entries.
	IsDir bool

	// UnixMode holds the raw POSIX mode bits recorded in the entry's
	// extended attributes, or 0 when absent.
	UnixMode uint32

	// Open returns the entry's byte content. Nil for directory entries.
	Open func() (io.ReadCloser, error)
}

// HasUnixMode reports whether the entry carries Unix permission metadata.
func (e Entry) HasUnixMode() bool {
	return e.UnixMode != 0
}

// IsSymlink reports whether the entry's declared Unix file type is a
// symbolic link.
func (e Entry) IsSymlink() bool {
	return e.UnixMode&unixTypeMask == unixSymlink
}

// Perm returns the permission bits of the entry's Unix mode.
func (e Entry) Perm() fs.FileMode {
	return fs.FileMode(e.UnixMode & 0o777)
}

// Reader lists the entries of an archive on disk.
type Reader struct {
	rc *sevenzip.ReadCloser
}

// Open opens the archive at path.
func Open(path string) (*Reader, error) {
	rc, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &Reader{rc: rc}, nil
}

// Entries returns the archive members in archive order. The returned Open
// closures are valid until the Reader is closed.
func (r *Reader) Entries() []Entry {
	entries := make([]Entry, 0, len(r.rc.File))
	for _, f := range r.rc.File {
		entry := Entry{
			Name:  f.Name,
			IsDir: f.FileInfo().IsDir(),
		}
		if f.Attributes&attrUnixExtension != 0 {
			entry.UnixMode = f.Attributes >> 16
		}
		if !entry.IsDir {
			open := f.Open
			entry.Open = func() (io.ReadCloser, error) { return open() }
		}
		entries = append(entries, entry)
	}
	return entries
}

// Close releases the underlying archive file.
func (r *Reader) Close() error {
	return r.rc.Close()
}
