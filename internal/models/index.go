package models

import "strings"

// Archive is a single downloadable archive belonging to a package.
type Archive struct {
	// Identifier is the archive's entry in the catalog's archive list,
	// e.g. "qtbase-Linux-RHEL_8_10-GCC-Linux-RHEL_8_10-X86_64.7z".
	Identifier string

	// FileName is the version-prefixed on-disk name the mirror serves,
	// e.g. "6.8.2-0-202502141352qtbase-Linux-....7z".
	FileName string

	// TargetDirComponents are the path segments beneath the install root
	// where this archive's contents must land, recovered from the
	// catalog's Extract operation. Empty means the install root itself.
	TargetDirComponents []string
}

// ShortName returns the archive identifier up to the first dash. The core
// archive of every base package is short-named "qtbase".
func (a Archive) ShortName() string {
	if idx := strings.Index(a.Identifier, "-"); idx >= 0 {
		return a.Identifier[:idx]
	}
	return a.Identifier
}

// Package is one PackageUpdate entry of the catalog. The dotted Name encodes
// hierarchy: 4 segments for a base package (vendor.namespace.edition.arch),
// 5 or more for a module package, optionally with a group qualifier.
type Package struct {
	Name        string
	DisplayName string
	Version     string
	Archives    []Archive
}

// NameSegments returns the dot-separated segments of the package name.
func (p Package) NameSegments() []string {
	return strings.Split(p.Name, ".")
}

// Arch returns the architecture suffix (the last name segment).
func (p Package) Arch() string {
	segs := p.NameSegments()
	return segs[len(segs)-1]
}

// HasArchive reports whether the package carries an archive with the given
// short name.
func (p Package) HasArchive(shortName string) bool {
	for _, a := range p.Archives {
		if a.ShortName() == shortName {
			return true
		}
	}
	return false
}

// Index is the parsed remote catalog. Immutable once parsed; its lifetime is
// one resolution run.
type Index struct {
	Packages []Package
}

// Module is a derived view over a module package: the optional component it
// provides for one architecture.
type Module struct {
	// Name is the user-facing module name, e.g. "qtcharts".
	Name string

	// Package is the underlying catalog package.
	Package Package
}
