package models

// Download is one planned unit of work: a single archive of a single package
// together with the repository folder it is served from. The (package,
// archive) pair is unique within a run.
type Download struct {
	Package Package
	Archive Archive

	// BaseURL is the repository folder containing the archive, without a
	// trailing slash.
	BaseURL string
}

// URL returns the full remote URL of the archive.
func (d Download) URL() string {
	return d.BaseURL + "/" + d.Archive.FileName
}

// IsCore reports whether this download is the mandatory core archive its
// installation's directory name is derived from.
func (d Download) IsCore() bool {
	return d.Archive.ShortName() == CoreShortName
}

// CoreShortName is the short name of the distribution's mandatory core
// archive.
const CoreShortName = "qtbase"
