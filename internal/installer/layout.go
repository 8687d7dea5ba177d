package installer

import (
	"fmt"
	"path"
	"strings"

	"github.com/qtinst/qtinst/internal/archive"
	"github.com/qtinst/qtinst/internal/models"
)

// installDirLeaf derives the architecture leaf of an installation's final
// directory from its core download. The name embedded in the archive's
// target-directory metadata wins; otherwise the staged archive is scanned
// for the unique <version>/<arch>/bin directory entry.
func installDirLeaf(d models.Download, stagedPath, version string) (string, error) {
	if comps := d.Archive.TargetDirComponents; len(comps) >= 2 {
		return comps[1], nil
	}

	r, err := archive.Open(stagedPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", stagedPath, err)
	}
	defer r.Close()

	return archLeafFromEntries(r.Entries(), version, d.Archive.FileName)
}

// archLeafFromEntries scans directory entries for the fixed 3-segment
// pattern <version>/<arch>/bin and returns the unique middle segment.
func archLeafFromEntries(entries []archive.Entry, version, subject string) (string, error) {
	var candidates []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		segs := strings.Split(path.Clean(e.Name), "/")
		if len(segs) != 3 || segs[0] != version || segs[2] != "bin" {
			continue
		}
		if !seen[segs[1]] {
			seen[segs[1]] = true
			candidates = append(candidates, segs[1])
		}
	}

	if len(candidates) != 1 {
		return "", &models.QtError{
			Type:    models.ErrAmbiguousLayout,
			Subject: subject,
			Err:     fmt.Errorf("%d candidate %s/*/bin directories", len(candidates), version),
		}
	}
	return candidates[0], nil
}
