// Package index parses the remote package catalog (Updates.xml) into typed
// records and answers derived queries over them.
package index

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/qtinst/qtinst/internal/models"
)

// targetDirPlaceholder is the canonical root every Extract operation's
// target-directory argument must be rooted at.
const targetDirPlaceholder = "@TargetDir@"

type updatesDoc struct {
	XMLName xml.Name        `xml:"Updates"`
	Updates []packageUpdate `xml:"PackageUpdate"`
}

type packageUpdate struct {
	Name                 string      `xml:"Name"`
	DisplayName          string      `xml:"DisplayName"`
	Version              string      `xml:"Version"`
	DownloadableArchives string      `xml:"DownloadableArchives"`
	Operations           []operation `xml:"Operations>Operation"`
}

type operation struct {
	Name      string   `xml:"name,attr"`
	Arguments []string `xml:"Argument"`
}

// Parse decodes a catalog document into an Index. The document must have an
// Updates root containing PackageUpdate entries with Name and Version; the
// Extract operation's target-directory argument must be rooted at
// @TargetDir@. Violations fail with MalformedIndex.
func Parse(data []byte) (*models.Index, error) {
	var doc updatesDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &models.QtError{
			Type: models.ErrMalformedIndex,
			Err:  fmt.Errorf("decoding catalog: %w", err),
		}
	}
	if doc.XMLName.Local != "Updates" {
		return nil, &models.QtError{
			Type: models.ErrMalformedIndex,
			Err:  fmt.Errorf("catalog root element is %q, want Updates", doc.XMLName.Local),
		}
	}

	idx := &models.Index{}
	for _, pu := range doc.Updates {
		pkg, err := parsePackage(pu)
		if err != nil {
			return nil, err
		}
		idx.Packages = append(idx.Packages, pkg)
	}
	return idx, nil
}

func parsePackage(pu packageUpdate) (models.Package, error) {
	if pu.Name == "" {
		return models.Package{}, &models.QtError{
			Type: models.ErrMalformedIndex,
			Err:  fmt.Errorf("package entry without a Name"),
		}
	}
	if pu.Version == "" {
		return models.Package{}, &models.QtError{
			Type:    models.ErrMalformedIndex,
			Subject: pu.Name,
			Err:     fmt.Errorf("package entry without a Version"),
		}
	}

	targetDirs, err := extractTargets(pu)
	if err != nil {
		return models.Package{}, err
	}

	pkg := models.Package{
		Name:        pu.Name,
		DisplayName: pu.DisplayName,
		Version:     pu.Version,
	}
	for _, id := range splitArchiveList(pu.DownloadableArchives) {
		pkg.Archives = append(pkg.Archives, models.Archive{
			Identifier:          id,
			FileName:            pu.Version + id,
			TargetDirComponents: targetDirs[id],
		})
	}
	return pkg, nil
}

// extractTargets recovers the per-archive target-directory components from
// the Extract operations. Missing means the install root.
func extractTargets(pu packageUpdate) (map[string][]string, error) {
	targets := make(map[string][]string)
	for _, op := range pu.Operations {
		if op.Name != "Extract" || len(op.Arguments) != 2 {
			continue
		}
		targetDir, archiveID := op.Arguments[0], op.Arguments[1]
		components, err := splitTargetDir(pu.Name, targetDir)
		if err != nil {
			return nil, err
		}
		targets[archiveID] = components
	}
	return targets, nil
}

func splitTargetDir(pkgName, targetDir string) ([]string, error) {
	rest, ok := strings.CutPrefix(targetDir, targetDirPlaceholder)
	if !ok {
		return nil, &models.QtError{
			Type:    models.ErrMalformedIndex,
			Subject: pkgName,
			Err:     fmt.Errorf("extract target %q is not rooted at %s", targetDir, targetDirPlaceholder),
		}
	}
	var components []string
	for _, seg := range strings.Split(rest, "/") {
		if seg != "" {
			components = append(components, seg)
		}
	}
	return components, nil
}

// splitArchiveList splits the DownloadableArchives field on commas and
// semicolons, trimming whitespace and dropping empty entries.
func splitArchiveList(list string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
