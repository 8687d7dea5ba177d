package index

import (
	"fmt"
	"strings"

	"github.com/qtinst/qtinst/internal/models"
)

// baseSegments is the segment count of a base package name
// (vendor.namespace.edition.arch). Module packages have more.
const baseSegments = 4

// groupQualifier is the optional group segment directly after the fixed
// 3-segment prefix of module package names. It is not part of the derived
// module name.
const groupQualifier = "addons"

// BasePackages returns the packages whose name has exactly four dot-segments
// and which carry the distribution's core archive.
func BasePackages(idx *models.Index) []models.Package {
	var out []models.Package
	for _, p := range idx.Packages {
		if len(p.NameSegments()) == baseSegments && p.HasArchive(models.CoreShortName) {
			out = append(out, p)
		}
	}
	return out
}

// BasePackage returns the unique base package for the given architecture.
// It fails with NotFound when none matches and Ambiguous when several do.
func BasePackage(idx *models.Index, arch string) (models.Package, error) {
	var matches []models.Package
	for _, p := range BasePackages(idx) {
		if strings.HasSuffix(p.Name, "."+arch) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Package{}, &models.QtError{
			Type:    models.ErrNotFound,
			Subject: arch,
			Err:     fmt.Errorf("no base package for architecture"),
		}
	case 1:
		return matches[0], nil
	default:
		return models.Package{}, &models.QtError{
			Type:    models.ErrAmbiguous,
			Subject: arch,
			Err:     fmt.Errorf("%d base packages for architecture", len(matches)),
		}
	}
}

// Architectures returns the architecture suffix of every base package, in
// catalog order.
func Architectures(idx *models.Index) []string {
	var out []string
	for _, p := range BasePackages(idx) {
		out = append(out, p.Arch())
	}
	return out
}

// Modules returns the modules available for the given architecture, in
// catalog order. A module package has at least five name segments and ends in
// the architecture; its module name is the segments between the fixed prefix
// and the architecture suffix, with a leading group qualifier skipped.
func Modules(idx *models.Index, arch string) []models.Module {
	var out []models.Module
	for _, p := range idx.Packages {
		segs := p.NameSegments()
		if len(segs) <= baseSegments || segs[len(segs)-1] != arch {
			continue
		}
		middle := segs[baseSegments-1 : len(segs)-1]
		if middle[0] == groupQualifier {
			middle = middle[1:]
		}
		if len(middle) == 0 {
			continue
		}
		out = append(out, models.Module{
			Name:    strings.Join(middle, "."),
			Package: p,
		})
	}
	return out
}

// ModuleByName resolves a requested module name against the
// architecture-filtered module table.
func ModuleByName(idx *models.Index, arch, name string) (models.Module, bool) {
	for _, m := range Modules(idx, arch) {
		if m.Name == name {
			return m, true
		}
	}
	return models.Module{}, false
}
