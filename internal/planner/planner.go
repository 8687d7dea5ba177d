// Package planner computes the exact set of archive downloads a requested
// installation needs, for both the primary and the optional desktop
// companion.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/qtinst/qtinst/internal/fetch"
	"github.com/qtinst/qtinst/internal/index"
	"github.com/qtinst/qtinst/internal/models"
)

// Catalogs loads a parsed catalog by repository folder URL. Satisfied by
// index.Loader.
type Catalogs interface {
	Load(ctx context.Context, url string) (*models.Index, error)
}

// Selection is the user's request.
type Selection struct {
	Host    string
	Target  string
	Arch    string
	Version models.Version

	Modules        []string
	Extensions     []string
	ArchiveFilters []string
	AutoDesktop    bool
}

// InstallPlan pairs one installation with the downloads that make it up.
type InstallPlan struct {
	Install   models.Installation
	Downloads []models.Download
}

// Plan is the planner's output: the primary installation and, when the
// auto-desktop rule applies, its companion.
type Plan struct {
	Primary   *InstallPlan
	Companion *InstallPlan
}

// Downloads returns every planned download across both installations, with
// duplicate (package, archive) pairs removed.
func (p *Plan) Downloads() []models.Download {
	var out []models.Download
	seen := make(map[string]bool)
	plans := []*InstallPlan{p.Primary, p.Companion}
	for _, ip := range plans {
		if ip == nil {
			continue
		}
		for _, d := range ip.Downloads {
			key := d.Package.Name + "/" + d.Archive.Identifier
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, d)
		}
	}
	return out
}

// Planner resolves selections against remote catalogs.
type Planner struct {
	catalogs Catalogs
	base     string
}

// New creates a Planner fetching catalogs beneath baseURL.
func New(catalogs Catalogs, baseURL string) *Planner {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Planner{catalogs: catalogs, base: baseURL}
}

// Plan computes the downloads for a selection. Requested module or extension
// names that resolve in neither the primary nor the companion catalog fail
// with ModuleNotFound listing every unresolved name; partial satisfaction on
// one side only is acceptable.
func (pl *Planner) Plan(ctx context.Context, sel Selection) (*Plan, error) {
	unresolved := make(map[string]bool)
	for _, name := range sel.Modules {
		unresolved[name] = true
	}
	for _, name := range sel.Extensions {
		unresolved[name] = true
	}

	companion := CompanionFor(sel.Host, sel.Target, sel.Arch, sel.Version)

	plan := &Plan{}

	primarySpec := models.InstallSpec{
		Host:    sel.Host,
		Target:  sel.Target,
		Arch:    sel.Arch,
		Version: sel.Version,
	}

	primaryDownloads, err := pl.resolveSide(ctx, side{
		host:       sel.Host,
		target:     sel.Target,
		arch:       sel.Arch,
		version:    sel.Version,
		modules:    sel.Modules,
		extensions: sel.Extensions,
		filters:    sel.ArchiveFilters,
	}, unresolved)
	if err != nil {
		return nil, err
	}

	if companion != nil && sel.AutoDesktop {
		companionInstall := &models.AutonomousInstall{
			InstallSpec: models.InstallSpec{
				Host:    companion.Host,
				Target:  "desktop",
				Arch:    companion.Arch,
				Version: sel.Version,
			},
		}
		var companionModules []string
		if companionResolvesModules(sel.Target) {
			companionModules = sel.Modules
		}
		companionDownloads, err := pl.resolveSide(ctx, side{
			host:       companion.Host,
			target:     "desktop",
			arch:       companion.Arch,
			version:    sel.Version,
			modules:    companionModules,
			extensions: sel.Extensions,
			filters:    sel.ArchiveFilters,
		}, unresolved)
		if err != nil {
			return nil, err
		}

		plan.Primary = &InstallPlan{
			Install: &models.CrossCompileInstall{
				InstallSpec: primarySpec,
				Companion:   companionInstall,
			},
			Downloads: primaryDownloads,
		}
		plan.Companion = &InstallPlan{
			Install:   companionInstall,
			Downloads: companionDownloads,
		}
	} else {
		plan.Primary = &InstallPlan{
			Install:   &models.AutonomousInstall{InstallSpec: primarySpec},
			Downloads: primaryDownloads,
		}
	}

	if len(unresolved) > 0 {
		names := make([]string, 0, len(unresolved))
		for name := range unresolved {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, &models.QtError{
			Type:    models.ErrModuleNotFound,
			Subject: strings.Join(names, ", "),
			Err:     fmt.Errorf("requested modules/extensions not present in any consulted catalog"),
		}
	}

	return plan, nil
}

type side struct {
	host, target, arch string
	version            models.Version
	modules            []string
	extensions         []string
	filters            []string
}

func (pl *Planner) resolveSide(ctx context.Context, s side, unresolved map[string]bool) ([]models.Download, error) {
	repoURL := RepositoryURL(pl.base, s.host, s.target, s.version)
	idx, err := pl.catalogs.Load(ctx, repoURL)
	if err != nil {
		return nil, err
	}

	var downloads []models.Download

	base, err := index.BasePackage(idx, s.arch)
	if err != nil {
		return nil, err
	}
	for _, a := range base.Archives {
		if !keepBaseArchive(a, s.filters) {
			continue
		}
		downloads = append(downloads, models.Download{
			Package: base,
			Archive: a,
			BaseURL: repoURL + "/" + base.Name,
		})
	}

	for _, name := range s.modules {
		m, ok := index.ModuleByName(idx, s.arch, name)
		if !ok {
			continue
		}
		delete(unresolved, name)
		for _, a := range m.Package.Archives {
			downloads = append(downloads, models.Download{
				Package: m.Package,
				Archive: a,
				BaseURL: repoURL + "/" + m.Package.Name,
			})
		}
	}

	for _, ext := range s.extensions {
		extDownloads, found, err := pl.resolveExtension(ctx, s, ext)
		if err != nil {
			return nil, err
		}
		if found {
			delete(unresolved, ext)
		}
		downloads = append(downloads, extDownloads...)
	}

	return downloads, nil
}

// resolveExtension fetches an extension's own catalog. A 404 means the
// extension has nothing for this architecture and is not fatal.
func (pl *Planner) resolveExtension(ctx context.Context, s side, ext string) ([]models.Download, bool, error) {
	extURL := ExtensionURL(pl.base, s.host, ext, s.version, s.arch)
	idx, err := pl.catalogs.Load(ctx, extURL)
	if err != nil {
		var httpErr *fetch.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, false, nil
		}
		return nil, false, err
	}

	var downloads []models.Download
	found := false
	for _, p := range idx.Packages {
		if !strings.HasSuffix(p.Name, "."+s.arch) {
			continue
		}
		found = true
		for _, a := range p.Archives {
			downloads = append(downloads, models.Download{
				Package: p,
				Archive: a,
				BaseURL: extURL + "/" + p.Name,
			})
		}
	}
	return downloads, found, nil
}

// keepBaseArchive applies user archive filters to the base package. Filters
// narrow auxiliary archives only; the mandatory core archive always stays.
func keepBaseArchive(a models.Archive, filters []string) bool {
	if len(filters) == 0 || a.ShortName() == models.CoreShortName {
		return true
	}
	for _, f := range filters {
		if strings.Contains(a.Identifier, f) {
			return true
		}
	}
	return false
}
