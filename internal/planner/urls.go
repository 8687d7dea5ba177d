package planner

import (
	"fmt"

	"github.com/qtinst/qtinst/internal/models"
)

// DefaultBaseURL is the trusted mirror the repository layout lives under.
const DefaultBaseURL = "https://download.qt.io"

// osFolder maps a host name to its folder in the online repository layout.
func osFolder(host string) string {
	switch host {
	case "linux":
		return "linux_x64"
	case "mac":
		return "mac_x64"
	case "windows":
		return "windows_x86"
	default:
		// "all_os" and any future placeholder map through unchanged.
		return host
	}
}

// RepositoryURL returns the repository folder holding the Qt packages for a
// host/target/version tuple, without a trailing slash.
func RepositoryURL(base, host, target string, v models.Version) string {
	return fmt.Sprintf("%s/online/qtsdkrepository/%s/%s/qt%d_%s",
		base, osFolder(host), target, v.Major, v.NoDot())
}

// ExtensionURL returns the catalog folder of a separately-versioned
// extension for one architecture.
func ExtensionURL(base, host, extension string, v models.Version, arch string) string {
	return fmt.Sprintf("%s/online/qtsdkrepository/%s/extensions/%s/%s/%s",
		base, osFolder(host), extension, v.NoDot(), arch)
}
