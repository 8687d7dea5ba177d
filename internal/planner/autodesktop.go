package planner

import (
	"runtime"
	"strings"

	"github.com/qtinst/qtinst/internal/models"
)

// armCrossSuffix marks Windows-on-ARM cross-compile architectures whose
// companion is the matching x64 desktop toolchain.
const armCrossSuffix = "_arm64_cross_compiled"

// Companion identifies the host-native desktop installation a cross-compile
// target needs alongside it.
type Companion struct {
	Host string
	Arch string
}

// CompanionFor determines whether a (host, target, arch) tuple needs a
// desktop companion and which one. Returns nil when the installation is
// self-sufficient. When the requested host is the "all_os" placeholder, the
// companion substitutes the detected running host.
func CompanionFor(host, target, arch string, v models.Version) *Companion {
	switch {
	case target == "desktop" && host == "windows" && strings.HasSuffix(arch, armCrossSuffix):
		return &Companion{
			Host: "windows",
			Arch: strings.TrimSuffix(arch, armCrossSuffix) + "_64",
		}
	case target == "ios":
		return &Companion{Host: "mac", Arch: DefaultDesktopArch("mac", v)}
	case target == "wasm" || target == "android":
		h := host
		if h == "all_os" {
			h = RunningHost()
		}
		if h == "windows" {
			// Desktop companions for these targets are MinGW-based,
			// not MSVC.
			return &Companion{Host: h, Arch: "win64_mingw"}
		}
		return &Companion{Host: h, Arch: DefaultDesktopArch(h, v)}
	default:
		return nil
	}
}

// companionResolvesModules reports whether the requested module set is also
// resolved against the companion's module table. Restricted to the WASM
// target; widening it is a product decision, not a planner one.
func companionResolvesModules(target string) bool {
	return target == "wasm"
}

// RunningHost returns the host name of the platform the tool runs on.
func RunningHost() string {
	switch runtime.GOOS {
	case "darwin":
		return "mac"
	case "windows":
		return "windows"
	default:
		return "linux"
	}
}

// DefaultDesktopArch returns the default desktop architecture for a host and
// version.
func DefaultDesktopArch(host string, v models.Version) string {
	switch host {
	case "mac":
		return "clang_64"
	case "windows":
		if v.AtLeast(6, 8) {
			return "win64_msvc2022_64"
		}
		return "win64_msvc2019_64"
	default:
		if v.AtLeast(6, 7) {
			return "linux_gcc_64"
		}
		return "gcc_64"
	}
}

// DefaultArch returns the architecture used when the user gives none.
func DefaultArch(host, target string, v models.Version) string {
	switch target {
	case "wasm":
		return "wasm_singlethread"
	case "android":
		return "android_arm64_v8a"
	case "ios":
		return "ios"
	default:
		return DefaultDesktopArch(host, v)
	}
}
