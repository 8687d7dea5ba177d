package planner

import (
	"testing"

	"github.com/qtinst/qtinst/internal/models"
)

func TestCompanionForWindowsArmCross(t *testing.T) {
	c := CompanionFor("windows", "desktop", "win64_msvc2022_arm64_cross_compiled", v682)
	if c == nil {
		t.Fatal("Expected a companion for the ARM cross toolchain")
	}
	if c.Host != "windows" || c.Arch != "win64_msvc2022_64" {
		t.Errorf("Unexpected companion: %+v", c)
	}
}

func TestCompanionForMobileTargets(t *testing.T) {
	if c := CompanionFor("mac", "ios", "ios", v682); c == nil || c.Host != "mac" || c.Arch != "clang_64" {
		t.Errorf("iOS companion: %+v", c)
	}
	if c := CompanionFor("windows", "wasm", "wasm_singlethread", v682); c == nil || c.Arch != "win64_mingw" {
		t.Errorf("WASM-on-windows companion must be MinGW-based: %+v", c)
	}
	if c := CompanionFor("linux", "android", "android_arm64_v8a", v682); c == nil || c.Arch != "linux_gcc_64" {
		t.Errorf("Android-on-linux companion: %+v", c)
	}
}

func TestCompanionForSubstitutesAllOSHost(t *testing.T) {
	c := CompanionFor("all_os", "wasm", "wasm_singlethread", v682)
	if c == nil {
		t.Fatal("Expected a companion")
	}
	if c.Host != RunningHost() {
		t.Errorf("Placeholder host must resolve to the running host, got %s", c.Host)
	}
}

func TestCompanionForPlainDesktop(t *testing.T) {
	if c := CompanionFor("linux", "desktop", "linux_gcc_64", v682); c != nil {
		t.Errorf("Plain desktop needs no companion, got %+v", c)
	}
}

func TestDefaultDesktopArch(t *testing.T) {
	cases := []struct {
		host string
		v    models.Version
		want string
	}{
		{"linux", v682, "linux_gcc_64"},
		{"linux", models.Version{Major: 6, Minor: 6, Patch: 3}, "gcc_64"},
		{"mac", v682, "clang_64"},
		{"windows", v682, "win64_msvc2022_64"},
		{"windows", models.Version{Major: 6, Minor: 5, Patch: 0}, "win64_msvc2019_64"},
	}
	for _, tc := range cases {
		if got := DefaultDesktopArch(tc.host, tc.v); got != tc.want {
			t.Errorf("DefaultDesktopArch(%s, %s) = %s, want %s", tc.host, tc.v, got, tc.want)
		}
	}
}

func TestDefaultArch(t *testing.T) {
	if got := DefaultArch("linux", "desktop", v682); got != "linux_gcc_64" {
		t.Errorf("linux desktop default = %s", got)
	}
	if got := DefaultArch("all_os", "wasm", v682); got != "wasm_singlethread" {
		t.Errorf("wasm default = %s", got)
	}
	if got := DefaultArch("linux", "android", v682); got != "android_arm64_v8a" {
		t.Errorf("android default = %s", got)
	}
}

func TestRepositoryURLLayout(t *testing.T) {
	got := RepositoryURL("https://download.qt.io", "linux", "desktop", v682)
	want := "https://download.qt.io/online/qtsdkrepository/linux_x64/desktop/qt6_682"
	if got != want {
		t.Errorf("RepositoryURL = %s, want %s", got, want)
	}

	ext := ExtensionURL("https://download.qt.io", "windows", "qtwebengine", v682, "win64_msvc2022_64")
	wantExt := "https://download.qt.io/online/qtsdkrepository/windows_x86/extensions/qtwebengine/682/win64_msvc2022_64"
	if ext != wantExt {
		t.Errorf("ExtensionURL = %s, want %s", ext, wantExt)
	}
}
