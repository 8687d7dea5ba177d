package cli

import (
	"testing"

	"github.com/qtinst/qtinst/internal/models"
)

func TestParseSelectionDefaultsArch(t *testing.T) {
	sel, err := parseSelection([]string{"linux", "desktop", "6.8.2"}, &installConfig{})
	if err != nil {
		t.Fatalf("parseSelection failed: %v", err)
	}
	if sel.Arch != "linux_gcc_64" {
		t.Errorf("Default arch = %s, want linux_gcc_64", sel.Arch)
	}
}

func TestParseSelectionExplicitArch(t *testing.T) {
	sel, err := parseSelection([]string{"windows", "desktop", "6.8.2", "win64_mingw"}, &installConfig{})
	if err != nil {
		t.Fatalf("parseSelection failed: %v", err)
	}
	if sel.Arch != "win64_mingw" {
		t.Errorf("Arch = %s, want win64_mingw", sel.Arch)
	}
}

func TestParseSelectionRejectsBadArguments(t *testing.T) {
	cases := [][]string{
		{"solaris", "desktop", "6.8.2"},
		{"linux", "toaster", "6.8.2"},
		{"linux", "desktop", "six.eight"},
		{"linux", "desktop", "6.8"},
	}
	for _, args := range cases {
		if _, err := parseSelection(args, &installConfig{}); !models.IsType(err, models.ErrInvalidArgument) {
			t.Errorf("Args %v: expected InvalidArgument, got %v", args, err)
		}
	}
}
