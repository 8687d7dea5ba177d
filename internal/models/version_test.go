package models

import "testing"

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("6.8.2")
	if err != nil {
		t.Fatalf("ParseVersion failed: %v", err)
	}
	if v.Major != 6 || v.Minor != 8 || v.Patch != 2 {
		t.Errorf("Unexpected version: %+v", v)
	}
	if v.String() != "6.8.2" {
		t.Errorf("String() = %s", v.String())
	}
	if v.NoDot() != "682" {
		t.Errorf("NoDot() = %s", v.NoDot())
	}

	if v2, _ := ParseVersion("5.15.2"); v2.NoDot() != "5152" {
		t.Errorf("NoDot() = %s, want 5152", v2.NoDot())
	}

	for _, bad := range []string{"", "6", "6.8", "6.8.2.1", "a.b.c", "6.-1.2"} {
		if _, err := ParseVersion(bad); !IsType(err, ErrInvalidArgument) {
			t.Errorf("ParseVersion(%q): expected InvalidArgument, got %v", bad, err)
		}
	}
}

func TestVersionCompare(t *testing.T) {
	v682 := Version{Major: 6, Minor: 8, Patch: 2}
	if !v682.AtLeast(6, 8) || !v682.AtLeast(6, 7) || v682.AtLeast(6, 9) {
		t.Errorf("AtLeast comparisons wrong for %s", v682)
	}
	if v682.Compare(Version{Major: 6, Minor: 8, Patch: 2}) != 0 {
		t.Error("Equal versions must compare 0")
	}
	if v682.Compare(Version{Major: 7}) != -1 {
		t.Error("6.8.2 < 7.0.0")
	}
}
