package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Qt release version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a dotted "major.minor.patch" version string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, &QtError{
			Type: ErrInvalidArgument,
			Err:  fmt.Errorf("version %q is not of the form major.minor.patch", s),
		}
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, &QtError{
				Type: ErrInvalidArgument,
				Err:  fmt.Errorf("version %q has non-numeric segment %q", s, p),
			}
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the dotted form, e.g. "6.8.2".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// NoDot returns the concatenated form used in repository folder names,
// e.g. "682" for 6.8.2 and "5152" for 5.15.2.
func (v Version) NoDot() string {
	return fmt.Sprintf("%d%d%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 comparing v against o.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		return sign(v.Major - o.Major)
	}
	if v.Minor != o.Minor {
		return sign(v.Minor - o.Minor)
	}
	return sign(v.Patch - o.Patch)
}

// AtLeast reports whether v >= major.minor.0.
func (v Version) AtLeast(major, minor int) bool {
	return v.Compare(Version{Major: major, Minor: minor}) >= 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
