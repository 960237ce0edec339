package domain

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// BumpKind selects which component of a semantic version is incremented.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// ParseBumpKind parses a CLI argument into a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(strings.ToLower(strings.TrimSpace(s))) {
	case BumpMajor:
		return BumpMajor, nil
	case BumpMinor:
		return BumpMinor, nil
	case BumpPatch:
		return BumpPatch, nil
	}
	return "", fmt.Errorf("invalid bump kind %q (expected major, minor or patch)", s)
}

// Version wraps semver.Version for additional methods.
type Version struct {
	*semver.Version
}

// NewVersion creates a new Version from a string. A leading "v" is accepted.
func NewVersion(s string) (*Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, err
	}
	return &Version{v}, nil
}

// Bump returns a new Version with the selected component incremented and all
// lower-significance components reset to zero. The receiver is not modified.
func (v *Version) Bump(kind BumpKind) *Version {
	switch kind {
	case BumpMajor:
		return v.BumpMajor()
	case BumpMinor:
		return v.BumpMinor()
	default:
		return v.BumpPatch()
	}
}

// BumpMajor increments the major version.
func (v *Version) BumpMajor() *Version {
	newVer := v.IncMajor()
	return &Version{&newVer}
}

// BumpMinor increments the minor version.
func (v *Version) BumpMinor() *Version {
	newVer := v.IncMinor()
	return &Version{&newVer}
}

// BumpPatch increments the patch version.
func (v *Version) BumpPatch() *Version {
	newVer := v.IncPatch()
	return &Version{&newVer}
}

// Compare compares two versions.
func (v *Version) Compare(other *Version) int {
	return v.Version.Compare(other.Version)
}

// Equal reports whether both versions compare equal.
func (v *Version) Equal(other *Version) bool {
	return v.Compare(other) == 0
}

// String returns the canonical "major.minor.patch" form.
func (v *Version) String() string {
	return v.Version.String()
}

// TagName returns the git tag form: "v" + canonical string.
func (v *Version) TagName() string {
	return "v" + v.Version.String()
}
