package resolve

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is a semver-ordered value: major, minor, patch, optional
// prerelease identifiers, optional build metadata. It wraps
// Masterminds/semver, the same library gps uses for its own Constraint
// machinery, so that prerelease precedence (prereleases sort below their
// release) falls directly out of the underlying library rather than being
// reimplemented.
type Version struct {
	sv *semver.Version
}

// NewVersion parses a semver string into a Version.
func NewVersion(s string) (Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return Version{sv: sv}, nil
}

// MustVersion is NewVersion, panicking on error. Intended for constructing
// fixtures and literals, not for parsing untrusted input.
func MustVersion(s string) Version {
	v, err := NewVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	if v.sv == nil {
		return "<nil>"
	}
	return v.sv.String()
}

// IsZero reports whether v is the zero Version (unset).
func (v Version) IsZero() bool {
	return v.sv == nil
}

// Compare orders v against o. A negative result means v sorts before o; a
// positive result means v sorts after o overall, prereleases sort below
// their corresponding release.
func (v Version) Compare(o Version) int {
	return v.sv.Compare(o.sv)
}

func (v Version) LessThan(o Version) bool {
	return v.Compare(o) < 0
}

func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// Revision is an opaque revision identifier: a commit hash, a branch name,
// or any other string a Container uses to name a non-semver state.
type Revision string

func (r Revision) String() string { return string(r) }
