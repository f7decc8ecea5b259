package resolve

import (
	"fmt"
	"strings"
)

// VersionSetSpecifier is one of {empty; any; exact(Version); range(lower,
// upperExclusive)}, internally represented as a normalized, sorted list of
// disjoint intervals with independently open/closed bounds. That
// generalization is what lets Union and Difference stay exact across
// disjoint ranges and around single excluded points, not just Intersection.
//
// This generalizes gps's Constraint interface (constraints.go's
// anyConstraint / noneConstraint / semverConstraint trio) and borrows the
// disjoint-interval technique used by an interval-set implementation
// elsewhere in the retrieved corpus (see DESIGN.md), rather than leaning on
// Masterminds/semver's caret/tilde constraint grammar, which doesn't map
// onto an explicit lower/upperExclusive pair model.
type VersionSetSpecifier struct {
	// intervals is nil for the empty set, and a single unbounded interval for
	// the any set. Always kept normalized: sorted, non-overlapping, with
	// touching intervals merged.
	intervals []versionInterval
}

// versionInterval is a bound interval with independently open or closed
// ends. A nil bound means unbounded on that side.
type versionInterval struct {
	lower, upper         *Version
	lowerOpen, upperOpen bool
}

// EmptyVersionSet returns the version set containing no versions.
func EmptyVersionSet() VersionSetSpecifier {
	return VersionSetSpecifier{}
}

// AnyVersionSet returns the version set containing every version.
func AnyVersionSet() VersionSetSpecifier {
	return VersionSetSpecifier{intervals: []versionInterval{{}}}
}

// ExactVersionSet returns the version set containing exactly v.
func ExactVersionSet(v Version) VersionSetSpecifier {
	return VersionSetSpecifier{intervals: []versionInterval{{lower: &v, upper: &v}}}
}

// RangeVersionSet returns the version set [lower, upperExclusive). A nil
// lower or upper bound leaves that side unbounded.
func RangeVersionSet(lower, upperExclusive *Version) VersionSetSpecifier {
	iv := versionInterval{lower: lower, upper: upperExclusive, upperOpen: upperExclusive != nil}
	if lower != nil && upperExclusive != nil && !lower.LessThan(*upperExclusive) {
		return EmptyVersionSet()
	}
	return VersionSetSpecifier{intervals: []versionInterval{iv}}
}

// IsEmpty reports whether the set contains no versions.
func (s VersionSetSpecifier) IsEmpty() bool {
	return len(s.intervals) == 0
}

// IsAny reports whether the set contains every version.
func (s VersionSetSpecifier) IsAny() bool {
	return len(s.intervals) == 1 && s.intervals[0].lower == nil && s.intervals[0].upper == nil
}

// Contains reports whether v is admitted by the set.
func (s VersionSetSpecifier) Contains(v Version) bool {
	for _, iv := range s.intervals {
		if iv.contains(v) {
			return true
		}
	}
	return false
}

func (iv versionInterval) contains(v Version) bool {
	if iv.lower != nil {
		if iv.lowerOpen && !iv.lower.LessThan(v) {
			return false
		}
		if !iv.lowerOpen && v.LessThan(*iv.lower) {
			return false
		}
	}
	if iv.upper != nil {
		if iv.upperOpen && !v.LessThan(*iv.upper) {
			return false
		}
		if !iv.upperOpen && iv.upper.LessThan(v) {
			return false
		}
	}
	return true
}

// isPoint reports whether iv admits exactly one version.
func (iv versionInterval) isPoint() bool {
	return iv.lower != nil && iv.upper != nil && !iv.lowerOpen && !iv.upperOpen && iv.lower.Equal(*iv.upper)
}

// Intersection computes the pointwise intersection of s and o.
// intersection(any, S) = S; intersection(empty, _) = empty.
func (s VersionSetSpecifier) Intersection(o VersionSetSpecifier) VersionSetSpecifier {
	if s.IsEmpty() || o.IsEmpty() {
		return EmptyVersionSet()
	}
	if s.IsAny() {
		return o
	}
	if o.IsAny() {
		return s
	}

	var out []versionInterval
	for _, a := range s.intervals {
		for _, b := range o.intervals {
			if iv, ok := intersectInterval(a, b); ok {
				out = append(out, iv)
			}
		}
	}
	return normalize(out)
}

// Union computes the set of versions in either s or o.
func (s VersionSetSpecifier) Union(o VersionSetSpecifier) VersionSetSpecifier {
	if s.IsAny() || o.IsAny() {
		return AnyVersionSet()
	}
	merged := append(append([]versionInterval{}, s.intervals...), o.intervals...)
	return normalize(merged)
}

// Difference computes the versions in s but not in o.
func (s VersionSetSpecifier) Difference(o VersionSetSpecifier) VersionSetSpecifier {
	return s.Intersection(o.complement())
}

// complement returns the set of versions not in s.
func (s VersionSetSpecifier) complement() VersionSetSpecifier {
	if s.IsEmpty() {
		return AnyVersionSet()
	}
	if s.IsAny() {
		return EmptyVersionSet()
	}

	var out []versionInterval
	// cur tracks the lower edge of the next gap; nil means "-inf, still open".
	var curLower *Version
	curOpen := false
	started := false
	for _, iv := range s.intervals {
		if iv.lower != nil {
			gapUpper, gapUpperOpen := iv.lower, !iv.lowerOpen
			if !started || curLower != nil {
				out = append(out, versionInterval{
					lower: curLower, lowerOpen: curOpen,
					upper: gapUpper, upperOpen: gapUpperOpen,
				})
			}
		}
		started = true
		curLower, curOpen = iv.upper, !iv.upperOpen
		if iv.upper == nil {
			// unbounded above: nothing follows.
			curLower = nil
		}
	}
	if curLower != nil || !started {
		out = append(out, versionInterval{lower: curLower, lowerOpen: curOpen})
	}
	return normalize(out)
}

func intersectInterval(a, b versionInterval) (versionInterval, bool) {
	lower, lowerOpen := pickLower(a.lower, a.lowerOpen, b.lower, b.lowerOpen)
	upper, upperOpen := pickUpper(a.upper, a.upperOpen, b.upper, b.upperOpen)

	if lower != nil && upper != nil {
		if lower.Equal(*upper) && (lowerOpen || upperOpen) {
			return versionInterval{}, false
		}
		if upper.LessThan(*lower) {
			return versionInterval{}, false
		}
	}
	return versionInterval{lower: lower, lowerOpen: lowerOpen, upper: upper, upperOpen: upperOpen}, true
}

// pickLower returns the more restrictive (higher) of two lower bounds.
func pickLower(av *Version, aOpen bool, bv *Version, bOpen bool) (*Version, bool) {
	if av == nil {
		return bv, bOpen
	}
	if bv == nil {
		return av, aOpen
	}
	if av.LessThan(*bv) {
		return bv, bOpen
	}
	if bv.LessThan(*av) {
		return av, aOpen
	}
	return av, aOpen || bOpen
}

// pickUpper returns the more restrictive (lower) of two upper bounds.
func pickUpper(av *Version, aOpen bool, bv *Version, bOpen bool) (*Version, bool) {
	if av == nil {
		return bv, bOpen
	}
	if bv == nil {
		return av, aOpen
	}
	if bv.LessThan(*av) {
		return bv, bOpen
	}
	if av.LessThan(*bv) {
		return av, aOpen
	}
	return av, aOpen || bOpen
}

// normalize sorts intervals by lower bound and merges overlapping or
// touching ones, dropping anything empty.
func normalize(ivs []versionInterval) VersionSetSpecifier {
	ivs = dedupeEmpty(ivs)
	if len(ivs) == 0 {
		return EmptyVersionSet()
	}

	sortIntervals(ivs)

	out := []versionInterval{ivs[0]}
	for _, cur := range ivs[1:] {
		last := &out[len(out)-1]
		if merged, ok := tryMerge(*last, cur); ok {
			*last = merged
		} else {
			out = append(out, cur)
		}
	}
	return VersionSetSpecifier{intervals: out}
}

func dedupeEmpty(ivs []versionInterval) []versionInterval {
	out := ivs[:0:0]
	for _, iv := range ivs {
		if iv.lower == nil || iv.upper == nil {
			out = append(out, iv)
			continue
		}
		if iv.lower.LessThan(*iv.upper) {
			out = append(out, iv)
		} else if iv.lower.Equal(*iv.upper) && !iv.lowerOpen && !iv.upperOpen {
			out = append(out, iv) // single point
		}
	}
	return out
}

func sortIntervals(ivs []versionInterval) {
	// insertion sort: interval counts stay tiny in practice (one per
	// dependency declaration merged together), so O(n^2) here trades no
	// real performance for avoiding a reflection-based comparator.
	for i := 1; i < len(ivs); i++ {
		for j := i; j > 0 && lowerLess(ivs[j], ivs[j-1]); j-- {
			ivs[j], ivs[j-1] = ivs[j-1], ivs[j]
		}
	}
}

func lowerLess(a, b versionInterval) bool {
	if a.lower == nil {
		return b.lower != nil
	}
	if b.lower == nil {
		return false
	}
	if a.lower.Equal(*b.lower) {
		return !a.lowerOpen && b.lowerOpen
	}
	return a.lower.LessThan(*b.lower)
}

// tryMerge merges b into a if they overlap or touch with no gap between
// them. a is assumed to sort no later than b.
func tryMerge(a, b versionInterval) (versionInterval, bool) {
	if a.upper == nil {
		return a, true
	}
	if b.lower == nil {
		return versionInterval{}, false // b would have sorted first
	}
	if a.upper.LessThan(*b.lower) {
		return versionInterval{}, false
	}
	if a.upper.Equal(*b.lower) && a.upperOpen && b.lowerOpen {
		return versionInterval{}, false // open on both sides of the same point: a true gap
	}

	upper, upperOpen := pickMergedUpper(a, b)
	return versionInterval{lower: a.lower, lowerOpen: a.lowerOpen, upper: upper, upperOpen: upperOpen}, true
}

func pickMergedUpper(a, b versionInterval) (*Version, bool) {
	if a.upper == nil || b.upper == nil {
		return nil, false
	}
	if a.upper.LessThan(*b.upper) {
		return b.upper, b.upperOpen
	}
	if b.upper.LessThan(*a.upper) {
		return a.upper, a.upperOpen
	}
	return a.upper, a.upperOpen && b.upperOpen
}

func (s VersionSetSpecifier) String() string {
	if s.IsEmpty() {
		return ""
	}
	if s.IsAny() {
		return "*"
	}
	parts := make([]string, 0, len(s.intervals))
	for _, iv := range s.intervals {
		parts = append(parts, iv.String())
	}
	return strings.Join(parts, " || ")
}

func (iv versionInterval) String() string {
	if iv.isPoint() {
		return iv.lower.String()
	}
	lb, ub := "(", ")"
	if !iv.lowerOpen {
		lb = "["
	}
	if !iv.upperOpen {
		ub = "]"
	}
	lo := "-inf"
	if iv.lower != nil {
		lo = iv.lower.String()
	}
	up := "+inf"
	if iv.upper != nil {
		up = iv.upper.String()
	}
	return fmt.Sprintf("%s%s, %s%s", lb, lo, up, ub)
}
