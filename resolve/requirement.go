package resolve

import "fmt"

// Requirement is the tagged variant {VersionSet, Revision, Unversioned}: the
// three ways a dependency declaration can constrain which states of a
// package are acceptable. It mirrors gps's Constraint interface
// (constraints.go), generalized with the Revision/Unversioned cases gps
// doesn't need to distinguish at this layer.
type Requirement interface {
	fmt.Stringer
	isRequirement()
}

// VersionSetRequirement constrains a package to versions within Set.
type VersionSetRequirement struct {
	Set VersionSetSpecifier
}

func (VersionSetRequirement) isRequirement() {}
func (r VersionSetRequirement) String() string {
	return r.Set.String()
}

// RevisionRequirement pins a package to an opaque revision identifier - a
// commit hash or branch name.
type RevisionRequirement struct {
	Revision Revision
}

func (RevisionRequirement) isRequirement() {}
func (r RevisionRequirement) String() string {
	return string(r.Revision)
}

// UnversionedRequirement indicates the working copy is used directly,
// outside of any version or revision scheme.
type UnversionedRequirement struct{}

func (UnversionedRequirement) isRequirement() {}
func (UnversionedRequirement) String() string { return "(unversioned)" }

// AnyRequirement is the default, unconstrained VersionSetRequirement - the
// value an absent key in a ConstraintSet is taken to mean.
func AnyRequirement() Requirement {
	return VersionSetRequirement{Set: AnyVersionSet()}
}

// mergeRequirement implements the merge table governing how two
// requirements on the same package combine: Unversioned dominates
// everything, matching Revisions or VersionSets intersect, and anything else
// contradicts. ok is false if the merge fails (the two requirements are
// contradictory), in which case the caller must treat the branch as
// unsatisfiable and backtrack.
func mergeRequirement(cur, next Requirement) (Requirement, bool) {
	switch c := cur.(type) {
	case UnversionedRequirement:
		// Unversioned dominates everything.
		return c, true

	case RevisionRequirement:
		switch n := next.(type) {
		case UnversionedRequirement:
			return n, true
		case RevisionRequirement:
			if c.Revision == n.Revision {
				return c, true
			}
			return nil, false
		case VersionSetRequirement:
			return nil, false
		}

	case VersionSetRequirement:
		switch n := next.(type) {
		case UnversionedRequirement:
			return n, true
		case RevisionRequirement:
			if c.Set.IsAny() {
				return n, true
			}
			return nil, false
		case VersionSetRequirement:
			merged := c.Set.Intersection(n.Set)
			if merged.IsEmpty() {
				return nil, false
			}
			return VersionSetRequirement{Set: merged}, true
		}
	}

	panic(fmt.Sprintf("unreachable merge of %T and %T", cur, next))
}
