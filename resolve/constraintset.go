package resolve

import (
	iradix "github.com/hashicorp/go-immutable-radix"
)

// ConstraintSet is a persistent mapping PackageId -> Requirement. It is
// shared immutably between lazy iterator states (SubtreeSolver, Merger) and
// discarded when a search branch is abandoned, never mutated in place.
//
// The backing store is hashicorp/go-immutable-radix's Tree: an immutable
// radix tree that gives cheap copy-on-write sharing between branches of the
// search, in place of gps's own historical approach of cloning a small Go
// map per merge.
//
// The zero value is a valid, empty ConstraintSet (every key maps to
// AnyRequirement()).
type ConstraintSet struct {
	tree *iradix.Tree
}

// NewConstraintSet returns an empty ConstraintSet.
func NewConstraintSet() ConstraintSet {
	return ConstraintSet{tree: iradix.New()}
}

func (c ConstraintSet) ensureTree() *iradix.Tree {
	if c.tree == nil {
		return iradix.New()
	}
	return c.tree
}

// Get returns the Requirement for id, or AnyRequirement() if id is unknown.
func (c ConstraintSet) Get(id PackageId) Requirement {
	v, ok := c.ensureTree().Get([]byte(id.key()))
	if !ok {
		return AnyRequirement()
	}
	return v.(Requirement)
}

// Len reports how many packages carry an explicit (non-default) requirement.
func (c ConstraintSet) Len() int {
	return c.ensureTree().Len()
}

// WithConstraint implements the pointwise merge step the solver runs on
// every dependency edge: the current requirement for id is combined with
// next via mergeRequirement. ok is false if the merge is contradictory, in
// which case the original ConstraintSet is returned unchanged and the caller
// must backtrack.
func (c ConstraintSet) WithConstraint(id PackageId, next Requirement) (ConstraintSet, bool) {
	cur := c.Get(id)
	merged, ok := mergeRequirement(cur, next)
	if !ok {
		return c, false
	}
	tree, _, _ := c.ensureTree().Insert([]byte(id.key()), merged)
	return ConstraintSet{tree: tree}, true
}

// Merge applies WithConstraint for every entry of other onto c, in other's
// iteration order (ascending by key). If any entry contradicts c's
// requirement for that package, the whole merge fails and c is returned
// unchanged; neither side is preferred over the other.
func (c ConstraintSet) Merge(other ConstraintSet) (ConstraintSet, bool) {
	out := c
	ok := true
	other.ensureTree().Root().Walk(func(k []byte, v interface{}) bool {
		var merged ConstraintSet
		merged, ok = out.WithConstraint(keyToPackageId(k), v.(Requirement))
		if !ok {
			return true // stop walking
		}
		out = merged
		return false
	})
	if !ok {
		return c, false
	}
	return out, true
}

// MergeAll merges a sequence of (PackageId, Requirement) constraints
// pointwise, in the order given, stopping at the first failure. This is the
// shape the Merger needs: merging every dependency's requirement into the
// active set before any descent.
func (c ConstraintSet) MergeAll(constraints []Constraint) (ConstraintSet, bool) {
	out := c
	for _, cst := range constraints {
		var ok bool
		out, ok = out.WithConstraint(cst.Id, cst.Requirement)
		if !ok {
			return c, false
		}
	}
	return out, true
}

// Constraint is a (PackageId, Requirement) pair.
type Constraint struct {
	Id          PackageId
	Requirement Requirement
}

// keyToPackageId reverses PackageId.key() well enough for the Merge walk
// above, which only needs it to produce a stable, distinct identity to feed
// straight back into WithConstraint (which re-derives behavior from the
// Requirement value, not from the key's shape).
func keyToPackageId(k []byte) PackageId {
	s := string(k)
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return PackageId{Name: s[:i], Source: s[i+1:]}
		}
	}
	return PackageId{Name: s}
}
