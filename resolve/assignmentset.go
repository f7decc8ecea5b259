package resolve

import (
	iradix "github.com/hashicorp/go-immutable-radix"
)

// assignmentEntry is the (Container, BoundVersion) pair recorded for one
// package in an AssignmentSet.
type assignmentEntry struct {
	id        PackageId
	container Container
	binding   BoundVersion
}

// AssignmentSet is a persistent, insertion-ordered mapping PackageId ->
// (Container, BoundVersion). Order is preserved across Add so that the
// Resolver facade's output is deterministic and reproduces the order in
// which the depth-first search fixed each package.
//
// Lookup is backed by the same immutable radix tree as ConstraintSet;
// insertion order is tracked with a separate append-only, copy-on-write
// slice - a simpler correct alternative to a fully persistent ordered
// structure, since the order slice stays small in practice.
type AssignmentSet struct {
	tree  *iradix.Tree
	order []PackageId
}

// NewAssignmentSet returns an empty AssignmentSet.
func NewAssignmentSet() AssignmentSet {
	return AssignmentSet{tree: iradix.New()}
}

func (a AssignmentSet) ensureTree() *iradix.Tree {
	if a.tree == nil {
		return iradix.New()
	}
	return a.tree
}

// Lookup returns the (Container, BoundVersion) bound to id, if any.
func (a AssignmentSet) Lookup(id PackageId) (Container, BoundVersion, bool) {
	v, ok := a.ensureTree().Get([]byte(id.key()))
	if !ok {
		return nil, nil, false
	}
	e := v.(assignmentEntry)
	return e.container, e.binding, true
}

// Len reports the number of bound packages.
func (a AssignmentSet) Len() int {
	return a.ensureTree().Len()
}

// Ids returns the bound PackageIds in insertion order.
func (a AssignmentSet) Ids() []PackageId {
	out := make([]PackageId, len(a.order))
	copy(out, a.order)
	return out
}

// Add returns a new AssignmentSet with id bound to (container, binding). If
// id is already present the existing position in insertion order is kept
// and only the binding is replaced; otherwise id is appended.
func (a AssignmentSet) Add(id PackageId, container Container, binding BoundVersion) AssignmentSet {
	tree, _, existed := a.ensureTree().Insert([]byte(id.key()), assignmentEntry{id: id, container: container, binding: binding})
	out := AssignmentSet{tree: tree}
	if existed {
		out.order = a.order
		return out
	}
	out.order = append(append([]PackageId{}, a.order...), id)
	return out
}

// Merge combines a and other, succeeding only if every package present in
// both agrees on its binding. On success the result preserves a's insertion
// order followed by any ids from other not already present in a.
func (a AssignmentSet) Merge(other AssignmentSet) (AssignmentSet, bool) {
	out := a
	for _, id := range other.order {
		_, binding, _ := other.Lookup(id)
		container, _, _ := other.Lookup(id)
		if existingContainer, existingBinding, ok := out.Lookup(id); ok {
			if !bindingsAgree(existingBinding, binding) {
				return a, false
			}
			_ = existingContainer
			continue
		}
		out = out.Add(id, container, binding)
	}
	return out, true
}

func bindingsAgree(a, b BoundVersion) bool {
	switch av := a.(type) {
	case VersionBinding:
		bv, ok := b.(VersionBinding)
		return ok && av.Version.Equal(bv.Version)
	case RevisionBinding:
		bv, ok := b.(RevisionBinding)
		return ok && av.Revision == bv.Revision
	case UnversionedBinding:
		_, ok := b.(UnversionedBinding)
		return ok
	case ExcludedBinding:
		_, ok := b.(ExcludedBinding)
		return ok
	}
	return false
}

// InducedConstraints computes the ConstraintSet induced by every entry in a:
// Excluded and Unversioned contribute nothing; Version(v) and Revision(r)
// entries contribute their container's declared dependencies at that
// version/revision. An error here (a container fetch failing, or an in-set
// assignment producing a contradictory induced set) indicates a bug in this
// package's own invariants rather than bad input, and is surfaced rather
// than panicked so the Resolver facade can route it through the ordinary
// error latch.
func (a AssignmentSet) InducedConstraints() (ConstraintSet, error) {
	out := NewConstraintSet()
	for _, id := range a.order {
		container, binding, _ := a.Lookup(id)
		var deps []Constraint
		var err error
		switch b := binding.(type) {
		case VersionBinding:
			deps, err = container.DependenciesAt(b.Version)
		case RevisionBinding:
			deps, err = container.DependenciesAtRevision(b.Revision)
		default:
			continue
		}
		if err != nil {
			return out, err
		}

		merged, ok := out.MergeAll(deps)
		if !ok {
			return out, &internalInvariantError{
				reason: "assignment entry " + id.String() + " induces a contradictory constraint set",
			}
		}
		out = merged
	}
	return out, nil
}

// isValidBinding reports whether binding is valid for id under the given active
// ConstraintSet.
func isValidBinding(active ConstraintSet, id PackageId, binding BoundVersion) bool {
	req := active.Get(id)
	switch b := binding.(type) {
	case VersionBinding:
		vr, ok := req.(VersionSetRequirement)
		return ok && vr.Set.Contains(b.Version)
	case RevisionBinding:
		switch r := req.(type) {
		case VersionSetRequirement:
			return r.Set.IsAny()
		case RevisionRequirement:
			return r.Revision == b.Revision
		}
		return false
	case UnversionedBinding:
		return true
	case ExcludedBinding:
		vr, ok := req.(VersionSetRequirement)
		return ok && vr.Set.IsAny()
	}
	return false
}

// IsComplete reports whether every package named by induced names a
// non-Excluded entry in a.
func (a AssignmentSet) IsComplete(induced ConstraintSet) bool {
	complete := true
	induced.ensureTree().Root().Walk(func(k []byte, v interface{}) bool {
		id := keyToPackageId(k)
		_, binding, ok := a.Lookup(id)
		if !ok {
			complete = false
			return true
		}
		if _, excluded := binding.(ExcludedBinding); excluded {
			complete = false
			return true
		}
		return false
	})
	return complete
}
