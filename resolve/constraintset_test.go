package resolve

import "testing"

func TestConstraintSetMergeIdentityAndIdempotence(t *testing.T) {
	cs, ok := NewConstraintSet().WithConstraint(PackageId{Name: "A"}, VersionSetRequirement{Set: RangeVersionSet(verPtr("1.0.0"), verPtr("2.0.0"))})
	if !ok {
		t.Fatalf("unexpected merge failure")
	}

	// merge(a, top) = a, where top is the empty (unconstrained) set.
	merged, ok := cs.Merge(NewConstraintSet())
	if !ok || !requirementsEqual(merged.Get(PackageId{Name: "A"}), cs.Get(PackageId{Name: "A"})) {
		t.Fatalf("merge with empty set should be identity")
	}

	// merge(a, a) = a.
	self, ok := cs.Merge(cs)
	if !ok || !requirementsEqual(self.Get(PackageId{Name: "A"}), cs.Get(PackageId{Name: "A"})) {
		t.Fatalf("merge with self should be idempotent")
	}
}

func TestConstraintSetMergeCommutative(t *testing.T) {
	a, _ := NewConstraintSet().WithConstraint(PackageId{Name: "A"}, VersionSetRequirement{Set: RangeVersionSet(verPtr("1.0.0"), verPtr("3.0.0"))})
	b, _ := NewConstraintSet().WithConstraint(PackageId{Name: "A"}, VersionSetRequirement{Set: RangeVersionSet(verPtr("2.0.0"), verPtr("4.0.0"))})

	ab, okAB := a.Merge(b)
	ba, okBA := b.Merge(a)
	if okAB != okBA {
		t.Fatalf("merge success should be symmetric")
	}
	if !requirementsEqual(ab.Get(PackageId{Name: "A"}), ba.Get(PackageId{Name: "A"})) {
		t.Fatalf("merge(a, b) should equal merge(b, a): %v vs %v", ab.Get(PackageId{Name: "A"}), ba.Get(PackageId{Name: "A"}))
	}
}

func TestConstraintSetUnversionedDominates(t *testing.T) {
	versioned, _ := NewConstraintSet().WithConstraint(PackageId{Name: "A"}, VersionSetRequirement{Set: RangeVersionSet(verPtr("1.0.0"), verPtr("2.0.0"))})
	merged, ok := versioned.WithConstraint(PackageId{Name: "A"}, UnversionedRequirement{})
	if !ok {
		t.Fatalf("unversioned should always merge in")
	}
	if _, isUnversioned := merged.Get(PackageId{Name: "A"}).(UnversionedRequirement); !isUnversioned {
		t.Fatalf("unversioned should dominate any prior requirement, got %v", merged.Get(PackageId{Name: "A"}))
	}
}

func TestConstraintSetRevisionMerge(t *testing.T) {
	rev, _ := NewConstraintSet().WithConstraint(PackageId{Name: "A"}, RevisionRequirement{Revision: "abc"})

	// Merging the same revision is a no-op.
	same, ok := rev.WithConstraint(PackageId{Name: "A"}, RevisionRequirement{Revision: "abc"})
	if !ok || same.Get(PackageId{Name: "A"}).(RevisionRequirement).Revision != "abc" {
		t.Fatalf("merging identical revisions should be a no-op success")
	}

	// Merging a different revision fails.
	if _, ok := rev.WithConstraint(PackageId{Name: "A"}, RevisionRequirement{Revision: "def"}); ok {
		t.Fatalf("merging differing revisions should fail")
	}

	// Merging a version set into an already-revisioned package fails.
	if _, ok := rev.WithConstraint(PackageId{Name: "A"}, VersionSetRequirement{Set: AnyVersionSet()}); ok {
		t.Fatalf("merging a version set into a revisioned package should fail")
	}
}

func requirementsEqual(a, b Requirement) bool {
	av, aok := a.(VersionSetRequirement)
	bv, bok := b.(VersionSetRequirement)
	if aok && bok {
		return setsEqual(av.Set, bv.Set)
	}
	return a.String() == b.String()
}
