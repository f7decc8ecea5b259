package resolve

import "testing"

func TestAssignmentSetMergeAgreement(t *testing.T) {
	a := NewAssignmentSet().Add(PackageId{Name: "A"}, nil, VersionBinding{Version: MustVersion("1.0.0")})
	b := NewAssignmentSet().Add(PackageId{Name: "A"}, nil, VersionBinding{Version: MustVersion("1.0.0")})

	merged, ok := a.Merge(b)
	if !ok {
		t.Fatalf("agreeing assignments should merge")
	}
	if merged.Len() != 1 {
		t.Fatalf("expected one entry, got %d", merged.Len())
	}

	c := NewAssignmentSet().Add(PackageId{Name: "A"}, nil, VersionBinding{Version: MustVersion("2.0.0")})
	if _, ok := a.Merge(c); ok {
		t.Fatalf("disagreeing assignments should fail to merge")
	}
}

func TestAssignmentSetInsertionOrderPreserved(t *testing.T) {
	a := NewAssignmentSet().
		Add(PackageId{Name: "A"}, nil, VersionBinding{Version: MustVersion("1.0.0")}).
		Add(PackageId{Name: "B"}, nil, VersionBinding{Version: MustVersion("2.0.0")}).
		Add(PackageId{Name: "C"}, nil, VersionBinding{Version: MustVersion("3.0.0")})

	ids := a.Ids()
	want := []string{"A", "B", "C"}
	for i, id := range ids {
		if id.Name != want[i] {
			t.Fatalf("order mismatch at %d: got %s, want %s", i, id.Name, want[i])
		}
	}
}

func TestIsValidBinding(t *testing.T) {
	active, _ := NewConstraintSet().WithConstraint(PackageId{Name: "A"}, VersionSetRequirement{Set: RangeVersionSet(verPtr("1.0.0"), verPtr("2.0.0"))})

	if !isValidBinding(active, PackageId{Name: "A"}, VersionBinding{Version: MustVersion("1.5.0")}) {
		t.Fatalf("1.5.0 should be valid against [1.0.0, 2.0.0)")
	}
	if isValidBinding(active, PackageId{Name: "A"}, VersionBinding{Version: MustVersion("2.0.0")}) {
		t.Fatalf("2.0.0 should be invalid: upper bound is exclusive")
	}

	// Excluded is valid only when nothing else constrains the package.
	unconstrained := NewConstraintSet()
	if !isValidBinding(unconstrained, PackageId{Name: "A"}, ExcludedBinding{}) {
		t.Fatalf("Excluded should be valid with no active constraint")
	}
	if isValidBinding(active, PackageId{Name: "A"}, ExcludedBinding{}) {
		t.Fatalf("Excluded should be invalid once something constrains the package")
	}
}

func TestAssignmentSetIsComplete(t *testing.T) {
	a := NewAssignmentSet().Add(PackageId{Name: "A"}, nil, VersionBinding{Version: MustVersion("1.0.0")})
	induced, _ := NewConstraintSet().WithConstraint(PackageId{Name: "A"}, VersionSetRequirement{Set: AnyVersionSet()})
	if !a.IsComplete(induced) {
		t.Fatalf("expected complete assignment")
	}

	induced2, _ := induced.WithConstraint(PackageId{Name: "B"}, VersionSetRequirement{Set: AnyVersionSet()})
	if a.IsComplete(induced2) {
		t.Fatalf("expected incomplete assignment: B is unmentioned")
	}
}
