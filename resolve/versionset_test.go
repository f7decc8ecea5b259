package resolve

import "testing"

func TestVersionSetIntersectionProperties(t *testing.T) {
	a := RangeVersionSet(verPtr("1.0.0"), verPtr("2.0.0"))
	b := RangeVersionSet(verPtr("1.5.0"), verPtr("3.0.0"))
	c := RangeVersionSet(verPtr("1.8.0"), verPtr("2.5.0"))

	// commutative
	if !setsEqual(a.Intersection(b), b.Intersection(a)) {
		t.Fatalf("intersection not commutative")
	}

	// associative
	lhs := a.Intersection(b).Intersection(c)
	rhs := a.Intersection(b.Intersection(c))
	if !setsEqual(lhs, rhs) {
		t.Fatalf("intersection not associative: %v vs %v", lhs, rhs)
	}

	// idempotent
	if !setsEqual(a.Intersection(a), a) {
		t.Fatalf("intersection not idempotent")
	}

	// empty is the zero
	if !EmptyVersionSet().Intersection(a).IsEmpty() {
		t.Fatalf("intersection with empty should be empty")
	}

	// any is the identity
	if !setsEqual(AnyVersionSet().Intersection(a), a) {
		t.Fatalf("intersection(any, S) should equal S")
	}
}

func TestVersionSetContainsBoundaries(t *testing.T) {
	s := RangeVersionSet(verPtr("1.0.0"), verPtr("2.0.0"))
	if !s.Contains(MustVersion("1.0.0")) {
		t.Fatalf("lower bound should be inclusive")
	}
	if s.Contains(MustVersion("2.0.0")) {
		t.Fatalf("upper bound should be exclusive")
	}
	if !s.Contains(MustVersion("1.9.9")) {
		t.Fatalf("expected 1.9.9 to be contained")
	}
}

func TestVersionSetUnionAndDifference(t *testing.T) {
	a := RangeVersionSet(verPtr("1.0.0"), verPtr("2.0.0"))
	b := RangeVersionSet(verPtr("3.0.0"), verPtr("4.0.0"))
	u := a.Union(b)
	if !u.Contains(MustVersion("1.5.0")) || !u.Contains(MustVersion("3.5.0")) {
		t.Fatalf("union should contain both ranges")
	}
	if u.Contains(MustVersion("2.5.0")) {
		t.Fatalf("union should not contain the gap")
	}

	full := RangeVersionSet(verPtr("1.0.0"), verPtr("4.0.0"))
	diff := full.Difference(a)
	if diff.Contains(MustVersion("1.5.0")) {
		t.Fatalf("difference should remove a's range")
	}
	if !diff.Contains(MustVersion("2.5.0")) {
		t.Fatalf("difference should keep everything outside a")
	}
}

func TestVersionSetExactIsSinglePoint(t *testing.T) {
	v := MustVersion("1.2.3")
	s := ExactVersionSet(v)
	if !s.Contains(v) {
		t.Fatalf("exact set should contain its version")
	}
	if s.Contains(MustVersion("1.2.4")) {
		t.Fatalf("exact set should contain nothing else")
	}
}

func setsEqual(a, b VersionSetSpecifier) bool {
	probes := []string{"0.9.0", "1.0.0", "1.5.0", "1.8.0", "1.9.9", "2.0.0", "2.5.0", "3.0.0"}
	for _, p := range probes {
		v := MustVersion(p)
		if a.Contains(v) != b.Contains(v) {
			return false
		}
	}
	return true
}
