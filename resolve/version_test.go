package resolve

import "testing"

func TestVersionPrereleaseSortsBelowRelease(t *testing.T) {
	pre := MustVersion("1.0.0-beta.1")
	release := MustVersion("1.0.0")
	if !pre.LessThan(release) {
		t.Fatalf("prerelease should sort below its release")
	}
}

func TestVersionCompareOrdering(t *testing.T) {
	versions := []string{"1.0.0", "1.0.1", "1.1.0", "2.0.0"}
	for i := 0; i+1 < len(versions); i++ {
		a := MustVersion(versions[i])
		b := MustVersion(versions[i+1])
		if !a.LessThan(b) {
			t.Fatalf("%s should sort before %s", versions[i], versions[i+1])
		}
	}
}

func TestNewVersionRejectsGarbage(t *testing.T) {
	if _, err := NewVersion("not-a-version!!"); err == nil {
		t.Fatalf("expected an error parsing an invalid version string")
	}
}
