package resolve

import "testing"

func TestPackageIdEquivalence(t *testing.T) {
	plain := PackageId{Name: "foo"}
	explicit := PackageId{Name: "foo", Source: "github.com/bar/foo"}

	if !explicit.equiv(plain) {
		t.Fatalf("an explicit source should subsume a plain reference")
	}
	if plain.equiv(explicit) {
		t.Fatalf("a plain reference should not subsume an explicit source")
	}
	if !plain.eq(plain) {
		t.Fatalf("identical ids should be eq")
	}
	if explicit.eq(plain) {
		t.Fatalf("differing sources should not be eq")
	}
}

func TestPackageIdKeyRoundTrip(t *testing.T) {
	id := PackageId{Name: "foo", Source: "github.com/bar/foo"}
	back := keyToPackageId([]byte(id.key()))
	if back != id {
		t.Fatalf("key round-trip mismatch: got %+v, want %+v", back, id)
	}

	plain := PackageId{Name: "foo"}
	backPlain := keyToPackageId([]byte(plain.key()))
	if backPlain != plain {
		t.Fatalf("key round-trip mismatch for plain id: got %+v, want %+v", backPlain, plain)
	}
}
