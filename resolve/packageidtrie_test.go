package resolve

import "testing"

func TestPackageIdTriePrefixSearch(t *testing.T) {
	tr := newPackageIdTrie()
	tr.Insert(PackageId{Name: "github.com/foo/bar"})
	tr.Insert(PackageId{Name: "github.com/foo/baz"})
	tr.Insert(PackageId{Name: "github.com/quux/zip"})

	if tr.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", tr.Len())
	}

	got := tr.PrefixSearch("github.com/foo/")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches under github.com/foo/, got %d: %v", len(got), got)
	}

	all := tr.All()
	if len(all) != 3 {
		t.Fatalf("expected All to return every entry, got %d", len(all))
	}
}

func TestUnsatisfiableErrorAffectedPackages(t *testing.T) {
	err := &UnsatisfiableError{
		Dependencies: []Constraint{{Id: PackageId{Name: "A"}}},
		Pins:         []Constraint{{Id: PackageId{Name: "B"}}, {Id: PackageId{Name: "A"}}},
	}
	affected := err.AffectedPackages()
	if len(affected) != 2 {
		t.Fatalf("expected 2 distinct packages, got %d: %v", len(affected), affected)
	}
}
