package pinstore

import (
	"bytes"
	"testing"

	"github.com/depresolve/gpscore/resolve"
)

func TestReadWriteRoundTrip(t *testing.T) {
	s := &Store{
		Pins: []Pin{
			{Name: "github.com/foo/bar", Version: "1.2.3"},
			{Name: "github.com/foo/baz", Branch: "main"},
			{Name: "github.com/foo/qux", Unversioned: true},
		},
	}

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if len(got.Pins) != 3 {
		t.Fatalf("expected 3 pins, got %d", len(got.Pins))
	}

	byName := map[string]Pin{}
	for _, p := range got.Pins {
		byName[p.Name] = p
	}
	if byName["github.com/foo/bar"].Version != "1.2.3" {
		t.Fatalf("version pin lost on round trip: %+v", byName["github.com/foo/bar"])
	}
	if byName["github.com/foo/baz"].Branch != "main" {
		t.Fatalf("branch pin lost on round trip: %+v", byName["github.com/foo/baz"])
	}
	if !byName["github.com/foo/qux"].Unversioned {
		t.Fatalf("unversioned pin lost on round trip: %+v", byName["github.com/foo/qux"])
	}
}

func TestReadRejectsAmbiguousPin(t *testing.T) {
	raw := []byte(`
[[pin]]
name = "github.com/foo/bar"
version = "1.2.3"
branch = "main"
`)
	if _, err := Read(bytes.NewReader(raw)); err == nil {
		t.Fatalf("expected an error for a pin naming both a version and a branch")
	}
}

func TestConstraintsConversion(t *testing.T) {
	s := &Store{Pins: []Pin{{Name: "github.com/foo/bar", Source: "git://example.com/bar", Version: "2.0.0"}}}
	cs, err := s.Constraints()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cs) != 1 {
		t.Fatalf("expected one constraint, got %d", len(cs))
	}
	vr, ok := cs[0].Requirement.(resolve.VersionSetRequirement)
	if !ok {
		t.Fatalf("expected a VersionSetRequirement, got %T", cs[0].Requirement)
	}
	if !vr.Set.Contains(resolve.MustVersion("2.0.0")) {
		t.Fatalf("expected the exact version set to contain 2.0.0")
	}
	if cs[0].Id.Source != "git://example.com/bar" {
		t.Fatalf("source location lost in conversion")
	}
}

func TestFromBindingsRoundTrip(t *testing.T) {
	bindings := []resolve.Binding{
		{Id: resolve.PackageId{Name: "github.com/foo/bar"}, Bound: resolve.VersionBinding{Version: resolve.MustVersion("1.0.0")}},
		{Id: resolve.PackageId{Name: "github.com/foo/baz"}, Bound: resolve.RevisionBinding{Revision: "abc123"}},
		{Id: resolve.PackageId{Name: "github.com/foo/excluded"}, Bound: resolve.ExcludedBinding{}},
	}
	s := FromBindings(bindings)
	if len(s.Pins) != 2 {
		t.Fatalf("expected excluded bindings to be dropped, got %d pins", len(s.Pins))
	}
}
