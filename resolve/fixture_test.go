package resolve

import (
	"context"
	"fmt"
)

// fakeVersionDep describes one dependency constraint declared by a version,
// revision or working copy of a fake package: the dependency's name and its
// Requirement.
type fakeVersionDep struct {
	name string
	req  Requirement
}

// fakePackage is one entry in a fakeUniverse: a name, its published
// versions (latest-first is not required here; versionQueue sorts), and
// each version's declared dependencies.
type fakePackage struct {
	name       string
	versions   []string
	deps       map[string][]fakeVersionDep // version -> deps
	revisions  map[string][]fakeVersionDep // revision -> deps
	unversion  []fakeVersionDep
	hasUnver   bool
	incompatV  map[string]bool // tools-incompatible versions, silently skipped
	noRevision map[string]bool
}

// fakeUniverse is an in-memory ContainerProvider + Container fixture,
// modeled on golang-dep's depspecSM/depspecBridge fake source manager: a
// fixed table of packages and their declared dependencies, fetched
// synchronously with no I/O.
type fakeUniverse struct {
	pkgs map[string]*fakePackage
}

func newFakeUniverse(pkgs ...*fakePackage) *fakeUniverse {
	u := &fakeUniverse{pkgs: make(map[string]*fakePackage)}
	for _, p := range pkgs {
		u.pkgs[p.name] = p
	}
	return u
}

func (u *fakeUniverse) Fetch(ctx context.Context, id PackageId) (Container, error) {
	p, ok := u.pkgs[id.Name]
	if !ok {
		return nil, fmt.Errorf("no such package in fixture: %s", id.Name)
	}
	return &fakeContainer{id: id, pkg: p}, nil
}

type fakeContainer struct {
	id  PackageId
	pkg *fakePackage
}

func (c *fakeContainer) Id() PackageId { return c.id }

func (c *fakeContainer) Versions(ctx context.Context) ([]Version, error) {
	out := make([]Version, 0, len(c.pkg.versions))
	for _, s := range c.pkg.versions {
		out = append(out, MustVersion(s))
	}
	return out, nil
}

func (c *fakeContainer) DependenciesAt(v Version) ([]Constraint, error) {
	return toConstraints(c.pkg.deps[v.String()]), nil
}

func (c *fakeContainer) DependenciesAtRevision(r Revision) ([]Constraint, error) {
	return toConstraints(c.pkg.revisions[string(r)]), nil
}

func (c *fakeContainer) UnversionedDependencies() ([]Constraint, error) {
	return toConstraints(c.pkg.unversion), nil
}

func (c *fakeContainer) IsToolsVersionCompatible(v Version) bool {
	return !c.pkg.incompatV[v.String()]
}

func (c *fakeContainer) UpdatedIdentifier(b BoundVersion) PackageId {
	return c.id
}

func (c *fakeContainer) SupportsRevision(r Revision) bool {
	if c.pkg.noRevision[string(r)] {
		return false
	}
	_, ok := c.pkg.revisions[string(r)]
	return ok
}

func toConstraints(deps []fakeVersionDep) []Constraint {
	out := make([]Constraint, 0, len(deps))
	for _, d := range deps {
		out = append(out, Constraint{Id: PackageId{Name: d.name}, Requirement: d.req})
	}
	return out
}

// dep is a terse constructor for a top-level dependency or pin constraint
// naming a package and a version range, e.g. dep("A", "1.0.0", "2.0.0").
func dep(name, lowerIncl, upperExcl string) Constraint {
	var lo, hi *Version
	if lowerIncl != "" {
		v := MustVersion(lowerIncl)
		lo = &v
	}
	if upperExcl != "" {
		v := MustVersion(upperExcl)
		hi = &v
	}
	return Constraint{Id: PackageId{Name: name}, Requirement: VersionSetRequirement{Set: RangeVersionSet(lo, hi)}}
}

// exactDep pins name to exactly one version.
func exactDep(name, version string) Constraint {
	return Constraint{Id: PackageId{Name: name}, Requirement: VersionSetRequirement{Set: ExactVersionSet(MustVersion(version))}}
}

func findBinding(bs []Binding, name string) (Binding, bool) {
	for _, b := range bs {
		if b.Id.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}
