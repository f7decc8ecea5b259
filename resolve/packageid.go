package resolve

import "fmt"

// PackageId is the opaque stable identity of a package: a name paired with an
// optional explicit source location. Two PackageIds with the same Name but
// different effective Sources are not eq; only the asymmetric equiv relation
// lets an explicit Source match a plain reference. ContainerCache and the
// ConstraintSet/AssignmentSet keys include the Source, so such ids are
// fetched and constrained as separate packages.
//
// Aliasing a plain struct here, rather than a bare string, mirrors gps's
// ProjectIdentifier: a package's name is not the whole of its identity once
// forks and vanity import paths enter the picture.
type PackageId struct {
	Name   string
	Source string
}

// key returns a stable, comparable representation suitable for use as a map
// key and as a radix tree key.
func (p PackageId) key() string {
	if p.Source == "" {
		return p.Name
	}
	return p.Name + "\x00" + p.Source
}

func (p PackageId) String() string {
	if p.Source == "" || p.Source == p.Name {
		return p.Name
	}
	return fmt.Sprintf("%s (from %s)", p.Name, p.Source)
}

// eq is strict equality: both Name and an effectively-equal Source.
func (p PackageId) eq(o PackageId) bool {
	if p.Name != o.Name {
		return false
	}
	return p.netName() == o.netName()
}

// equiv is the asymmetric relation gps calls "equiv": given equal Names, an
// explicit Source on the receiver subsumes an unset Source on the operand,
// letting an override with a known location match a plain reference to it.
func (p PackageId) equiv(o PackageId) bool {
	if p.Name != o.Name {
		return false
	}
	if p.netName() == o.netName() {
		return true
	}
	return p.Source != "" && o.Source == ""
}

func (p PackageId) netName() string {
	if p.Source == "" {
		return p.Name
	}
	return p.Source
}

// normalize fills in an empty Source with the Name, so that two PackageIds
// constructed differently (one with an explicit Source equal to its Name,
// one without) compare equal under plain ==.
func (p PackageId) normalize() PackageId {
	if p.Source == "" {
		p.Source = p.Name
	}
	return p
}

func (p PackageId) less(o PackageId) bool {
	if p.Name != o.Name {
		return p.Name < o.Name
	}
	return p.Source < o.Source
}
