package resolve

import "fmt"

// BoundVersion is the tagged variant Excluded | Version(v) | Revision(id) |
// Unversioned: the concrete outcome assigned to a package in an
// AssignmentSet.
type BoundVersion interface {
	fmt.Stringer
	isBoundVersion()
}

// ExcludedBinding marks a package as deliberately absent from the solution.
// No search path in this package produces it (the Debugger binds disallowed
// dependencies as Unversioned); isValidBinding and IsComplete handle it, and
// pinstore.FromBindings drops it.
type ExcludedBinding struct{}

func (ExcludedBinding) isBoundVersion() {}
func (ExcludedBinding) String() string  { return "(excluded)" }

// VersionBinding binds a package to a concrete Version.
type VersionBinding struct {
	Version Version
}

func (VersionBinding) isBoundVersion() {}
func (b VersionBinding) String() string {
	return b.Version.String()
}

// RevisionBinding binds a package to a Revision.
type RevisionBinding struct {
	Revision Revision
}

func (RevisionBinding) isBoundVersion() {}
func (b RevisionBinding) String() string {
	return string(b.Revision)
}

// UnversionedBinding indicates the package's working copy is used directly.
type UnversionedBinding struct{}

func (UnversionedBinding) isBoundVersion() {}
func (UnversionedBinding) String() string  { return "(unversioned)" }
