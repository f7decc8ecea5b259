package resolve

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// CycleError reports that a container's own dependency list names itself
// directly. Transitive cycles are never reported this way; they resolve
// naturally into merge failure and backtracking during the ordinary search.
type CycleError struct {
	Id PackageId
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s depends on itself", e.Id)
}

// IncompatibleConstraintsError reports a versioned package declaring a
// dependency on a revisioned or unversioned package - not permitted, since a
// released version can't sensibly pin a dependency to a working copy.
type IncompatibleConstraintsError struct {
	Dependency PackageId
	Culprits   []Constraint
}

func (e *IncompatibleConstraintsError) Error() string {
	names := make([]string, 0, len(e.Culprits))
	for _, c := range e.Culprits {
		names = append(names, fmt.Sprintf("%s requires %s", c.Id, c.Requirement))
	}
	return fmt.Sprintf("%s has incompatible constraints: %s", e.Dependency, strings.Join(names, "; "))
}

// RevisionDependencyContainsLocalPackageError reports a revision-bound
// package whose dependency list requires an unversioned package.
type RevisionDependencyContainsLocalPackageError struct {
	Dependent PackageId
	Local     PackageId
}

func (e *RevisionDependencyContainsLocalPackageError) Error() string {
	return fmt.Sprintf("%s, locked to a revision, requires unversioned package %s", e.Dependent, e.Local)
}

// MissingVersionsError reports that the filtered, tools-version-compatible
// version set for one or more constraints came up empty against the
// container's published versions.
type MissingVersionsError struct {
	Constraints []Constraint
}

func (e *MissingVersionsError) Error() string {
	names := make([]string, 0, len(e.Constraints))
	for _, c := range e.Constraints {
		names = append(names, fmt.Sprintf("%s %s", c.Id, c.Requirement))
	}
	return fmt.Sprintf("no versions available matching: %s", strings.Join(names, ", "))
}

// CancelledError reports that Resolver.Cancel was observed by the search.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "resolution cancelled" }

// ProviderError wraps a failure surfaced by a Container or ContainerProvider
// operation, keeping the underlying error in the chain so %+v and
// errors.Cause (pkg/errors) reach the root cause.
type ProviderError struct {
	Id         PackageId
	Underlying error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error for %s: %v", e.Id, e.Underlying)
}

func (e *ProviderError) Unwrap() error { return e.Underlying }

// wrapProviderError tags err as having originated from id's container,
// preserving its stack trace if pkg/errors already attached one.
func wrapProviderError(id PackageId, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Id: id, Underlying: errors.WithStack(err)}
}

// UnsatisfiableError reports that no assignment exists. Dependencies and
// Pins are filled in by the Debugger's minimization pass; before debugging
// runs (or if it times out) they carry the untrimmed input.
type UnsatisfiableError struct {
	Dependencies []Constraint
	Pins         []Constraint
	Debugged     bool
}

func (e *UnsatisfiableError) Error() string {
	if e.Debugged {
		return fmt.Sprintf("unsatisfiable: minimal conflicting subset has %d dependencies and %d pins", len(e.Dependencies), len(e.Pins))
	}
	return fmt.Sprintf("unsatisfiable: %d dependencies and %d pins could not be resolved", len(e.Dependencies), len(e.Pins))
}

// AffectedPackages returns the distinct PackageIds named by the minimized
// subset, deduplicated and ordered via a packageIdTrie - the same
// typed-radix grouping ContainerCache uses for its diagnostic snapshot -
// rather than a plain map, so a caller can also PrefixSearch the result.
func (e *UnsatisfiableError) AffectedPackages() []PackageId {
	t := newPackageIdTrie()
	for _, c := range e.Dependencies {
		t.Insert(c.Id)
	}
	for _, c := range e.Pins {
		t.Insert(c.Id)
	}
	return t.All()
}

// errorLatch is the single atomic failure channel lazy iterator pipelines
// write to instead of returning an error directly, mirroring gps's use of a
// single sticky failure signal shared across a solve. Every SubtreeSolver/
// Merger step checks it before doing further work; once set it stays set for
// the lifetime of one resolve() call.
type errorLatch struct {
	mu  sync.Mutex
	err error
}

// set records err in the latch if it is not already set; the first error
// wins, since once any lazy iterator observes the latch set it stops
// producing - the first failure reason is the one that explains why the
// search stopped.
func (l *errorLatch) set(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err == nil {
		l.err = err
	}
}

// get returns the latched error, or nil if none has been set yet.
func (l *errorLatch) get() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// isSet reports whether any error (including cancellation) has latched.
func (l *errorLatch) isSet() bool {
	return l.get() != nil
}

// cancel latches a CancelledError, unless some other error already won.
func (l *errorLatch) cancel() {
	l.set(&CancelledError{})
}
