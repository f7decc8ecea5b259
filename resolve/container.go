package resolve

import "context"

// Container is the resolver's view of a single package: everything the
// search needs to know to enumerate its available states and the
// constraints each state imposes on the rest of the graph. It mirrors gps's
// ProjectAnalyzer/SourceManager split (source_manager.go), collapsed into
// one per-package interface since this package has no separate
// source-discovery phase.
type Container interface {
	// Id reports the identity this container was fetched for.
	Id() PackageId

	// Versions returns every version this package has published, in an
	// implementation-defined order; the solver imposes its own ordering via
	// versionQueue, newest first, before enumerating them.
	Versions(ctx context.Context) ([]Version, error)

	// DependenciesAt returns the dependency constraints declared by the
	// package at v.
	DependenciesAt(v Version) ([]Constraint, error)

	// DependenciesAtRevision returns the dependency constraints declared by
	// the package at the given revision.
	DependenciesAtRevision(r Revision) ([]Constraint, error)

	// UnversionedDependencies returns the dependency constraints declared by
	// the package's working copy, outside any version or revision scheme.
	UnversionedDependencies() ([]Constraint, error)

	// IsToolsVersionCompatible reports whether v can be considered at all;
	// incompatible versions are silently skipped during enumeration rather
	// than surfaced as an error.
	IsToolsVersionCompatible(v Version) bool

	// UpdatedIdentifier returns the identity this container should be
	// recorded under once bound to b - late-binding of identity after
	// resolution, for sources that rewrite their own name once a concrete
	// version is known.
	UpdatedIdentifier(b BoundVersion) PackageId

	// SupportsRevision reports whether r names a real, fetchable state of
	// this package. The resolver does not call it; a RevisionRequirement is
	// resolved through DependenciesAtRevision alone.
	SupportsRevision(r Revision) bool
}

// ContainerProvider fetches Containers on demand. Implementations wrap a
// concrete package source - a VCS checkout, a registry client, an in-memory
// fixture - behind this single method, the way gps's SourceManager wraps
// disparate sourceGateways.
type ContainerProvider interface {
	// Fetch retrieves (or constructs) the Container for id. It may block on
	// network I/O; ctx governs cancellation.
	Fetch(ctx context.Context, id PackageId) (Container, error)
}

// internalInvariantError marks a condition the algorithm's own invariants
// should make impossible - a bug in this package rather than bad input or
// provider failure. It is still routed through ordinary error returns
// instead of a panic so a caller driving many independent solves can log
// and continue rather than crash the whole process.
type internalInvariantError struct {
	reason string
}

func (e *internalInvariantError) Error() string {
	return "internal invariant violated: " + e.reason
}
