package resolve

import (
	"context"
	"log"
	"sync/atomic"
)

// ResultKind discriminates the three shapes Result can take.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultUnsatisfiable
	ResultError
)

// Binding pairs a resolved package with the version it was bound to.
type Binding struct {
	Id    PackageId
	Bound BoundVersion
}

// Result is the outcome of one Resolve call, selected by Kind: Bindings on
// Success, Err on Error, and on Unsatisfiable both Dependencies/Pins and an
// Err holding an *UnsatisfiableError with the same subsets.
type Result struct {
	Kind         ResultKind
	Bindings     []Binding
	Dependencies []Constraint
	Pins         []Constraint
	Err          error
}

// Resolver is the public entry point, playing the role gps's SolveManager
// plays for dep: construct with NewResolver, call Resolve for each independent
// resolution, and Cancel to abort one in progress from another goroutine.
type Resolver struct {
	provider ContainerProvider
	delegate Delegate
	prefetch bool

	cache *ContainerCache
	tracer *tracer

	latch atomic.Pointer[errorLatch]
}

// NewResolver constructs a Resolver. delegate may be nil, in which case
// container fetch lifecycle callbacks are dropped. logger may be nil to
// disable trace output entirely.
func NewResolver(provider ContainerProvider, delegate Delegate, prefetch bool, logger *log.Logger) *Resolver {
	if delegate == nil {
		delegate = NopDelegate{}
	}
	r := &Resolver{
		provider: provider,
		delegate: delegate,
		prefetch: prefetch,
		tracer:   newTracer(logger),
	}
	r.cache = NewContainerCache(context.Background(), &delegatingProvider{provider: provider, delegate: delegate})
	return r
}

// Cancel records a cancellation error observed by the next lazy iteration
// step inside an in-progress Resolve call. Safe to call from any goroutine,
// at any time, including before Resolve starts or after it returns (in which
// case it has no effect).
func (r *Resolver) Cancel() {
	if latch := r.latch.Load(); latch != nil {
		latch.cancel()
	}
}

// Containers returns a read-only snapshot of every PackageId currently
// resident in the container cache, for diagnostics.
func (r *Resolver) Containers() []PackageId {
	return r.cache.Snapshot()
}

// ContainersWithPrefix is Containers narrowed to ids whose key starts with
// prefix - useful for diagnostics scoped to one source host or vanity
// import path root.
func (r *Resolver) ContainersWithPrefix(prefix string) []PackageId {
	return r.cache.SnapshotPrefix(prefix)
}

// Resolve runs one resolution to completion: deps are the top-level input
// constraints, pins are additional seed constraints (typically from a lock
// file). Like gps's solve loop, the first complete assignment the depth-first
// search reaches is returned - each package bound to the newest version its
// surviving branch considered.
func (r *Resolver) Resolve(ctx context.Context, deps []Constraint, pins []Constraint) Result {
	latch := &errorLatch{}
	r.latch.Store(latch)
	env := &solveEnv{
		cache:      r.cache,
		latch:      latch,
		memo:       newSubtreeMemo(),
		incomplete: false,
		tracer:     r.tracer,
	}

	if r.prefetch {
		r.cache.Prefetch(idsOf(deps))
	}

	seedK, ok := NewConstraintSet().MergeAll(pins)
	if !ok {
		return r.fail(ctx, env, deps, pins)
	}

	seq := runMerger(ctx, env, deps, NewAssignmentSet(), seedK, map[string]map[string]struct{}{}, 0)
	result, ok := seq.Next()
	if ok {
		return Result{Kind: ResultSuccess, Bindings: toBindings(result)}
	}
	return r.fail(ctx, env, deps, pins)
}

// fail implements the failure triage order gps's solver follows: latched
// error first, then missing-versions diagnosis, then plain Unsatisfiable (run
// through the Debugger to minimize it).
func (r *Resolver) fail(ctx context.Context, env *solveEnv, deps, pins []Constraint) Result {
	if err := env.latch.get(); err != nil {
		return Result{Kind: ResultError, Err: err}
	}

	if missing := r.diagnoseMissingVersions(ctx, deps, pins); len(missing) > 0 {
		return Result{Kind: ResultError, Err: &MissingVersionsError{Constraints: missing}}
	}

	minDeps, minPins, debugged := runDebugger(ctx, r, deps, pins)
	return Result{
		Kind:         ResultUnsatisfiable,
		Dependencies: minDeps,
		Pins:         minPins,
		Err:          &UnsatisfiableError{Dependencies: minDeps, Pins: minPins, Debugged: debugged},
	}
}

// diagnoseMissingVersions reports every top-level constraint whose required
// container has no tools-compatible version satisfying it, among versions
// already known to the cache; this never triggers a fresh fetch. A
// constraint whose container is not cached (its fetch failed, or the search
// never reached it, as with a pin on a package no dependency names) is
// skipped.
func (r *Resolver) diagnoseMissingVersions(ctx context.Context, deps, pins []Constraint) []Constraint {
	var missing []Constraint
	for _, c := range append(append([]Constraint{}, deps...), pins...) {
		vr, ok := c.Requirement.(VersionSetRequirement)
		if !ok {
			continue
		}
		container, ok := r.cache.peek(c.Id)
		if !ok {
			continue
		}
		versions, err := container.Versions(ctx)
		if err != nil {
			continue
		}
		found := false
		for _, v := range versions {
			if vr.Set.Contains(v) && container.IsToolsVersionCompatible(v) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, c)
		}
	}
	return missing
}

func idsOf(constraints []Constraint) []PackageId {
	out := make([]PackageId, len(constraints))
	for i, c := range constraints {
		out[i] = c.Id
	}
	return out
}

// toBindings projects an AssignmentSet's entries into the public Binding
// list, applying each container's late identity binding - gps's
// getUpdatedIdentifier pattern, used for import-path rewrites that only
// become knowable once a concrete version or revision is chosen.
func toBindings(a AssignmentSet) []Binding {
	ids := a.Ids()
	out := make([]Binding, 0, len(ids))
	for _, id := range ids {
		container, binding, _ := a.Lookup(id)
		resolvedId := id
		if container != nil {
			resolvedId = container.UpdatedIdentifier(binding)
		}
		out = append(out, Binding{Id: resolvedId, Bound: binding})
	}
	return out
}

// delegatingProvider wraps a ContainerProvider so every fetch reports its
// begin/end lifecycle to a Delegate, keeping the Delegate plumbing out of
// ContainerCache itself.
type delegatingProvider struct {
	provider ContainerProvider
	delegate Delegate
}

func (d *delegatingProvider) Fetch(ctx context.Context, id PackageId) (Container, error) {
	d.delegate.ContainerFetchBegin(id)
	c, err := d.provider.Fetch(ctx, id)
	d.delegate.ContainerFetchEnd(id, err)
	return c, err
}
