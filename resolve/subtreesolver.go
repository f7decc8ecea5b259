package resolve

import "context"

// solveSubtree implements SubtreeSolver: a lazy, possibly infinite, possibly
// empty sequence of valid AssignmentSets rooted at container, dispatched on
// the active requirement for container.Id() in active.
//
// exclusions maps a package's key() to the set of version strings already
// ruled out for it along the current search path. Resolve and debugTrial
// both pass an empty map, so no candidate is excluded in practice.
// Memoization only applies when container's own exclusion set is empty.
func solveSubtree(ctx context.Context, env *solveEnv, container Container, active ConstraintSet, exclusions map[string]map[string]struct{}, depth int) Sequence[AssignmentSet] {
	id := container.Id()

	if env.latch.isSet() {
		return EmptySequence[AssignmentSet]()
	}

	excl := exclusions[id.key()]
	memoable := len(excl) == 0

	var key subtreeMemoKey
	if memoable {
		key = subtreeMemoKey{id: id.key(), tree: active.tree}
		if cached, ok := env.memo.get(key); ok {
			return NewSliceSequence(cached)
		}
	}

	var thunks []func() Sequence[AssignmentSet]

	switch req := active.Get(id).(type) {
	case UnversionedRequirement:
		thunks = append(thunks, func() Sequence[AssignmentSet] {
			deps, err := container.UnversionedDependencies()
			if err != nil {
				env.latch.set(wrapProviderError(id, err))
				return EmptySequence[AssignmentSet]()
			}
			if !checkNoSelfCycle(env, id, deps, depth) {
				return EmptySequence[AssignmentSet]()
			}
			seed := NewAssignmentSet().Add(id, container, UnversionedBinding{})
			env.tracer.accepted(depth, id, UnversionedBinding{})
			return runMerger(ctx, env, deps, seed, active, exclusions, depth+1)
		})

	case RevisionRequirement:
		thunks = append(thunks, func() Sequence[AssignmentSet] {
			deps, err := container.DependenciesAtRevision(req.Revision)
			if err != nil {
				env.latch.set(wrapProviderError(id, err))
				return EmptySequence[AssignmentSet]()
			}
			for _, d := range deps {
				if _, isUnversioned := d.Requirement.(UnversionedRequirement); isUnversioned {
					env.latch.set(&RevisionDependencyContainsLocalPackageError{Dependent: id, Local: d.Id})
					return EmptySequence[AssignmentSet]()
				}
			}
			if !checkNoSelfCycle(env, id, deps, depth) {
				return EmptySequence[AssignmentSet]()
			}
			seed := NewAssignmentSet().Add(id, container, RevisionBinding{Revision: req.Revision})
			env.tracer.accepted(depth, id, RevisionBinding{Revision: req.Revision})
			return runMerger(ctx, env, deps, seed, active, exclusions, depth+1)
		})

	case VersionSetRequirement:
		all, err := container.Versions(ctx)
		if err != nil {
			env.latch.set(wrapProviderError(id, err))
			return EmptySequence[AssignmentSet]()
		}

		vq := newVersionQueue(id, container, all, req.Set, excl)
		for {
			v, ok := vq.next()
			if !ok {
				break
			}
			v := v
			thunks = append(thunks, func() Sequence[AssignmentSet] {
				if env.latch.isSet() {
					return EmptySequence[AssignmentSet]()
				}
				env.tracer.tryVersion(depth, id, v)

				deps, err := container.DependenciesAt(v)
				if err != nil {
					env.latch.set(wrapProviderError(id, err))
					return EmptySequence[AssignmentSet]()
				}
				if env.incomplete {
					deps = filterUncachedDeps(env, deps)
				}
				for _, d := range deps {
					switch d.Requirement.(type) {
					case RevisionRequirement, UnversionedRequirement:
						env.latch.set(&IncompatibleConstraintsError{Dependency: id, Culprits: []Constraint{d}})
						env.tracer.rejected(depth, id, VersionBinding{Version: v}, "incompatible constraint")
						return EmptySequence[AssignmentSet]()
					}
				}
				if !checkNoSelfCycle(env, id, deps, depth) {
					return EmptySequence[AssignmentSet]()
				}

				seed := NewAssignmentSet().Add(id, container, VersionBinding{Version: v})
				env.tracer.accepted(depth, id, VersionBinding{Version: v})
				return runMerger(ctx, env, deps, seed, active, exclusions, depth+1)
			})
		}
	}

	seq := ConcatSequence(thunks)
	if memoable {
		materialized := ToSlice(seq)
		env.memo.put(key, materialized)
		return NewSliceSequence(materialized)
	}
	return seq
}

// checkNoSelfCycle records a CycleError and returns false if any of deps
// names container's own id directly; transitive cycles are left to merge
// failure instead, resolving naturally via ordinary backtracking.
func checkNoSelfCycle(env *solveEnv, id PackageId, deps []Constraint, depth int) bool {
	for _, d := range deps {
		if d.Id.eq(id) {
			env.latch.set(&CycleError{Id: id})
			env.tracer.backtrack(depth, id)
			return false
		}
	}
	return true
}

// filterUncachedDeps drops dependencies whose container isn't already in
// the cache, for incomplete mode: a trial run must never trigger a fresh
// fetch of its own accord.
func filterUncachedDeps(env *solveEnv, deps []Constraint) []Constraint {
	out := deps[:0:0]
	for _, d := range deps {
		if _, ok := env.cache.peek(d.Id); ok {
			out = append(out, d)
		}
	}
	return out
}
