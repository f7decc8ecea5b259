package resolve

import "context"

// mergerPair is the (AssignmentSet, ConstraintSet) working state the Merger
// folds over dependencies D.
type mergerPair struct {
	a AssignmentSet
	k ConstraintSet
}

// runMerger implements the Merger component: it folds over deps
// in declared order, replacing a lazy sequence of candidate (assignment,
// constraint) pairs with the cross product against each dependency's own
// SubtreeSolver sequence, and finally projects out the AssignmentSet.
//
// The outer loop over deps runs eagerly - it is plain Go control flow that
// wraps one FlatMapSequence per dependency around the previous sequence -
// while the FlatMapSequence/MapFilterSequence composition underneath stays
// lazy: no subtree is solved, and no container fetched beyond the first
// lookup, until the caller actually pulls a result.
func runMerger(ctx context.Context, env *solveEnv, deps []Constraint, seed AssignmentSet, active ConstraintSet, exclusions map[string]map[string]struct{}, depth int) Sequence[AssignmentSet] {
	mergedK, ok := active.MergeAll(deps)
	if !ok {
		return EmptySequence[AssignmentSet]()
	}

	seq := Sequence[mergerPair](NewSliceSequence([]mergerPair{{a: seed, k: mergedK}}))

	for _, dep := range deps {
		dep := dep

		if env.latch.isSet() {
			return EmptySequence[AssignmentSet]()
		}

		var container Container
		if env.incomplete {
			c, cached := env.cache.peek(dep.Id)
			if !cached {
				continue // incomplete mode: skip ids not already cached
			}
			container = c
		} else {
			env.tracerFetchBegin(dep.Id)
			c, err := env.cache.Get(ctx, dep.Id)
			env.tracerFetchEnd(dep.Id, err)
			if err != nil {
				env.latch.set(wrapProviderError(dep.Id, err))
				return EmptySequence[AssignmentSet]()
			}
			container = c
		}

		seq = FlatMapSequence(seq, func(p mergerPair) Sequence[mergerPair] {
			if env.latch.isSet() {
				return EmptySequence[mergerPair]()
			}
			subtreeSeq := solveSubtree(ctx, env, container, p.k, exclusions, depth)
			return MapFilterSequence(subtreeSeq, func(s AssignmentSet) (mergerPair, bool) {
				merged, ok := p.a.Merge(s)
				if !ok {
					return mergerPair{}, false
				}
				induced, err := s.InducedConstraints()
				if err != nil {
					env.latch.set(err)
					return mergerPair{}, false
				}
				k2, ok := p.k.Merge(induced)
				if !ok {
					return mergerPair{}, false
				}
				return mergerPair{a: merged, k: k2}, true
			})
		})
	}

	return MapFilterSequence(seq, func(p mergerPair) (AssignmentSet, bool) {
		return p.a, true
	})
}

func (env *solveEnv) tracerFetchBegin(id PackageId) {
	if env.tracer != nil {
		env.tracer.note(0, "fetching %s", id)
	}
}

func (env *solveEnv) tracerFetchEnd(id PackageId, err error) {
	if env.tracer != nil && err != nil {
		env.tracer.note(0, "fetch of %s failed: %v", id, err)
	}
}
