package resolve

import (
	iradix "github.com/hashicorp/go-immutable-radix"
)

// solveEnv bundles the state shared across one resolve() invocation's
// recursive SubtreeSolver/Merger calls: the container cache, the error
// latch, the subtree memo, and the incomplete-mode flag. Passed by pointer
// so every recursive call observes the same latch and memo - the only
// mutable state shared across an otherwise purely functional search.
type solveEnv struct {
	cache      *ContainerCache
	latch      *errorLatch
	memo       *subtreeMemo
	incomplete bool
	tracer     *tracer
}

// subtreeMemoKey identifies a memoized SubtreeSolver call. Keying on the
// active ConstraintSet's backing tree pointer is coarse - two structurally
// identical but separately constructed ConstraintSets won't share a cache
// entry - but it is sound; a narrower structural fingerprint would catch
// more sharing at the cost of hashing the whole set on every call, and isn't
// needed for correctness.
type subtreeMemoKey struct {
	id   string
	tree *iradix.Tree
}

// subtreeMemo caches fully-materialized SubtreeSolver results, keyed by
// (container id, active ConstraintSet). Only used when exclusions is empty;
// cached sequences are re-iterable since they're just replayed slices.
type subtreeMemo struct {
	entries map[subtreeMemoKey][]AssignmentSet
}

func newSubtreeMemo() *subtreeMemo {
	return &subtreeMemo{entries: make(map[subtreeMemoKey][]AssignmentSet)}
}

func (m *subtreeMemo) get(k subtreeMemoKey) ([]AssignmentSet, bool) {
	v, ok := m.entries[k]
	return v, ok
}

func (m *subtreeMemo) put(k subtreeMemoKey, v []AssignmentSet) {
	m.entries[k] = v
}
