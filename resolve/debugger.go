package resolve

import (
	"context"
	"time"
)

// defaultDebugBudget is the time ceiling the Debugger gives itself before
// giving up and reporting the untrimmed failure.
const defaultDebugBudget = 10 * time.Second

// debugItem is one element of the ddmin universe: either a top-level
// dependency or a pin, tagged with its original index so items with
// otherwise-identical constraints remain individually addressable.
type debugItem struct {
	idx   int
	isPin bool
	c     Constraint
}

// runDebugger runs delta-debugging minimization over the union of deps and
// pins, looking for the smallest subset whose trial still reports
// Unsatisfiable. debugged reports whether minimization completed; on timeout
// the untrimmed deps and pins are returned unchanged and debugged is false.
func runDebugger(ctx context.Context, r *Resolver, deps, pins []Constraint) (minDeps, minPins []Constraint, debugged bool) {
	deadline := time.Now().Add(defaultDebugBudget)

	all := make([]debugItem, 0, len(deps)+len(pins))
	for i, d := range deps {
		all = append(all, debugItem{idx: i, isPin: false, c: d})
	}
	for i, p := range pins {
		all = append(all, debugItem{idx: len(deps) + i, isPin: true, c: p})
	}

	timedOut := false
	test := func(allowed []debugItem) bool {
		if time.Now().After(deadline) {
			timedOut = true
			return false
		}
		return r.debugTrial(ctx, all, allowed)
	}

	if !test(all) {
		// Not reproducibly unsatisfiable under incomplete mode; nothing to
		// minimize, report the untrimmed input.
		return deps, pins, false
	}

	minimal := ddmin(all, test)
	if timedOut {
		return deps, pins, false
	}

	for _, it := range minimal {
		if it.isPin {
			minPins = append(minPins, it.c)
		} else {
			minDeps = append(minDeps, it.c)
		}
	}
	return minDeps, minPins, true
}

// debugTrial builds one ddmin trial's constraint list and runs the resolver
// in incomplete mode against it: permitted dependencies, explicit
// Unversioned overrides forcing disallowed dependencies out of the search,
// and permitted pins. It returns true (the ddmin predicate) when the trial
// still reports Unsatisfiable.
func (r *Resolver) debugTrial(ctx context.Context, all, allowed []debugItem) bool {
	allowedIdx := make(map[int]bool, len(allowed))
	for _, it := range allowed {
		allowedIdx[it.idx] = true
	}

	var permittedDeps, permittedPins []Constraint
	disallowedDepIds := make(map[string]struct{})
	for _, it := range all {
		if allowedIdx[it.idx] {
			if it.isPin {
				permittedPins = append(permittedPins, it.c)
			} else {
				permittedDeps = append(permittedDeps, it.c)
			}
			continue
		}
		if it.isPin {
			continue // disallowed pins are simply omitted
		}
		disallowedDepIds[it.c.Id.key()] = struct{}{}
		permittedDeps = append(permittedDeps, Constraint{Id: it.c.Id, Requirement: UnversionedRequirement{}})
	}

	for _, p := range permittedPins {
		if _, bad := disallowedDepIds[p.Id.key()]; bad {
			return false // an allowed pin names a disallowed package: invalid trial
		}
	}

	env := &solveEnv{
		cache:      r.cache,
		latch:      &errorLatch{},
		memo:       newSubtreeMemo(),
		incomplete: true,
		tracer:     nil,
	}

	seedK, ok := NewConstraintSet().MergeAll(permittedPins)
	if !ok {
		return true // contradictory pins alone: still counts as failing
	}

	seq := runMerger(ctx, env, permittedDeps, NewAssignmentSet(), seedK, map[string]map[string]struct{}{}, 0)
	_, found := seq.Next()
	return !found && env.latch.get() == nil
}

// ddmin is Zeller's classic delta-debugging minimization: it repeatedly
// splits items into n chunks, trying each chunk and each chunk's complement
// against test, and only grows n (finer granularity) when neither narrows
// the current candidate.
func ddmin(items []debugItem, test func([]debugItem) bool) []debugItem {
	c := append([]debugItem{}, items...)
	n := 2

	for len(c) >= 2 {
		chunks := splitDebugItems(c, n)
		reduced := false

		for _, chunk := range chunks {
			if test(chunk) {
				c = chunk
				if n > 2 {
					n--
				}
				reduced = true
				break
			}
		}

		if !reduced {
			for _, chunk := range chunks {
				complement := subtractDebugItems(c, chunk)
				if len(complement) > 0 && len(complement) < len(c) && test(complement) {
					c = complement
					if n > 2 {
						n--
					}
					reduced = true
					break
				}
			}
		}

		if !reduced {
			if n >= len(c) {
				break
			}
			n *= 2
			if n > len(c) {
				n = len(c)
			}
		}
	}

	return c
}

func splitDebugItems(items []debugItem, n int) [][]debugItem {
	if n <= 0 {
		n = 1
	}
	size := (len(items) + n - 1) / n
	if size == 0 {
		size = 1
	}
	var chunks [][]debugItem
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

func subtractDebugItems(all, remove []debugItem) []debugItem {
	removeIdx := make(map[int]bool, len(remove))
	for _, it := range remove {
		removeIdx[it.idx] = true
	}
	var out []debugItem
	for _, it := range all {
		if !removeIdx[it.idx] {
			out = append(out, it)
		}
	}
	return out
}
