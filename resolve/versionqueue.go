package resolve

import "sort"

// versionQueue produces a container's candidate versions latest-first,
// filtered to a VersionSetSpecifier, an exclusion set, and tools-version
// compatibility. It asserts its own strictly-decreasing invariant as it's
// drained, the same defensive assertion gps's VersionQueue makes about its
// own candidate ordering.
type versionQueue struct {
	id       PackageId
	versions []Version
	pos      int
	prev     *Version
}

// newVersionQueue builds the filtered, sorted candidate list for id.
func newVersionQueue(id PackageId, container Container, all []Version, allowed VersionSetSpecifier, excluded map[string]struct{}) *versionQueue {
	filtered := make([]Version, 0, len(all))
	for _, v := range all {
		if !allowed.Contains(v) {
			continue
		}
		if _, skip := excluded[v.String()]; skip {
			continue
		}
		if !container.IsToolsVersionCompatible(v) {
			continue
		}
		filtered = append(filtered, v)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[j].LessThan(filtered[i]) // descending
	})
	return &versionQueue{id: id, versions: filtered}
}

// next returns the next candidate in descending order, or false once
// exhausted.
func (q *versionQueue) next() (Version, bool) {
	if q.pos >= len(q.versions) {
		return Version{}, false
	}
	v := q.versions[q.pos]
	if q.prev != nil && !v.LessThan(*q.prev) {
		panic("versionQueue: candidates not strictly decreasing for " + q.id.String())
	}
	q.prev = &v
	q.pos++
	return v, true
}

func (q *versionQueue) isEmpty() bool {
	return len(q.versions) == 0
}
