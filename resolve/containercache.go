package resolve

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ContainerCache memoizes ContainerProvider.Fetch calls and lets the solver
// kick off speculative prefetches for packages it expects to need soon
// without blocking the current branch on them - the same per-solve-run
// caching role gps's bridge.go plays, backed here by a real concurrency-safe
// fetch-dedup layer instead of a single-threaded memo map.
//
// Deduplication of concurrent fetches for the same PackageId is delegated to
// golang.org/x/sync/singleflight, the same tool gps's own source manager
// lineage reaches for around once-per-key work; prefetch fan-out uses
// golang.org/x/sync/errgroup so a failed prefetch never leaks a goroutine or
// gets silently dropped, it simply surfaces (or is ignored) the next time
// that package is actually fetched.
type ContainerCache struct {
	provider ContainerProvider

	mu    sync.RWMutex
	cache map[string]cacheEntry
	ids   packageIdTrie

	group singleflight.Group
	eg    *errgroup.Group
	egCtx context.Context
}

type cacheEntry struct {
	container Container
	err       error
}

// NewContainerCache constructs a cache fronting provider. ctx is not
// consulted: prefetches run under a context derived from
// context.Background(), so cancelling ctx neither stops prefetches from
// starting nor interrupts in-flight ones; every prefetch result (container
// or error) is cached for the next Get.
func NewContainerCache(ctx context.Context, provider ContainerProvider) *ContainerCache {
	eg, egCtx := errgroup.WithContext(context.Background())
	return &ContainerCache{
		provider: provider,
		cache:    make(map[string]cacheEntry),
		ids:      newPackageIdTrie(),
		eg:       eg,
		egCtx:    egCtx,
	}
}

// Get fetches (and memoizes) the Container for id, deduplicating concurrent
// callers asking for the same id.
func (c *ContainerCache) Get(ctx context.Context, id PackageId) (Container, error) {
	key := id.key()

	c.mu.RLock()
	if e, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return e.container, e.err
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: a concurrent Prefetch may have completed and populated
		// the cache while this call waited to enter Do.
		c.mu.RLock()
		if e, ok := c.cache[key]; ok {
			c.mu.RUnlock()
			return e.container, e.err
		}
		c.mu.RUnlock()

		container, ferr := c.provider.Fetch(ctx, id)

		c.mu.Lock()
		c.cache[key] = cacheEntry{container: container, err: ferr}
		c.ids.Insert(id)
		c.mu.Unlock()

		return container, ferr
	})
	if err != nil {
		return nil, err
	}
	return v.(Container), nil
}

// peek reports whether id is already cached, without triggering a fetch.
// Used by the Merger in incomplete mode, where an uncached dependency is
// simply skipped rather than fetched.
func (c *ContainerCache) peek(id PackageId) (Container, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.cache[id.key()]
	if !ok || e.err != nil {
		return nil, false
	}
	return e.container, true
}

// Prefetch starts fetching ids in the background, bounded by the cache's own
// context, without blocking the caller. Results land in the ordinary cache
// so a later Get for the same id either finds it already there or piggybacks
// on the in-flight singleflight call.
func (c *ContainerCache) Prefetch(ids []PackageId) {
	for _, id := range ids {
		id := id
		c.eg.Go(func() error {
			_, _ = c.Get(c.egCtx, id)
			return nil
		})
	}
}

// Snapshot reports every PackageId currently resident in the cache,
// regardless of whether its fetch succeeded. Used by Resolver.Containers for
// diagnostic tooling that wants to know what the search has touched so far.
func (c *ContainerCache) Snapshot() []PackageId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ids.All()
}

// SnapshotPrefix reports every cached PackageId whose key has the given
// prefix - e.g. every container fetched from one source host - without
// walking the whole cache.
func (c *ContainerCache) SnapshotPrefix(prefix string) []PackageId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ids.PrefixSearch(prefix)
}

// Wait blocks until every Prefetch call started so far has completed.
// Errors from individual prefetches are swallowed by Prefetch itself
// (they're recorded in the cache entry instead), so Wait never returns a
// non-nil error; it exists purely for tests and tools that want a
// synchronization point.
func (c *ContainerCache) Wait() {
	_ = c.eg.Wait()
}
