package cache

import (
	"sync"
	"sync/atomic"
)

// Cache is a generic thread-safe cache with an optional soft limit.
// A soft limit of 0 means unbounded grow-only retention, which is the
// default policy for mesh caches: entries live for the process lifetime.
// With a positive soft limit, least recently used entries are evicted in
// batches when the limit is exceeded.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*cacheEntry[V]
	softLimit int
	tick      int64 // Monotonic access counter

	// Statistics (atomic for zero-allocation reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	onEvict func(K, V)
}

// cacheEntry holds a cached value with its access time.
type cacheEntry[V any] struct {
	value V
	atime int64 // Access time (tick value)
}

// New creates a new cache with the given soft limit.
// A softLimit of 0 means unbounded.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*cacheEntry[V]),
		softLimit: softLimit,
	}
}

// SetOnEvict registers a callback invoked for each entry removed by
// eviction. The callback runs outside the cache lock, after the Set that
// triggered the eviction, and may call back into the cache. Entries
// removed by Delete or Clear do not trigger it.
func (c *Cache[K, V]) SetOnEvict(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onEvict = fn
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	c.tick++
	entry.atime = c.tick
	c.hits.Add(1)

	return entry.value, true
}

// Set stores a value in the cache.
// If the cache exceeds its soft limit after insertion, the least recently
// used entries are evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()

	c.tick++
	c.entries[key] = &cacheEntry[V]{
		value: value,
		atime: c.tick,
	}

	var evicted []evictedPair[K, V]
	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		evicted = c.evictOldest()
	}
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		for _, e := range evicted {
			onEvict(e.key, e.value)
		}
	}
}

type evictedPair[K comparable, V any] struct {
	key   K
	value V
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// Clear removes all entries from the cache. Statistics are preserved.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*cacheEntry[V])
	c.tick = 0
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Capacity returns the soft limit of the cache (0 means unbounded).
func (c *Cache[K, V]) Capacity() int {
	return c.softLimit
}

// Stats returns a snapshot of cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	return Stats{
		Len:       entries,
		Capacity:  c.softLimit,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// evictOldest removes entries until comfortably under the soft limit and
// returns the removed pairs. Evicting in a batch (down to 75% of the
// limit) amortizes the scan cost over many insertions. Caller must hold
// c.mu.
func (c *Cache[K, V]) evictOldest() []evictedPair[K, V] {
	targetSize := c.softLimit * 3 / 4
	if targetSize < 1 {
		targetSize = 1
	}

	toEvict := len(c.entries) - targetSize
	if toEvict <= 0 {
		return nil
	}

	type aged struct {
		key   K
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, aged{key: key, atime: e.atime})
	}

	// Selection of the oldest entries; eviction batches are small so a
	// partial selection sort beats a full sort.
	evicted := make([]evictedPair[K, V], 0, toEvict)
	for i := 0; i < toEvict && i < len(all); i++ {
		minIdx := i
		for j := i + 1; j < len(all); j++ {
			if all[j].atime < all[minIdx].atime {
				minIdx = j
			}
		}
		if minIdx != i {
			all[i], all[minIdx] = all[minIdx], all[i]
		}
		evicted = append(evicted, evictedPair[K, V]{key: all[i].key, value: c.entries[all[i].key].value})
		delete(c.entries, all[i].key)
		c.evictions.Add(1)
	}
	return evicted
}

// Stats contains cache statistics for monitoring.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the soft limit (0 means unbounded).
	Capacity int
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// Evictions is the number of entries evicted.
	Evictions uint64
}
