// Package cache wraps a hashicorp/golang-lru TwoQueueCache for the
// resolver's SQLCache field, grounded on
// core/cache.go's Cache type, generalized from a single fixed-size
// []byte cache into a generic one sized per call site.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a thread-safe, size-bounded, scan-resistant cache.
type Cache[K comparable, V any] struct {
	inner *lru.TwoQueueCache[K, V]
}

// New builds a Cache holding at most size entries.
func New[K comparable, V any](size int) (*Cache[K, V], error) {
	inner, err := lru.New2Q[K, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{inner: inner}, nil
}

// Get returns the cached value for key, if present.
func (c *Cache[K, V]) Get(key K) (val V, ok bool) {
	return c.inner.Get(key)
}

// Set stores val under key, evicting the least-valuable entry if the cache
// is full.
func (c *Cache[K, V]) Set(key K, val V) {
	c.inner.Add(key, val)
}

// Len reports the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	return c.inner.Len()
}

// Purge empties the cache.
func (c *Cache[K, V]) Purge() {
	c.inner.Purge()
}
