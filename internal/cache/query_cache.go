// Package cache holds the two bounded LRU caches sitting in front of the
// retrieval pipeline (full query responses and embedding lookups) plus the
// redis-backed per-session answer history.
package cache

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Fingerprint derives the query-cache key from the normalized query text and
// every request parameter that changes the output. Session ids are
// deliberately excluded: two users asking the same question share an entry.
func Fingerprint(queryText string, numResults int, hybrid, rerank, enhancedPrompts bool) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(queryText)), " ")
	return fmt.Sprintf("%s|k=%d|h=%t|r=%t|p=%t", normalized, numResults, hybrid, rerank, enhancedPrompts)
}

// QueryCacheStats is a point-in-time view of cache effectiveness.
type QueryCacheStats struct {
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
}

// QueryCache memoizes full responses by fingerprint with LRU eviction.
// V is the response payload type; entries are returned by value so callers
// can safely mutate their copy (e.g. flip a cached flag).
type QueryCache[V any] struct {
	mu       sync.Mutex
	entries  *lru.Cache[string, V]
	capacity int
	hits     uint64
	misses   uint64
}

func NewQueryCache[V any](capacity int) (*QueryCache[V], error) {
	if capacity <= 0 {
		capacity = 50
	}
	entries, err := lru.New[string, V](capacity)
	if err != nil {
		return nil, fmt.Errorf("create query cache failed: %w", err)
	}
	return &QueryCache[V]{entries: entries, capacity: capacity}, nil
}

func (c *QueryCache[V]) Lookup(fingerprint string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries.Get(fingerprint)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

func (c *QueryCache[V]) Store(fingerprint string, response V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(fingerprint, response)
}

func (c *QueryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

func (c *QueryCache[V]) Stats() QueryCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return QueryCacheStats{
		Size:     c.entries.Len(),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
