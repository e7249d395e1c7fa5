package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"eidbi-query-system/internal/ai"
)

// CachingEmbedder memoizes an Embedder behind a bounded LRU. Keys are the
// exact input text, no normalization: embeddings are sensitive to the exact
// string. Failures of the inner embedder propagate and are never cached.
type CachingEmbedder struct {
	mu       sync.Mutex
	inner    ai.Embedder
	entries  *lru.Cache[string, []float32]
	capacity int
	hits     uint64
	misses   uint64
}

func NewCachingEmbedder(inner ai.Embedder, capacity int) (*CachingEmbedder, error) {
	if capacity <= 0 {
		capacity = 100
	}
	entries, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache failed: %w", err)
	}
	return &CachingEmbedder{inner: inner, entries: entries, capacity: capacity}, nil
}

func (c *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	if vec, ok := c.entries.Get(text); ok {
		c.hits++
		c.mu.Unlock()
		return vec, nil
	}
	c.misses++
	c.mu.Unlock()

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries.Add(text, vec)
	c.mu.Unlock()
	return vec, nil
}

func (c *CachingEmbedder) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

func (c *CachingEmbedder) Stats() QueryCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return QueryCacheStats{
		Size:     c.entries.Len(),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
