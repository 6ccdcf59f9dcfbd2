// Package sitecache holds the process-wide cache of doc category ids that
// the transport layer and the search filter consult on every request.
// The cache is rebuilt lazily after an invalidation.
package sitecache

import (
	"context"
	"sync"
)

// Loader produces the current set of doc category ids from storage.
type Loader func(ctx context.Context) ([]int64, error)

// DocCategories caches the category ids that have an index binding.
// Invalidate only marks the cache stale; the next read rebuilds it, so
// bursts of invalidations collapse into a single rebuild.
type DocCategories struct {
	load Loader

	mu    sync.RWMutex
	ids   []int64
	idSet map[int64]struct{}
	valid bool
}

func NewDocCategories(load Loader) *DocCategories {
	return &DocCategories{load: load}
}

// Invalidate marks the cached set stale.
func (c *DocCategories) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.ids = nil
	c.idSet = nil
	c.mu.Unlock()
}

// IDs returns the cached doc category ids, rebuilding the set if stale.
// The returned slice is shared and must not be mutated.
func (c *DocCategories) IDs(ctx context.Context) ([]int64, error) {
	c.mu.RLock()
	if c.valid {
		ids := c.ids
		c.mu.RUnlock()
		return ids, nil
	}
	c.mu.RUnlock()

	return c.rebuild(ctx)
}

// Contains reports whether categoryID is a doc category.
func (c *DocCategories) Contains(ctx context.Context, categoryID int64) (bool, error) {
	c.mu.RLock()
	if c.valid {
		_, ok := c.idSet[categoryID]
		c.mu.RUnlock()
		return ok, nil
	}
	c.mu.RUnlock()

	if _, err := c.rebuild(ctx); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.idSet[categoryID]
	return ok, nil
}

func (c *DocCategories) rebuild(ctx context.Context) ([]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have rebuilt while we waited for the lock.
	if c.valid {
		return c.ids, nil
	}

	ids, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	c.ids = ids
	c.idSet = set
	c.valid = true
	return ids, nil
}
