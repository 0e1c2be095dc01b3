// Package scorecache memoizes hand scores. Entries are cheap and the realized
// key space (hands actually played) is far smaller than the combinatorial
// maximum, so the cache is append-only: nothing is ever evicted or
// invalidated. Sessions may score hands from multiple goroutines, so access
// is guarded by a RWMutex.
package scorecache

import (
	"sync"

	"github.com/lox/pokertable/poker"
)

// Cache is an append-only Hand to Score memo, safe for concurrent use.
// It is injected into consumers rather than reached for ambiently so tests
// can substitute an isolated instance.
type Cache struct {
	mu     sync.RWMutex
	scores map[poker.Hand]poker.Score

	hits   uint64
	misses uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{scores: make(map[poker.Hand]poker.Score)}
}

var shared = New()

// Shared returns the process-wide cache shared across all sessions.
func Shared() *Cache { return shared }

// Get returns the cached score for a mask, if present.
func (c *Cache) Get(h poker.Hand) (poker.Score, bool) {
	c.mu.RLock()
	score, ok := c.scores[h]
	c.mu.RUnlock()
	return score, ok
}

// Score returns the memoized score for a mask, computing and recording it on
// first sight. Every later call for the same mask is a map read.
func (c *Cache) Score(h poker.Hand) (poker.Score, error) {
	c.mu.RLock()
	score, ok := c.scores[h]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return score, nil
	}

	score, err := poker.ScoreHand(h)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.scores[h] = score
	c.misses++
	c.mu.Unlock()
	return score, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.scores)
}

// Stats reports cache hits and misses since creation.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
