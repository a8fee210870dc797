// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package cache

import (
	"sync"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// RecommendationCache stores resolved recommendation lists keyed by the
// exact, unmodified query string.
//
// Contract (matches the recommendation pipeline's caching semantics):
//   - Two distinct strings are always distinct entries, even if they differ
//     only in whitespace.
//   - Entries never expire and are never evicted; the cache grows for the
//     lifetime of the process.
//   - Concurrent reads are safe; concurrent writes are last-write-wins.
//     Exact-string keys make merge semantics unnecessary.
type RecommendationCache struct {
	mu      sync.RWMutex
	entries map[string][]models.Movie
}

// NewRecommendationCache creates an empty recommendation cache.
func NewRecommendationCache() *RecommendationCache {
	return &RecommendationCache{
		entries: make(map[string][]models.Movie),
	}
}

// Get returns the cached list for the exact query string.
// The boolean distinguishes a cached empty list from an absent entry.
func (c *RecommendationCache) Get(query string) ([]models.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	movies, ok := c.entries[query]
	return movies, ok
}

// Set stores the list under the exact query string, replacing any
// previous entry.
func (c *RecommendationCache) Set(query string, movies []models.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = movies
}

// Clear removes all entries. Only tests and admin maintenance use this;
// production call sites never invalidate.
func (c *RecommendationCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]models.Movie)
}

// Len returns the number of cached queries.
func (c *RecommendationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
