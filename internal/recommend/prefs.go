// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package recommend

import (
	"context"
	"sort"
	"sync"

	"github.com/filmkompass-team/filmkompass/internal/generation"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/models"
)

// PreferenceStore is the per-user read access the aggregator needs.
type PreferenceStore interface {
	GetListMovieIDs(ctx context.Context, userID string, kind models.ListKind) ([]int64, error)
	GetAllUserRatings(ctx context.Context, userID string) (map[int64]int, error)
}

// Preferences is the user's aggregated taste profile fed to the generation
// prompt.
type Preferences struct {
	Favorites []generation.PreferenceEntry
	Watched   []generation.PreferenceEntry
	Ratings   []generation.PreferenceEntry
}

// Empty reports whether no preference signal at all is available. This is
// non-fatal: the pipeline proceeds with an empty preference context.
func (p *Preferences) Empty() bool {
	return len(p.Favorites) == 0 && len(p.Watched) == 0 && len(p.Ratings) == 0
}

// Aggregator collects a user's favorites, watched list, and ratings and
// resolves them to catalog entries. All failures inside the aggregator are
// soft: a missing movie or a failed read shrinks the profile instead of
// failing the recommendation.
type Aggregator struct {
	store       PreferenceStore
	catalog     Catalog
	maxItems    int
	concurrency int
}

// NewAggregator creates a preference aggregator. maxItems bounds each of the
// three signal lists; concurrency bounds parallel catalog lookups.
func NewAggregator(store PreferenceStore, catalog Catalog, maxItems, concurrency int) *Aggregator {
	if maxItems <= 0 {
		maxItems = 20
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Aggregator{
		store:       store,
		catalog:     catalog,
		maxItems:    maxItems,
		concurrency: concurrency,
	}
}

// Collect builds the user's preference profile. The three list reads run
// sequentially (they are cheap); the per-id catalog resolutions fan out
// concurrently with bounded parallelism, and results keep list order.
func (a *Aggregator) Collect(ctx context.Context, userID string) (*Preferences, error) {
	favoriteIDs, err := a.store.GetListMovieIDs(ctx, userID, models.ListFavorites)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Failed to read favorites")
		favoriteIDs = nil
	}
	watchedIDs, err := a.store.GetListMovieIDs(ctx, userID, models.ListWatched)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Failed to read watched list")
		watchedIDs = nil
	}
	ratings, err := a.store.GetAllUserRatings(ctx, userID)
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Failed to read ratings")
		ratings = nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ratedIDs := make([]int64, 0, len(ratings))
	for id := range ratings {
		ratedIDs = append(ratedIDs, id)
	}
	sort.Slice(ratedIDs, func(i, j int) bool { return ratedIDs[i] < ratedIDs[j] })

	prefs := &Preferences{
		Favorites: a.resolveIDs(ctx, cap64(favoriteIDs, a.maxItems), nil),
		Watched:   a.resolveIDs(ctx, cap64(watchedIDs, a.maxItems), nil),
		Ratings:   a.resolveIDs(ctx, cap64(ratedIDs, a.maxItems), ratings),
	}
	return prefs, ctx.Err()
}

// resolveIDs looks up each movie id with bounded concurrency. Ids that fail
// to resolve are dropped; surviving entries keep input order. When scores is
// non-nil the entry carries the user's rating.
func (a *Aggregator) resolveIDs(ctx context.Context, ids []int64, scores map[int64]int) []generation.PreferenceEntry {
	if len(ids) == 0 {
		return nil
	}

	resolved := make([]*generation.PreferenceEntry, len(ids))
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			movie, err := a.catalog.GetMovieByID(ctx, id)
			if err != nil {
				return
			}
			entry := &generation.PreferenceEntry{
				Title:    movie.Title,
				Genres:   nonNilGenres(movie.Genres),
				Overview: movie.Overview,
			}
			if scores != nil {
				entry.Score = scores[id]
			}
			resolved[i] = entry
		}(i, id)
	}
	wg.Wait()

	entries := make([]generation.PreferenceEntry, 0, len(ids))
	for _, e := range resolved {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

func cap64(ids []int64, n int) []int64 {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}

func nonNilGenres(g []string) []string {
	if g == nil {
		return []string{}
	}
	return g
}
