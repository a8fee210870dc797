// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

// Package recommend implements the AI recommendation pipeline: aggregate the
// user's preference signals, call the hosted generation endpoint once, repair
// and extract a title array from its free-text reply, resolve each title
// against the catalog, apply the duration post-filter, and cache the final
// list under the exact query string.
//
// Per-item failures shrink the result silently. Only upstream failures and a
// completely unsalvageable model reply surface as errors.
package recommend

import (
	"context"

	"github.com/filmkompass-team/filmkompass/internal/generation"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/metrics"
	"github.com/filmkompass-team/filmkompass/internal/models"
)

// Cache is the query-keyed result cache. Keys are the exact, unmodified
// query string; entries never expire and the cache is unbounded for the
// process lifetime. Get's second return distinguishes a cached empty list
// from an absent entry.
type Cache interface {
	Get(query string) ([]models.Movie, bool)
	Set(query string, movies []models.Movie)
	Clear()
}

// Pipeline is the recommendation orchestrator.
type Pipeline struct {
	aggregator *Aggregator
	generator  generation.Generator
	catalog    Catalog
	cache      Cache
}

// NewPipeline wires the pipeline from its collaborators.
func NewPipeline(aggregator *Aggregator, generator generation.Generator, catalog Catalog, cache Cache) *Pipeline {
	return &Pipeline{
		aggregator: aggregator,
		generator:  generator,
		catalog:    catalog,
		cache:      cache,
	}
}

// Result is a recommendation response. Cached reports whether the list came
// from the query cache without a generation call.
type Result struct {
	Movies []models.Movie `json:"movies"`
	Cached bool           `json:"-"`
}

// Recommend runs the pipeline for one user query.
//
// An identical query string returns the cached list without re-invoking the
// generation endpoint. A canceled context prevents the cache write, so a
// superseded call never publishes its result under the new key.
func (p *Pipeline) Recommend(ctx context.Context, userID, query string) (*Result, error) {
	if movies, ok := p.cache.Get(query); ok {
		metrics.RecommendCacheHits.Inc()
		metrics.RecommendRequestsTotal.WithLabelValues("cache_hit").Inc()
		return &Result{Movies: movies, Cached: true}, nil
	}
	metrics.RecommendCacheMisses.Inc()

	prefs, err := p.aggregator.Collect(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs.Empty() {
		// No preference data is non-fatal: the model still gets the query.
		logging.Debug().Str("user_id", userID).Msg("No preference data, proceeding with query only")
	}

	raw, err := p.generator.Generate(ctx, &generation.Request{
		Query:     query,
		Favorites: prefs.Favorites,
		Watched:   prefs.Watched,
		Ratings:   prefs.Ratings,
	})
	if err != nil {
		metrics.RecommendRequestsTotal.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	candidates, err := ExtractTitles(raw)
	if err != nil {
		metrics.RecommendRequestsTotal.WithLabelValues("unparseable").Inc()
		logging.Warn().Str("raw", truncate(raw, 200)).Msg("Model reply had no salvageable titles")
		return nil, err
	}

	resolutions, err := ResolveTitles(ctx, p.catalog, candidates)
	if err != nil {
		return nil, err
	}

	movies := PostFilter(FoldResolutions(resolutions), DurationHintFromQuery(query))

	// A superseded call must not publish under this key.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.cache.Set(query, movies)

	metrics.RecommendRequestsTotal.WithLabelValues("success").Inc()
	logging.Info().
		Str("user_id", userID).
		Int("candidates", len(candidates)).
		Int("resolved", len(movies)).
		Msg("Recommendation pipeline complete")

	return &Result{Movies: movies}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
