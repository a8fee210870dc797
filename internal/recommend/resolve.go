// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package recommend

import (
	"context"
	"errors"
	"strings"

	"github.com/filmkompass-team/filmkompass/internal/database"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/metrics"
	"github.com/filmkompass-team/filmkompass/internal/models"
)

// Catalog is the read-only movie access the pipeline needs.
type Catalog interface {
	GetMovieByID(ctx context.Context, tmdbID int64) (*models.Movie, error)
	SearchByTitleSubstring(ctx context.Context, text string) (*models.Movie, error)
}

// Resolution is the outcome of matching one candidate title against the
// catalog. Misses are an explicit value here rather than an error, because
// dropping unmatched titles is the contract, not a failure mode.
type Resolution struct {
	Candidate string
	Movie     *models.Movie
	Found     bool
}

// ResolveTitles maps candidate titles to catalog entries in order. Each
// candidate is normalized (trimmed, lowercased) and matched as a
// case-insensitive substring; the first catalog match wins. Unmatched
// candidates are dropped. Duplicates are kept when two candidates resolve to
// the same row.
func ResolveTitles(ctx context.Context, catalog Catalog, candidates []string) ([]Resolution, error) {
	resolutions := make([]Resolution, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		normalized := strings.ToLower(strings.TrimSpace(candidate))
		if normalized == "" {
			resolutions = append(resolutions, Resolution{Candidate: candidate})
			metrics.RecommendTitlesDropped.Inc()
			continue
		}

		movie, err := catalog.SearchByTitleSubstring(ctx, normalized)
		if err != nil {
			if !errors.Is(err, database.ErrMovieNotFound) {
				// Lookup infrastructure failures also drop silently; a
				// flaky row must not fail the whole recommendation.
				logging.Warn().Err(err).Str("title", candidate).Msg("Title lookup failed")
			}
			resolutions = append(resolutions, Resolution{Candidate: candidate})
			metrics.RecommendTitlesDropped.Inc()
			continue
		}

		resolutions = append(resolutions, Resolution{Candidate: candidate, Movie: movie, Found: true})
		metrics.RecommendTitlesResolved.Inc()
	}
	return resolutions, nil
}

// FoldResolutions collapses resolutions to the found movies, preserving
// candidate order with gaps removed. This is the silent-drop policy as one
// visible step.
func FoldResolutions(resolutions []Resolution) []models.Movie {
	movies := []models.Movie{}
	for _, r := range resolutions {
		if r.Found {
			movies = append(movies, *r.Movie)
		}
	}
	return movies
}
