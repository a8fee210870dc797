// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// SurveyCatalog is the catalog access the survey recommender needs.
type SurveyCatalog interface {
	AllMovies(ctx context.Context) ([]models.Movie, error)
}

// SurveyRecommender ranks the catalog against a user's stored survey answers.
// Unlike the AI pipeline it is fully deterministic and needs no external
// calls.
type SurveyRecommender struct {
	catalog SurveyCatalog
	limit   int
}

// NewSurveyRecommender creates a survey recommender returning at most limit
// movies.
func NewSurveyRecommender(catalog SurveyCatalog, limit int) *SurveyRecommender {
	if limit <= 0 {
		limit = 20
	}
	return &SurveyRecommender{catalog: catalog, limit: limit}
}

// regionLanguages maps a survey region to the spoken languages that count as
// a match. World Cinema means anything beyond English.
var regionLanguages = map[models.Region][]string{
	models.RegionUSA:    {"English"},
	models.RegionEurope: {"French", "German", "Spanish", "Italian", "Portuguese", "Dutch", "Swedish", "Danish", "Norwegian", "Polish"},
	models.RegionAsia:   {"Japanese", "Korean", "Chinese", "Mandarin", "Cantonese", "Hindi", "Thai", "Vietnamese"},
}

type scoredMovie struct {
	movie        models.Movie
	genreOverlap int
}

// Recommend filters and ranks the catalog by the survey answers.
//
// Hard filters: genre overlap (required unless "any" is among the answers),
// duration band (same bands and nil-runtime handling as the AI post-filter),
// release-year band, region, and popularity half. Survivors are ranked by
// genre-overlap count, then vote count.
func (r *SurveyRecommender) Recommend(ctx context.Context, answers *models.SurveyAnswers) ([]models.Movie, error) {
	movies, err := r.catalog.AllMovies(ctx)
	if err != nil {
		return nil, err
	}

	medianPopularity := medianPopularity(movies)
	wantAnyGenre := hasAny(answers.Genres)
	durationHint := durationFromPref(answers.Duration)

	scored := []scoredMovie{}
	for i := range movies {
		m := &movies[i]

		overlap := genreOverlap(m.Genres, answers.Genres)
		if !wantAnyGenre && overlap == 0 {
			continue
		}
		if !MatchesDuration(m.Runtime, durationHint) {
			continue
		}
		if !matchesYearBand(m.ReleaseYear(), answers.Year) {
			continue
		}
		if !matchesRegion(m.SpokenLanguages, answers.Region) {
			continue
		}
		if !matchesPopularity(m.Popularity, medianPopularity, answers.Popularity) {
			continue
		}

		scored = append(scored, scoredMovie{movie: *m, genreOverlap: overlap})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].genreOverlap != scored[j].genreOverlap {
			return scored[i].genreOverlap > scored[j].genreOverlap
		}
		return scored[i].movie.VoteCount > scored[j].movie.VoteCount
	})

	limit := r.limit
	if len(scored) < limit {
		limit = len(scored)
	}
	result := make([]models.Movie, 0, limit)
	for _, s := range scored[:limit] {
		result = append(result, s.movie)
	}
	return result, nil
}

func hasAny(genres []string) bool {
	for _, g := range genres {
		if strings.EqualFold(g, "any") {
			return true
		}
	}
	return len(genres) == 0
}

func genreOverlap(movieGenres, wanted []string) int {
	overlap := 0
	for _, w := range wanted {
		for _, g := range movieGenres {
			if strings.EqualFold(g, w) {
				overlap++
				break
			}
		}
	}
	return overlap
}

func durationFromPref(pref models.DurationPref) DurationHint {
	switch pref {
	case models.DurationShort:
		return HintShort
	case models.DurationMedium:
		return HintMedium
	case models.DurationLong:
		return HintLong
	}
	return HintNone
}

func matchesYearBand(year int, band models.YearBand) bool {
	if band == "" || band == models.YearAny {
		return true
	}
	if year == 0 {
		// Unknown release dates only survive an "any" band.
		return false
	}
	switch band {
	case models.Year2020s:
		return year >= 2020
	case models.Year2000s:
		return year >= 2000 && year <= 2019
	case models.Year80s90s:
		return year >= 1980 && year <= 1999
	case models.YearClassic:
		return year < 1980
	}
	return true
}

func matchesRegion(languages []string, region models.Region) bool {
	if region == "" || region == models.RegionAny {
		return true
	}
	if region == models.RegionWorld {
		for _, l := range languages {
			if !strings.EqualFold(l, "English") {
				return true
			}
		}
		return false
	}
	wanted := regionLanguages[region]
	for _, l := range languages {
		for _, w := range wanted {
			if strings.EqualFold(l, w) {
				return true
			}
		}
	}
	return false
}

func matchesPopularity(popularity, median float64, pref models.PopularityPref) bool {
	switch pref {
	case models.PopularityHigh:
		return popularity >= median
	case models.PopularityLow:
		return popularity < median
	}
	return true
}

func medianPopularity(movies []models.Movie) float64 {
	if len(movies) == 0 {
		return 0
	}
	values := make([]float64, len(movies))
	for i, m := range movies {
		values[i] = m.Popularity
	}
	sort.Float64s(values)
	return values[len(values)/2]
}
