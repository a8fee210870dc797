// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package models

import (
	"strings"
	"time"
)

// Movie is a catalog row. The catalog is read-only from the application's
// perspective; rows are seeded once from a JSON dump and never mutated.
type Movie struct {
	// TmdbID is the unique catalog identifier.
	TmdbID int64 `json:"tmdb_id"`

	// ImdbID is the IMDb identifier, if known.
	ImdbID string `json:"imdb_id,omitempty"`

	// Title is the display title.
	Title string `json:"title"`

	// ReleaseDate is the release date in YYYY-MM-DD form, empty if unknown.
	ReleaseDate string `json:"release_date,omitempty"`

	// Runtime is the runtime in minutes. Nil when the catalog does not know it;
	// the recommendation post-filter treats unknown runtime specially.
	Runtime *int `json:"runtime"`

	// Genres is the set of genre tags.
	Genres []string `json:"genres"`

	// Overview is the synopsis text.
	Overview string `json:"overview,omitempty"`

	// VoteAverage is the mean user score (0-10).
	VoteAverage float64 `json:"vote_average"`

	// VoteCount is the number of votes; catalog listings sort by it descending.
	VoteCount int64 `json:"vote_count"`

	// Popularity is a pre-computed popularity metric.
	Popularity float64 `json:"popularity"`

	// PosterURL references the poster image.
	PosterURL string `json:"poster_url,omitempty"`

	// SpokenLanguages lists ISO language names for the film.
	SpokenLanguages []string `json:"spoken_languages,omitempty"`
}

// ReleaseYear returns the release year, or 0 if the release date is unknown
// or malformed.
func (m *Movie) ReleaseYear() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	t, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		// Some dump rows carry a bare year
		t, err = time.Parse("2006", m.ReleaseDate[:4])
		if err != nil {
			return 0
		}
	}
	return t.Year()
}

// HasGenre reports whether the movie carries the given genre tag,
// case-insensitively.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// MovieFilters narrows a catalog listing.
type MovieFilters struct {
	// Search is a case-insensitive title substring.
	Search string `json:"search,omitempty"`

	// Genre requires an exact genre tag.
	Genre string `json:"genre,omitempty"`

	// Year requires a matching release year.
	Year int `json:"year,omitempty"`
}

// PaginationInfo describes a page of a catalog listing.
type PaginationInfo struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// MoviePage is one page of catalog results.
type MoviePage struct {
	Movies     []Movie        `json:"movies"`
	Pagination PaginationInfo `json:"pagination"`
}
