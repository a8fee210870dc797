// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"net/http"
	"time"

	"github.com/filmkompass-team/filmkompass/internal/cache"
	"github.com/filmkompass-team/filmkompass/internal/models"
)

// ListMovies returns a filtered, paginated catalog page sorted by vote count.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	filters := movieFilters(r)
	page, pageSize := pagination(r, &h.cfg.API)

	key := cache.GenerateKey("movies.list", struct {
		Filters  models.MovieFilters `json:"filters"`
		Page     int                 `json:"page"`
		PageSize int                 `json:"page_size"`
	}{filters, page, pageSize})
	if cached, ok := h.catalog.Get(key); ok {
		result := cached.(*models.MoviePage)
		respondList(w, result, len(result.Movies))
		return
	}

	result, err := h.db.ListMovies(r.Context(), filters, page, pageSize)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.catalog.Set(key, result)
	respondList(w, result, len(result.Movies))
}

// GetMovie returns a single catalog entry by tmdb id.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	movie, err := h.db.GetMovieByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, movie)
}

// MovieGenres returns the sorted distinct genre names in the catalog.
// The catalog is immutable at runtime, so the long cache TTL is safe.
func (h *Handler) MovieGenres(w http.ResponseWriter, r *http.Request) {
	key := cache.GenerateKey("movies.genres", nil)
	if cached, ok := h.catalog.Get(key); ok {
		genres := cached.([]string)
		respondList(w, genres, len(genres))
		return
	}

	genres, err := h.db.Genres(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.catalog.SetWithTTL(key, genres, time.Hour)
	respondList(w, genres, len(genres))
}

// MovieYears returns the distinct release years, newest first.
func (h *Handler) MovieYears(w http.ResponseWriter, r *http.Request) {
	key := cache.GenerateKey("movies.years", nil)
	if cached, ok := h.catalog.Get(key); ok {
		years := cached.([]int)
		respondList(w, years, len(years))
		return
	}

	years, err := h.db.ReleaseYears(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.catalog.SetWithTTL(key, years, time.Hour)
	respondList(w, years, len(years))
}

// FeaturedMovies returns the curated landing-page selection.
func (h *Handler) FeaturedMovies(w http.ResponseWriter, r *http.Request) {
	key := cache.GenerateKey("movies.featured", nil)
	if cached, ok := h.catalog.Get(key); ok {
		movies := cached.([]models.Movie)
		respondList(w, movies, len(movies))
		return
	}

	movies, err := h.db.FeaturedMovies(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	h.catalog.SetWithTTL(key, movies, time.Hour)
	respondList(w, movies, len(movies))
}
