// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"net/http"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// AddToList adds a movie to one of the caller's watchlists. The movie must
// exist in the catalog. Duplicate adds are idempotent.
func (h *Handler) AddToList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	kind, ok := listKindParam(w, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	if _, err := h.db.GetMovieByID(r.Context(), movieID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := h.db.AddToList(r.Context(), id.UserID, movieID, kind); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"kind":     kind,
		"movie_id": movieID,
	})
}

// RemoveFromList removes a movie from a watchlist. Removing an absent entry
// is a no-op.
func (h *Handler) RemoveFromList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	kind, ok := listKindParam(w, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	if err := h.db.RemoveFromList(r.Context(), id.UserID, movieID, kind); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"kind":     kind,
		"movie_id": movieID,
	})
}

// GetList returns the resolved movies on one of the caller's watchlists,
// most recently added first. Ids no longer present in the catalog are
// skipped.
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	kind, ok := listKindParam(w, r)
	if !ok {
		return
	}

	ids, err := h.db.GetListMovieIDs(r.Context(), id.UserID, kind)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	movies, err := h.resolveMovies(r, ids)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, movies, len(movies))
}

// SubmitRating records a 1-5 score, replacing any previous score for the
// same movie.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	var req RateMovieRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.db.GetMovieByID(r.Context(), movieID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := h.db.SubmitRating(r.Context(), id.UserID, movieID, req.Score); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"movie_id": movieID,
		"score":    req.Score,
	})
}

// GetRating returns the caller's score for one movie, or 404 when unrated.
func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	score, found, err := h.db.GetUserRating(r.Context(), id.UserID, movieID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, models.CodeNotFound, "movie not rated", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"movie_id": movieID,
		"score":    score,
	})
}

// GetAllRatings returns every score the caller has submitted, keyed by
// movie id.
func (h *Handler) GetAllRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	ratings, err := h.db.GetAllUserRatings(r.Context(), id.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, ratings, len(ratings))
}
