// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/models"
	"github.com/filmkompass-team/filmkompass/internal/validation"
)

// maxBodyBytes caps request bodies. Survey answers and recommendation
// queries are small; anything larger is abuse.
const maxBodyBytes = 64 << 10

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,uuid4"`
}

// CreateListRequest is the body for POST /user-lists.
type CreateListRequest struct {
	Title string `json:"title" validate:"required,min=1,max=120"`
}

// AddListMovieRequest is the body for POST /user-lists/{id}/movies.
type AddListMovieRequest struct {
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}

// AddCollaboratorRequest is the body for POST /user-lists/{id}/collaborators.
type AddCollaboratorRequest struct {
	Username string `json:"username" validate:"required"`
}

// FriendRequestBody is the body for POST /friends/requests.
type FriendRequestBody struct {
	Username string `json:"username" validate:"required"`
}

// RateMovieRequest is the body for PUT /ratings/{movieID}.
type RateMovieRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

// RecommendRequest is the body for POST /recommendations/ai.
type RecommendRequest struct {
	Query string `json:"query" validate:"required,min=1,max=500"`
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// On failure it writes the 400 response itself and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, "invalid JSON body", nil)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// movieIDParam parses the {movieID} URL parameter. On failure it writes the
// 400 response itself and returns false.
func movieIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "movieID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, "movieID must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// listKindParam parses and validates the {kind} URL parameter.
func listKindParam(w http.ResponseWriter, r *http.Request) (models.ListKind, bool) {
	kind := models.ListKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		respondError(w, http.StatusBadRequest, models.CodeValidationError,
			"kind must be one of favorites, watched, wishlist", nil)
		return "", false
	}
	return kind, true
}

// pagination extracts page/page_size query parameters, applying the
// configured defaults and upper bound. Invalid values fall back to defaults
// rather than erroring.
func pagination(r *http.Request, cfg *config.APIConfig) (page, pageSize int) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	pageSize = cfg.DefaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			pageSize = n
		}
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	return page, pageSize
}

// movieFilters extracts catalog filter query parameters.
func movieFilters(r *http.Request) models.MovieFilters {
	q := r.URL.Query()
	filters := models.MovieFilters{
		Search: q.Get("search"),
		Genre:  q.Get("genre"),
	}
	if raw := q.Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			filters.Year = year
		}
	}
	return filters
}
