// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

// Package api provides the HTTP layer: chi routing, request decoding,
// the standardized response envelope, and handlers for every endpoint.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/auth"
	"github.com/filmkompass-team/filmkompass/internal/database"
	"github.com/filmkompass-team/filmkompass/internal/generation"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/models"
	"github.com/filmkompass-team/filmkompass/internal/recommend"
)

// respondJSON writes the standardized envelope with the given status code.
func respondJSON(w http.ResponseWriter, status int, resp *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Err(err).Msg("Failed to encode response")
	}
}

// respondSuccess writes a success envelope around data.
func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// respondList writes a success envelope with the item count in metadata.
func respondList(w http.ResponseWriter, data interface{}, count int) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Count:     count,
		},
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondServiceError maps service-layer sentinel errors to HTTP status
// codes and envelope error codes. Unknown errors become 500 INTERNAL_ERROR
// with the detail kept out of the response body.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrMovieNotFound),
		errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrListNotFound),
		errors.Is(err, database.ErrNotListMember),
		errors.Is(err, database.ErrRequestNotFound),
		errors.Is(err, database.ErrNoSurvey):
		respondError(w, http.StatusNotFound, models.CodeNotFound, err.Error(), nil)

	case errors.Is(err, database.ErrUsernameTaken),
		errors.Is(err, database.ErrAlreadyFriends):
		respondError(w, http.StatusConflict, models.CodeConflict, err.Error(), nil)

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionNotFound):
		respondError(w, http.StatusUnauthorized, models.CodeNotAuthenticated, "invalid credentials", nil)

	case errors.Is(err, generation.ErrUpstreamTimeout):
		respondError(w, http.StatusGatewayTimeout, models.CodeUpstreamTimeout, "recommendation service timed out", nil)

	case errors.Is(err, generation.ErrUpstreamUnavailable):
		respondError(w, http.StatusBadGateway, models.CodeUpstreamUnavailable, "recommendation service unavailable", nil)

	case errors.Is(err, recommend.ErrUnparseableRecommendation):
		respondError(w, http.StatusBadGateway, models.CodeUnparseableResponse, "could not interpret the recommendation response", nil)

	default:
		logging.Err(err).Str("path", r.URL.Path).Msg("Unhandled service error")
		respondError(w, http.StatusInternalServerError, models.CodeInternalError, "internal server error", nil)
	}
}
