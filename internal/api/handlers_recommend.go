// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"net/http"
	"time"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// SaveSurvey stores the caller's taste-survey answers, replacing any
// previous answers.
func (h *Handler) SaveSurvey(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var answers models.SurveyAnswers
	if !decodeAndValidate(w, r, &answers) {
		return
	}

	if err := h.db.SaveSurvey(r.Context(), id.UserID, &answers); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, &answers)
}

// GetSurvey returns the caller's stored survey answers, or 404 when the
// survey has not been taken.
func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	answers, err := h.db.GetSurvey(r.Context(), id.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, answers)
}

// SurveyRecommendations ranks the catalog against the caller's stored
// survey answers.
func (h *Handler) SurveyRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	answers, err := h.db.GetSurvey(r.Context(), id.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	movies, err := h.survey.Recommend(r.Context(), answers)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, movies, len(movies))
}

// AIRecommendations runs the full generation pipeline for a free-text
// query. Repeated identical queries are served from the recommendation
// cache without another upstream call.
func (h *Handler) AIRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	if h.pipeline == nil {
		respondError(w, http.StatusBadGateway, models.CodeUpstreamUnavailable,
			"AI recommendations are not enabled", nil)
		return
	}

	var req RecommendRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.pipeline.Recommend(r.Context(), id.UserID, req.Query)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result.Movies,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Count:     len(result.Movies),
			Cached:    result.Cached,
		},
	})
}
