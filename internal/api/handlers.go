// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/filmkompass-team/filmkompass/internal/auth"
	"github.com/filmkompass-team/filmkompass/internal/cache"
	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/database"
	"github.com/filmkompass-team/filmkompass/internal/models"
	"github.com/filmkompass-team/filmkompass/internal/recommend"
)

// Handler holds the dependencies shared by all endpoint handlers.
type Handler struct {
	db       *database.DB
	auth     *auth.Service
	pipeline *recommend.Pipeline
	survey   *recommend.SurveyRecommender
	catalog  *cache.Cache
	cfg      *config.Config
	started  time.Time
}

// NewHandler constructs the shared handler. pipeline may be nil when AI
// recommendations are disabled; the endpoint then reports the upstream as
// unavailable.
func NewHandler(db *database.DB, authSvc *auth.Service, pipeline *recommend.Pipeline,
	survey *recommend.SurveyRecommender, catalog *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		db:       db,
		auth:     authSvc,
		pipeline: pipeline,
		survey:   survey,
		catalog:  catalog,
		cfg:      cfg,
		started:  time.Now(),
	}
}

// identity pulls the authenticated user from the request context. The auth
// middleware guarantees it is present on protected routes; a miss means a
// wiring bug, reported as 401 rather than a panic.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	id, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, models.CodeNotAuthenticated, "authentication required", nil)
		return nil, false
	}
	return id, true
}

// resolveMovies looks up catalog entries for a slice of ids, preserving
// order. Ids missing from the catalog are skipped rather than failing the
// whole response.
func (h *Handler) resolveMovies(r *http.Request, ids []int64) ([]models.Movie, error) {
	movies := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		movie, err := h.db.GetMovieByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, database.ErrMovieNotFound) {
				continue
			}
			return nil, err
		}
		movies = append(movies, *movie)
	}
	return movies, nil
}

// Health reports service liveness plus database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "down"
		code = http.StatusServiceUnavailable
	}

	respondSuccess(w, code, map[string]interface{}{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
