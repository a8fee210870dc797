// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filmkompass-team/filmkompass/internal/auth"
	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/middleware"
)

// authRateLimit bounds login and registration attempts per client IP.
// Deliberately stricter than the general API limit to slow down
// credential stuffing.
const (
	authRateLimit       = 10
	authRateLimitWindow = time.Minute
)

// Router wires handlers, middleware, and route groups into an http.Handler.
type Router struct {
	handler *Handler
	jwt     *auth.JWTManager
	cfg     *config.Config
}

// NewRouter constructs the API router.
func NewRouter(handler *Handler, jwt *auth.JWTManager, cfg *config.Config) *Router {
	return &Router{handler: handler, jwt: jwt, cfg: cfg}
}

// Setup builds the full route tree under /api/v1.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Compression)

	// Public endpoints. No auth, no rate limit beyond the listener.
	r.Get("/api/v1/health", rt.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints get a strict per-IP limit.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(authRateLimit, authRateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Post("/register", rt.handler.Register)
		r.Post("/login", rt.handler.Login)
		r.Post("/refresh", rt.handler.Refresh)
		r.Post("/logout", rt.handler.Logout)
	})

	// Everything else requires a valid bearer token.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(auth.Middleware(rt.jwt))

		r.Get("/me", rt.handler.Me)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", rt.handler.ListMovies)
			r.Get("/genres", rt.handler.MovieGenres)
			r.Get("/years", rt.handler.MovieYears)
			r.Get("/featured", rt.handler.FeaturedMovies)
			r.Get("/{movieID}", rt.handler.GetMovie)
		})

		r.Route("/lists/{kind}", func(r chi.Router) {
			r.Get("/", rt.handler.GetList)
			r.Post("/{movieID}", rt.handler.AddToList)
			r.Delete("/{movieID}", rt.handler.RemoveFromList)
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/", rt.handler.GetAllRatings)
			r.Get("/{movieID}", rt.handler.GetRating)
			r.Put("/{movieID}", rt.handler.SubmitRating)
		})

		r.Route("/user-lists", func(r chi.Router) {
			r.Get("/", rt.handler.GetUserLists)
			r.Post("/", rt.handler.CreateUserList)
			r.Get("/{id}", rt.handler.GetUserListDetails)
			r.Post("/{id}/movies", rt.handler.AddMovieToUserList)
			r.Post("/{id}/collaborators", rt.handler.AddCollaborator)
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", rt.handler.GetFriends)
			r.Get("/search", rt.handler.SearchUsers)
			r.Get("/requests", rt.handler.PendingFriendRequests)
			r.Post("/requests", rt.handler.SendFriendRequest)
			r.Post("/requests/{id}/accept", rt.handler.AcceptFriendRequest)
		})

		r.Put("/survey", rt.handler.SaveSurvey)
		r.Get("/survey", rt.handler.GetSurvey)
		r.Get("/recommendations/survey", rt.handler.SurveyRecommendations)
		r.Post("/recommendations/ai", rt.handler.AIRecommendations)
	})

	return r
}
