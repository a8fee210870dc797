// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

// FilmKompass serves the movie catalog, social lists, and recommendation
// API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filmkompass-team/filmkompass/internal/api"
	"github.com/filmkompass-team/filmkompass/internal/auth"
	"github.com/filmkompass-team/filmkompass/internal/cache"
	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/database"
	"github.com/filmkompass-team/filmkompass/internal/generation"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("ai_recommendations", cfg.Recommend.Enabled).
		Msg("Starting FilmKompass")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := seedCatalog(db, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed catalog")
	}

	jwt, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token signing")
	}

	sessions, err := auth.NewSessionStore(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	authSvc := auth.NewService(db, jwt, sessions, &cfg.Security)

	var pipeline *recommend.Pipeline
	if cfg.Recommend.Enabled {
		aggregator := recommend.NewAggregator(db, db,
			cfg.Recommend.MaxPreferenceItems, cfg.Recommend.ResolveConcurrency)
		pipeline = recommend.NewPipeline(aggregator, generation.NewClient(&cfg.Groq),
			db, cache.NewRecommendationCache())
		logging.Info().Str("model", cfg.Groq.Model).Msg("AI recommendation pipeline enabled")
	} else {
		logging.Info().Msg("AI recommendations disabled")
	}

	survey := recommend.NewSurveyRecommender(db, cfg.Recommend.SurveyLimit)
	catalogCache := cache.New(5 * time.Minute)

	handler := api.NewHandler(db, authSvc, pipeline, survey, catalogCache, cfg)
	router := api.NewRouter(handler, jwt, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	} else {
		logging.Info().Msg("Server stopped")
	}
}

// seedCatalog imports the configured JSON movie dump on first start. The
// import is skipped when the movies table already has rows, so restarts do
// not re-read the dump.
func seedCatalog(db *database.DB, cfg *config.Config) error {
	if cfg.Catalog.SeedPath == "" {
		return nil
	}

	ctx := context.Background()
	count, err := db.CountMovies(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logging.Info().Int64("movies", count).Msg("Catalog already seeded")
		return nil
	}

	imported, err := db.ImportCatalog(ctx, cfg.Catalog.SeedPath)
	if err != nil {
		return err
	}
	logging.Info().Int("movies", imported).Str("path", cfg.Catalog.SeedPath).Msg("Catalog seeded")
	return nil
}
