// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package database

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/models"
)

// schemaStatements are executed in order on startup. DuckDB applies
// IF NOT EXISTS so startup is idempotent across restarts.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		tmdb_id BIGINT PRIMARY KEY,
		imdb_id VARCHAR,
		title VARCHAR NOT NULL,
		release_date VARCHAR,
		runtime INTEGER,
		genres VARCHAR NOT NULL DEFAULT '[]',
		overview VARCHAR NOT NULL DEFAULT '',
		vote_average DOUBLE NOT NULL DEFAULT 0,
		vote_count BIGINT NOT NULL DEFAULT 0,
		popularity DOUBLE NOT NULL DEFAULT 0,
		poster_url VARCHAR,
		spoken_languages VARCHAR NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR PRIMARY KEY,
		username VARCHAR NOT NULL UNIQUE,
		email VARCHAR NOT NULL UNIQUE,
		avatar_url VARCHAR NOT NULL DEFAULT '',
		role VARCHAR NOT NULL DEFAULT 'user',
		password_hash VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_movie_lists (
		id VARCHAR NOT NULL,
		user_id VARCHAR NOT NULL,
		kind VARCHAR NOT NULL,
		tmdb_id BIGINT NOT NULL,
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, kind, tmdb_id)
	)`,

	`CREATE TABLE IF NOT EXISTS ratings (
		user_id VARCHAR NOT NULL,
		tmdb_id BIGINT NOT NULL,
		rating INTEGER NOT NULL,
		rated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, tmdb_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_lists (
		id VARCHAR PRIMARY KEY,
		owner_id VARCHAR NOT NULL,
		title VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_list_movies (
		list_id VARCHAR NOT NULL,
		tmdb_id BIGINT NOT NULL,
		added_by VARCHAR NOT NULL,
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (list_id, tmdb_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_list_collaborators (
		list_id VARCHAR NOT NULL,
		user_id VARCHAR NOT NULL,
		added_at TIMESTAMP NOT NULL,
		PRIMARY KEY (list_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS friend_requests (
		id VARCHAR PRIMARY KEY,
		sender_id VARCHAR NOT NULL,
		receiver_id VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (sender_id, receiver_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_surveys (
		user_id VARCHAR PRIMARY KEY,
		answers VARCHAR NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

func (db *DB) initSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

// seedMovie is the wire shape of one catalog entry in the seed file.
type seedMovie struct {
	TmdbID          int64    `json:"tmdb_id"`
	ImdbID          string   `json:"imdb_id"`
	Title           string   `json:"title"`
	ReleaseDate     string   `json:"release_date"`
	Runtime         *int     `json:"runtime"`
	Genres          []string `json:"genres"`
	Overview        string   `json:"overview"`
	VoteAverage     float64  `json:"vote_average"`
	VoteCount       int64    `json:"vote_count"`
	Popularity      float64  `json:"popularity"`
	PosterURL       string   `json:"poster_url"`
	SpokenLanguages []string `json:"spoken_languages"`
}

// ImportCatalog loads the movie catalog from a JSON seed file. Existing rows
// with the same tmdb_id are replaced, so re-importing an updated seed is safe.
// Entries without a title or with a non-positive tmdb_id are skipped.
func (db *DB) ImportCatalog(ctx context.Context, path string) (int, error) {
	start := time.Now()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog seed: %w", err)
	}

	var seeds []seedMovie
	if err := json.Unmarshal(data, &seeds); err != nil {
		return 0, fmt.Errorf("failed to parse catalog seed: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO movies
			(tmdb_id, imdb_id, title, release_date, runtime, genres, overview,
			 vote_average, vote_count, popularity, poster_url, spoken_languages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare import statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	imported := 0
	skipped := 0
	for _, s := range seeds {
		if s.TmdbID <= 0 || s.Title == "" {
			skipped++
			continue
		}
		genres, err := json.Marshal(nonNil(s.Genres))
		if err != nil {
			return imported, fmt.Errorf("failed to encode genres for %d: %w", s.TmdbID, err)
		}
		langs, err := json.Marshal(nonNil(s.SpokenLanguages))
		if err != nil {
			return imported, fmt.Errorf("failed to encode languages for %d: %w", s.TmdbID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			s.TmdbID, s.ImdbID, s.Title, s.ReleaseDate, s.Runtime,
			string(genres), s.Overview, s.VoteAverage, s.VoteCount,
			s.Popularity, s.PosterURL, string(langs),
		); err != nil {
			return imported, fmt.Errorf("failed to insert movie %d: %w", s.TmdbID, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return imported, fmt.Errorf("failed to commit import: %w", err)
	}

	logging.Info().
		Int("imported", imported).
		Int("skipped", skipped).
		Dur("duration", time.Since(start)).
		Msg("Catalog import complete")

	return imported, nil
}

// InsertMovie adds or replaces a single catalog row. Used by tests and
// incremental catalog updates.
func (db *DB) InsertMovie(ctx context.Context, m *models.Movie) error {
	start := time.Now()
	genres, err := json.Marshal(nonNil(m.Genres))
	if err != nil {
		return fmt.Errorf("failed to encode genres: %w", err)
	}
	langs, err := json.Marshal(nonNil(m.SpokenLanguages))
	if err != nil {
		return fmt.Errorf("failed to encode languages: %w", err)
	}
	_, err = db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO movies
			(tmdb_id, imdb_id, title, release_date, runtime, genres, overview,
			 vote_average, vote_count, popularity, poster_url, spoken_languages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.TmdbID, m.ImdbID, m.Title, m.ReleaseDate, m.Runtime,
		string(genres), m.Overview, m.VoteAverage, m.VoteCount,
		m.Popularity, m.PosterURL, string(langs))
	return observe("insert", "movies", start, err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
