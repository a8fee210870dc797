// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

// Package database wraps DuckDB and provides all data access for FilmKompass:
// the read-only movie catalog plus per-user watchlists, ratings, custom lists,
// friends, and survey answers.
//
// The catalog's title search uses DuckDB's ILIKE for the case-insensitive
// substring matching the recommendation pipeline's title resolution depends on.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/metrics"
)

// Sentinel errors returned by data access methods.
var (
	// ErrMovieNotFound indicates no catalog row matched the lookup.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrUserNotFound indicates no account matched the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates a registration conflict.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrListNotFound indicates no custom list matched the lookup.
	ErrListNotFound = errors.New("list not found")

	// ErrNotListMember indicates the caller is neither owner nor collaborator.
	ErrNotListMember = errors.New("not a member of this list")

	// ErrRequestNotFound indicates no friend request matched the lookup.
	ErrRequestNotFound = errors.New("friend request not found")

	// ErrNoSurvey indicates the user has not submitted survey answers yet.
	ErrNoSurvey = errors.New("no survey answers stored")
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New creates a new database connection and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for the database file.
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301.
	if cfg.Path != ":memory:" {
		if dbDir := filepath.Dir(cfg.Path); dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load of extensions to prevent hangs in
	// restricted network environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	// DuckDB is an in-process engine; keep the pool bounded to its worker
	// thread count.
	conn.SetMaxOpenConns(numThreads)
	conn.SetMaxIdleConns(numThreads)
	conn.SetConnMaxLifetime(0)

	if err := db.initSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("Database opened")

	return db, nil
}

// NewInMemory creates an in-memory database for tests.
func NewInMemory() (*DB, error) {
	return New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	})
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// observe records query metrics and returns the original error for chaining.
func observe(operation, table string, start time.Time, err error) error {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
	return err
}
