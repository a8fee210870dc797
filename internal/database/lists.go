// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// AddToList adds a movie to one of the built-in watchlists. Adding a movie
// that is already present is a no-op, not an error.
func (db *DB) AddToList(ctx context.Context, userID string, movieID int64, kind models.ListKind) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_movie_lists (id, user_id, kind, tmdb_id, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, string(kind), movieID, time.Now().UTC())
	if err != nil {
		return observe("insert", "user_movie_lists", start, fmt.Errorf("failed to add to %s: %w", kind, err))
	}
	return observe("insert", "user_movie_lists", start, nil)
}

// RemoveFromList removes a movie from a watchlist. Removing an absent movie
// is a no-op.
func (db *DB) RemoveFromList(ctx context.Context, userID string, movieID int64, kind models.ListKind) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		"DELETE FROM user_movie_lists WHERE user_id = ? AND kind = ? AND tmdb_id = ?",
		userID, string(kind), movieID)
	if err != nil {
		return observe("delete", "user_movie_lists", start, fmt.Errorf("failed to remove from %s: %w", kind, err))
	}
	return observe("delete", "user_movie_lists", start, nil)
}

// GetListMovieIDs returns the movie ids on a watchlist, most recently added
// first. This is the preference aggregator's read path, so it must stay cheap.
func (db *DB) GetListMovieIDs(ctx context.Context, userID string, kind models.ListKind) ([]int64, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT tmdb_id FROM user_movie_lists
		WHERE user_id = ? AND kind = ?
		ORDER BY added_at DESC, tmdb_id ASC`,
		userID, string(kind))
	if err != nil {
		return nil, observe("select", "user_movie_lists", start, fmt.Errorf("failed to read %s: %w", kind, err))
	}
	defer func() { _ = rows.Close() }()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, observe("select", "user_movie_lists", start, err)
		}
		ids = append(ids, id)
	}
	return ids, observe("select", "user_movie_lists", start, rows.Err())
}

// CheckInList reports whether a movie is on a watchlist.
func (db *DB) CheckInList(ctx context.Context, userID string, movieID int64, kind models.ListKind) (bool, error) {
	start := time.Now()
	var n int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_movie_lists WHERE user_id = ? AND kind = ? AND tmdb_id = ?",
		userID, string(kind), movieID).Scan(&n)
	return n > 0, observe("select", "user_movie_lists", start, err)
}
