// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SubmitRating upserts a user's score for a movie.
func (db *DB) SubmitRating(ctx context.Context, userID string, movieID int64, score int) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO ratings (user_id, tmdb_id, rating, rated_at)
		VALUES (?, ?, ?, ?)`,
		userID, movieID, score, time.Now().UTC())
	if err != nil {
		return observe("insert", "ratings", start, fmt.Errorf("failed to submit rating: %w", err))
	}
	return observe("insert", "ratings", start, nil)
}

// GetUserRating returns a user's score for a movie. The bool is false when
// the movie has not been rated.
func (db *DB) GetUserRating(ctx context.Context, userID string, movieID int64) (int, bool, error) {
	start := time.Now()
	var score int
	err := db.conn.QueryRowContext(ctx,
		"SELECT rating FROM ratings WHERE user_id = ? AND tmdb_id = ?",
		userID, movieID).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("select", "ratings", start, nil)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, observe("select", "ratings", start, err)
	}
	_ = observe("select", "ratings", start, nil)
	return score, true, nil
}

// GetAllUserRatings returns every score a user has submitted, keyed by movie
// id. An unrated user gets an empty map.
func (db *DB) GetAllUserRatings(ctx context.Context, userID string) (map[int64]int, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		"SELECT tmdb_id, rating FROM ratings WHERE user_id = ? ORDER BY rated_at DESC",
		userID)
	if err != nil {
		return nil, observe("select", "ratings", start, fmt.Errorf("failed to read ratings: %w", err))
	}
	defer func() { _ = rows.Close() }()

	ratings := map[int64]int{}
	for rows.Next() {
		var (
			id    int64
			score int
		)
		if err := rows.Scan(&id, &score); err != nil {
			return nil, observe("select", "ratings", start, err)
		}
		ratings[id] = score
	}
	return ratings, observe("select", "ratings", start, rows.Err())
}
