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

	"github.com/google/uuid"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// CreateCustomList creates an empty shared list owned by the given user.
func (db *DB) CreateCustomList(ctx context.Context, ownerID, title string) (*models.CustomList, error) {
	start := time.Now()
	list := &models.CustomList{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_lists (id, owner_id, title, created_at)
		VALUES (?, ?, ?, ?)`,
		list.ID, list.OwnerID, list.Title, list.CreatedAt)
	if err != nil {
		return nil, observe("insert", "user_lists", start, fmt.Errorf("failed to create list: %w", err))
	}
	_ = observe("insert", "user_lists", start, nil)
	return list, nil
}

// GetMyLists returns lists the user owns or collaborates on, newest first.
func (db *DB) GetMyLists(ctx context.Context, userID string) ([]models.CustomList, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT l.id, l.owner_id, l.title, l.created_at
		FROM user_lists l
		LEFT JOIN user_list_collaborators c ON c.list_id = l.id
		WHERE l.owner_id = ? OR c.user_id = ?
		ORDER BY l.created_at DESC, l.id ASC`,
		userID, userID)
	if err != nil {
		return nil, observe("select", "user_lists", start, fmt.Errorf("failed to read lists: %w", err))
	}
	defer func() { _ = rows.Close() }()

	lists := []models.CustomList{}
	for rows.Next() {
		var l models.CustomList
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &l.CreatedAt); err != nil {
			return nil, observe("select", "user_lists", start, err)
		}
		lists = append(lists, l)
	}
	return lists, observe("select", "user_lists", start, rows.Err())
}

// getCustomList loads the list row, or ErrListNotFound.
func (db *DB) getCustomList(ctx context.Context, listID string) (*models.CustomList, error) {
	var l models.CustomList
	err := db.conn.QueryRowContext(ctx,
		"SELECT id, owner_id, title, created_at FROM user_lists WHERE id = ?",
		listID).Scan(&l.ID, &l.OwnerID, &l.Title, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// isListMember reports whether the user owns or collaborates on the list.
func (db *DB) isListMember(ctx context.Context, list *models.CustomList, userID string) (bool, error) {
	if list.OwnerID == userID {
		return true, nil
	}
	var n int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_list_collaborators WHERE list_id = ? AND user_id = ?",
		list.ID, userID).Scan(&n)
	return n > 0, err
}

// AddMovieToCustomList adds a movie to a shared list. The caller must be the
// owner or a collaborator. Re-adding a movie already on the list is a no-op.
func (db *DB) AddMovieToCustomList(ctx context.Context, listID, userID string, movieID int64) error {
	start := time.Now()
	list, err := db.getCustomList(ctx, listID)
	if err != nil {
		return observeNotFound("select", "user_lists", start, err)
	}
	member, err := db.isListMember(ctx, list, userID)
	if err != nil {
		return observe("select", "user_list_collaborators", start, err)
	}
	if !member {
		_ = observe("select", "user_list_collaborators", start, nil)
		return ErrNotListMember
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_list_movies (list_id, tmdb_id, added_by, added_at)
		VALUES (?, ?, ?, ?)`,
		listID, movieID, userID, time.Now().UTC())
	if err != nil {
		return observe("insert", "user_list_movies", start, fmt.Errorf("failed to add movie to list: %w", err))
	}
	return observe("insert", "user_list_movies", start, nil)
}

// AddCollaborator grants a user edit access to a list. Only the owner may add
// collaborators. Adding an existing collaborator is a no-op.
func (db *DB) AddCollaborator(ctx context.Context, listID, ownerID, collaboratorID string) error {
	start := time.Now()
	list, err := db.getCustomList(ctx, listID)
	if err != nil {
		return observeNotFound("select", "user_lists", start, err)
	}
	if list.OwnerID != ownerID {
		_ = observe("select", "user_lists", start, nil)
		return ErrNotListMember
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_list_collaborators (list_id, user_id, added_at)
		VALUES (?, ?, ?)`,
		listID, collaboratorID, time.Now().UTC())
	if err != nil {
		return observe("insert", "user_list_collaborators", start, fmt.Errorf("failed to add collaborator: %w", err))
	}
	return observe("insert", "user_list_collaborators", start, nil)
}

// GetCustomListDetails returns a list with its movies and collaborators
// resolved. The caller must be the owner or a collaborator.
func (db *DB) GetCustomListDetails(ctx context.Context, listID, userID string) (*models.CustomListDetails, error) {
	start := time.Now()
	list, err := db.getCustomList(ctx, listID)
	if err != nil {
		return nil, observeNotFound("select", "user_lists", start, err)
	}
	member, err := db.isListMember(ctx, list, userID)
	if err != nil {
		return nil, observe("select", "user_list_collaborators", start, err)
	}
	if !member {
		_ = observe("select", "user_list_collaborators", start, nil)
		return nil, ErrNotListMember
	}

	movieRows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM movies m
		JOIN user_list_movies lm ON lm.tmdb_id = m.tmdb_id
		WHERE lm.list_id = ?
		ORDER BY lm.added_at ASC, m.tmdb_id ASC`, prefixedMovieColumns("m")),
		listID)
	if err != nil {
		return nil, observe("select", "user_list_movies", start, fmt.Errorf("failed to read list movies: %w", err))
	}
	movies, err := collectMovies(movieRows)
	if err != nil {
		return nil, observe("select", "user_list_movies", start, err)
	}

	collabRows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.avatar_url
		FROM users u
		JOIN user_list_collaborators c ON c.user_id = u.id
		WHERE c.list_id = ?
		ORDER BY c.added_at ASC`,
		listID)
	if err != nil {
		return nil, observe("select", "user_list_collaborators", start, fmt.Errorf("failed to read collaborators: %w", err))
	}
	defer func() { _ = collabRows.Close() }()

	collaborators := []models.Profile{}
	for collabRows.Next() {
		var p models.Profile
		if err := collabRows.Scan(&p.ID, &p.Username, &p.AvatarURL); err != nil {
			return nil, observe("select", "user_list_collaborators", start, err)
		}
		collaborators = append(collaborators, p)
	}
	if err := collabRows.Err(); err != nil {
		return nil, observe("select", "user_list_collaborators", start, err)
	}
	_ = observe("select", "user_lists", start, nil)

	return &models.CustomListDetails{
		CustomList:    *list,
		Movies:        movies,
		Collaborators: collaborators,
	}, nil
}

// observeNotFound records metrics without counting not-found as a query error.
func observeNotFound(operation, table string, start time.Time, err error) error {
	if errors.Is(err, ErrListNotFound) || errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrMovieNotFound) || errors.Is(err, ErrRequestNotFound) {
		_ = observe(operation, table, start, nil)
		return err
	}
	return observe(operation, table, start, err)
}

// prefixedMovieColumns qualifies the movie column list with a table alias for
// joined queries.
func prefixedMovieColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.tmdb_id, %[1]s.imdb_id, %[1]s.title, %[1]s.release_date,
		%[1]s.runtime, %[1]s.genres, %[1]s.overview, %[1]s.vote_average,
		%[1]s.vote_count, %[1]s.popularity, %[1]s.poster_url, %[1]s.spoken_languages`, alias)
}
