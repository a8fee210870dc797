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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

const userColumns = "id, username, email, avatar_url, role, password_hash, created_at"

// CreateUser stores a new account and returns it with its generated id.
// Usernames and emails are compared case-insensitively for uniqueness.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	start := time.Now()

	var existing int
	if err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE lower(username) = lower(?) OR lower(email) = lower(?)",
		username, email).Scan(&existing); err != nil {
		return nil, observe("select", "users", start, fmt.Errorf("failed to check username: %w", err))
	}
	if existing > 0 {
		_ = observe("select", "users", start, nil)
		return nil, ErrUsernameTaken
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Role:         "user",
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, username, email, avatar_url, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.AvatarURL, user.Role,
		user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, observe("insert", "users", start, fmt.Errorf("failed to create user: %w", err))
	}
	_ = observe("insert", "users", start, nil)
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.AvatarURL, &u.Role,
		&u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID returns the account for an id, or ErrUserNotFound.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	start := time.Now()
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, observe("select", "users", start, err)
	}
	_ = observe("select", "users", start, nil)
	return u, err
}

// GetUserByUsername returns the account for a username (case-insensitive),
// or ErrUserNotFound.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	start := time.Now()
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(username) = lower(?)", username))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, observe("select", "users", start, err)
	}
	_ = observe("select", "users", start, nil)
	return u, err
}

// FindProfileByUsername returns the public profile for an exact username
// match, for the collaborator picker.
func (db *DB) FindProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	u, err := db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &models.Profile{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}, nil
}

// SearchUsers finds accounts whose username contains the given text, for the
// friend-request picker. The caller is excluded from results.
func (db *DB) SearchUsers(ctx context.Context, selfID, text string, limit int) ([]models.Profile, error) {
	start := time.Now()
	pattern := "%" + escapeLike(strings.TrimSpace(text)) + "%"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, username, avatar_url FROM users
		WHERE id <> ? AND username ILIKE ? ESCAPE '\'
		ORDER BY username LIMIT ?`,
		selfID, pattern, limit)
	if err != nil {
		return nil, observe("select", "users", start, fmt.Errorf("failed to search users: %w", err))
	}
	defer func() { _ = rows.Close() }()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.AvatarURL); err != nil {
			return nil, observe("select", "users", start, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, observe("select", "users", start, rows.Err())
}
