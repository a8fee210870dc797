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

// ErrAlreadyFriends indicates a friend edge already exists in either
// direction, pending or accepted.
var ErrAlreadyFriends = errors.New("friend request already exists")

// SendFriendRequest creates a pending friend edge from sender to receiver.
// A duplicate edge in either direction is rejected.
func (db *DB) SendFriendRequest(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	start := time.Now()

	var existing int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM friend_requests
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)`,
		senderID, receiverID, receiverID, senderID).Scan(&existing)
	if err != nil {
		return nil, observe("select", "friend_requests", start, fmt.Errorf("failed to check friend edge: %w", err))
	}
	if existing > 0 {
		_ = observe("select", "friend_requests", start, nil)
		return nil, ErrAlreadyFriends
	}

	req := &models.FriendRequest{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendPending,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		req.ID, req.SenderID, req.ReceiverID, string(req.Status), req.CreatedAt)
	if err != nil {
		return nil, observe("insert", "friend_requests", start, fmt.Errorf("failed to create friend request: %w", err))
	}
	_ = observe("insert", "friend_requests", start, nil)
	return req, nil
}

// AcceptFriendRequest marks a pending request accepted. Only the receiver may
// accept. ErrRequestNotFound covers both an unknown id and a request addressed
// to someone else, so callers cannot probe for other users' requests.
func (db *DB) AcceptFriendRequest(ctx context.Context, requestID, receiverID string) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE friend_requests SET status = ?
		WHERE id = ? AND receiver_id = ? AND status = ?`,
		string(models.FriendAccepted), requestID, receiverID, string(models.FriendPending))
	if err != nil {
		return observe("update", "friend_requests", start, fmt.Errorf("failed to accept friend request: %w", err))
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		_ = observe("update", "friend_requests", start, nil)
		return ErrRequestNotFound
	}
	return observe("update", "friend_requests", start, nil)
}

// PendingFriendRequests returns requests awaiting the user's response.
func (db *DB) PendingFriendRequests(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, status, created_at
		FROM friend_requests
		WHERE receiver_id = ? AND status = ?
		ORDER BY created_at DESC`,
		userID, string(models.FriendPending))
	if err != nil {
		return nil, observe("select", "friend_requests", start, fmt.Errorf("failed to read friend requests: %w", err))
	}
	defer func() { _ = rows.Close() }()

	requests := []models.FriendRequest{}
	for rows.Next() {
		var (
			r      models.FriendRequest
			status string
		)
		if err := rows.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &status, &r.CreatedAt); err != nil {
			return nil, observe("select", "friend_requests", start, err)
		}
		r.Status = models.FriendStatus(status)
		requests = append(requests, r)
	}
	return requests, observe("select", "friend_requests", start, rows.Err())
}

// GetFriends returns the profiles of everyone the user has an accepted edge
// with, in either direction.
func (db *DB) GetFriends(ctx context.Context, userID string) ([]models.Profile, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.avatar_url
		FROM users u
		JOIN friend_requests f
			ON (f.sender_id = ? AND f.receiver_id = u.id)
			OR (f.receiver_id = ? AND f.sender_id = u.id)
		WHERE f.status = ?
		ORDER BY u.username`,
		userID, userID, string(models.FriendAccepted))
	if err != nil {
		return nil, observe("select", "friend_requests", start, fmt.Errorf("failed to read friends: %w", err))
	}
	defer func() { _ = rows.Close() }()

	friends := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.AvatarURL); err != nil {
			return nil, observe("select", "friend_requests", start, err)
		}
		friends = append(friends, p)
	}
	return friends, observe("select", "friend_requests", start, rows.Err())
}

// AreFriends reports whether two users share an accepted edge.
func (db *DB) AreFriends(ctx context.Context, a, b string) (bool, error) {
	start := time.Now()
	var n int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM friend_requests
		WHERE status = ?
		AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))`,
		string(models.FriendAccepted), a, b, b, a).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, observe("select", "friend_requests", start, err)
	}
	_ = observe("select", "friend_requests", start, nil)
	return n > 0, nil
}
