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

	json "github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// SaveSurvey upserts the user's survey answers, stored as a JSON document so
// the answer shape can evolve without schema migrations.
func (db *DB) SaveSurvey(ctx context.Context, userID string, answers *models.SurveyAnswers) error {
	start := time.Now()
	doc, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode survey answers: %w", err)
	}
	_, err = db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO user_surveys (user_id, answers, updated_at)
		VALUES (?, ?, ?)`,
		userID, string(doc), time.Now().UTC())
	if err != nil {
		return observe("insert", "user_surveys", start, fmt.Errorf("failed to save survey: %w", err))
	}
	return observe("insert", "user_surveys", start, nil)
}

// GetSurvey returns the user's stored survey answers, or ErrNoSurvey.
func (db *DB) GetSurvey(ctx context.Context, userID string) (*models.SurveyAnswers, error) {
	start := time.Now()
	var doc string
	err := db.conn.QueryRowContext(ctx,
		"SELECT answers FROM user_surveys WHERE user_id = ?", userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("select", "user_surveys", start, nil)
		return nil, ErrNoSurvey
	}
	if err != nil {
		return nil, observe("select", "user_surveys", start, err)
	}
	_ = observe("select", "user_surveys", start, nil)

	var answers models.SurveyAnswers
	if err := json.Unmarshal([]byte(doc), &answers); err != nil {
		return nil, fmt.Errorf("failed to decode survey answers: %w", err)
	}
	return &answers, nil
}
