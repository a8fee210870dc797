// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/models"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// login failures do not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the account persistence the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user,omitempty"`
}

// Service implements register, login, and refresh-token rotation.
type Service struct {
	users    UserStore
	jwt      *JWTManager
	sessions SessionStore
	cfg      config.SecurityConfig
}

// NewService wires the auth service.
func NewService(users UserStore, jwt *JWTManager, sessions SessionStore, cfg *config.SecurityConfig) *Service {
	return &Service{
		users:    users,
		jwt:      jwt,
		sessions: sessions,
		cfg:      *cfg,
	}
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, username, email, password string) (*TokenPair, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}

	logging.Info().Str("user_id", user.ID).Msg("User registered")
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		// Hash anyway to keep response timing independent of account existence.
		_ = CheckPassword("$2a$10$0000000000000000000000uGZwLV3eUkiVHpGeWY0olcsLCGK2Bqq", password)
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a refresh session id for a new token pair. The old
// session is deleted first so a stolen refresh token works at most once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	session, err := s.sessions.Get(ctx, refreshToken)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh session.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Delete(ctx, refreshToken)
}

func (s *Service) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	session := NewSession(user.ID, user.Username, user.Role, s.cfg.RefreshTimeout)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: session.ID,
		User:         user,
	}, nil
}
