// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/models"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// Identity is the authenticated caller, injected into the request context by
// Middleware.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// UserFromContext returns the authenticated identity, or false when the
// request was not authenticated.
func UserFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(userContextKey).(*Identity)
	return id, ok
}

// ContextWithUser injects an identity. Exported for handler tests.
func ContextWithUser(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, userContextKey, id)
}

// Middleware authenticates Bearer tokens and injects the caller's identity.
// Requests without a valid token are rejected with 401 NOT_AUTHENTICATED.
func Middleware(jwtManager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondNotAuthenticated(w, "Missing authentication token")
				return
			}

			claims, err := jwtManager.ValidateToken(token)
			if err != nil {
				logging.Debug().Err(err).Str("path", r.URL.Path).Msg("Token rejected")
				respondNotAuthenticated(w, "Invalid or expired token")
				return
			}

			identity := &Identity{
				UserID:   claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), identity)))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func respondNotAuthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    models.CodeNotAuthenticated,
			Message: message,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
