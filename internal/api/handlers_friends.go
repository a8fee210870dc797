// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// searchResultLimit caps user search responses.
const searchResultLimit = 20

// SearchUsers finds profiles by username substring. The caller is excluded
// from the results.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, models.CodeValidationError, "q parameter is required", nil)
		return
	}

	profiles, err := h.db.SearchUsers(r.Context(), id.UserID, query, searchResultLimit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, profiles, len(profiles))
}

// SendFriendRequest creates a pending friend request to another user.
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req FriendRequestBody
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.db.FindProfileByUsername(r.Context(), req.Username)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if profile.ID == id.UserID {
		respondError(w, http.StatusBadRequest, models.CodeValidationError,
			"cannot send a friend request to yourself", nil)
		return
	}

	request, err := h.db.SendFriendRequest(r.Context(), id.UserID, profile.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, request)
}

// AcceptFriendRequest accepts a pending request addressed to the caller.
func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	requestID := chi.URLParam(r, "id")
	if err := h.db.AcceptFriendRequest(r.Context(), requestID, id.UserID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"request_id": requestID, "status": "accepted"})
}

// PendingFriendRequests returns requests awaiting the caller's decision.
func (h *Handler) PendingFriendRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	requests, err := h.db.PendingFriendRequests(r.Context(), id.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, requests, len(requests))
}

// GetFriends returns the caller's accepted friends as profiles.
func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	friends, err := h.db.GetFriends(r.Context(), id.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, friends, len(friends))
}
