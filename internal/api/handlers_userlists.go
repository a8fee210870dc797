// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

// CreateUserList creates a custom shared list owned by the caller.
func (h *Handler) CreateUserList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req CreateListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	list, err := h.db.CreateCustomList(r.Context(), id.UserID, req.Title)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, list)
}

// GetUserLists returns every custom list the caller owns or collaborates on.
func (h *Handler) GetUserLists(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	lists, err := h.db.GetMyLists(r.Context(), id.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, lists, len(lists))
}

// GetUserListDetails returns a list with its movies and collaborators.
// Non-members get 404 so list ids cannot be probed.
func (h *Handler) GetUserListDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	details, err := h.db.GetCustomListDetails(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, details)
}

// AddMovieToUserList adds a catalog movie to a custom list. Owner and
// collaborators may add.
func (h *Handler) AddMovieToUserList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req AddListMovieRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.db.GetMovieByID(r.Context(), req.MovieID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	listID := chi.URLParam(r, "id")
	if err := h.db.AddMovieToCustomList(r.Context(), listID, id.UserID, req.MovieID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"list_id":  listID,
		"movie_id": req.MovieID,
	})
}

// AddCollaborator invites a friend onto a custom list. Only the owner may
// invite, and only users who are already friends with the owner.
func (h *Handler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req AddCollaboratorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.db.FindProfileByUsername(r.Context(), req.Username)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	friends, err := h.db.AreFriends(r.Context(), id.UserID, profile.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !friends {
		respondError(w, http.StatusBadRequest, models.CodeValidationError,
			"collaborators must be friends first", nil)
		return
	}

	listID := chi.URLParam(r, "id")
	if err := h.db.AddCollaborator(r.Context(), listID, id.UserID, profile.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"list_id":      listID,
		"collaborator": profile.Username,
	})
}
