// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package models

import "time"

// User is an account row. PasswordHash never leaves the database layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public subset of a user exposed to other users
// (friend search, collaborator lookup).
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ListKind identifies one of the three built-in watchlists.
type ListKind string

const (
	ListFavorites ListKind = "favorites"
	ListWatched   ListKind = "watched"
	ListWishlist  ListKind = "wishlist"
)

// Valid reports whether k names a built-in watchlist.
func (k ListKind) Valid() bool {
	switch k {
	case ListFavorites, ListWatched, ListWishlist:
		return true
	}
	return false
}

// UserMovieList is a watchlist membership row.
type UserMovieList struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	MovieID int64     `json:"movie_id"`
	Kind    ListKind  `json:"list_type"`
	AddedAt time.Time `json:"added_at"`
}

// Rating is a per-user movie score (1-5).
type Rating struct {
	UserID  string    `json:"user_id"`
	MovieID int64     `json:"movie_id"`
	Score   int       `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// CustomList is a user-created, shareable movie list.
type CustomList struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomListDetails is a custom list with its members resolved.
type CustomListDetails struct {
	CustomList
	Movies        []Movie   `json:"movies"`
	Collaborators []Profile `json:"collaborators"`
}

// FriendStatus is the state of a friend edge.
type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
)

// FriendRequest is a directed friend edge.
type FriendRequest struct {
	ID         string       `json:"id"`
	SenderID   string       `json:"sender_id"`
	ReceiverID string       `json:"receiver_id"`
	Status     FriendStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}
