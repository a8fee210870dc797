// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package generation

import (
	"fmt"
	"strings"
)

// PreferenceEntry is one resolved movie from the user's taste profile.
// Score is only meaningful for rated entries.
type PreferenceEntry struct {
	Title    string   `json:"title"`
	Genres   []string `json:"genres"`
	Overview string   `json:"overview"`
	Score    int      `json:"rating,omitempty"`
}

// Request carries the user's free-text query plus their aggregated
// preferences into a single generation call.
type Request struct {
	Query     string            `json:"userQuery"`
	Favorites []PreferenceEntry `json:"favorites"`
	Watched   []PreferenceEntry `json:"watched"`
	Ratings   []PreferenceEntry `json:"ratings"`
}

const systemPrompt = "You are a helpful movie recommendation assistant. " +
	"Always respond with a valid JSON array of movie titles."

// BuildPrompt renders the user prompt. Empty preference sections become
// explicit "No ... yet." lines rather than being omitted, so the model always
// sees all three sections.
func BuildPrompt(req *Request) string {
	favoritesText := "No favorite movies yet."
	if len(req.Favorites) > 0 {
		favoritesText = "Favorites movies: " + joinTitles(req.Favorites)
	}

	watchedText := "No watched movies yet."
	if len(req.Watched) > 0 {
		watchedText = "Watched movies: " + joinTitles(req.Watched)
	}

	ratingsText := "No rated movies yet."
	if len(req.Ratings) > 0 {
		rated := make([]string, len(req.Ratings))
		for i, r := range req.Ratings {
			rated[i] = fmt.Sprintf("%s (%d/5)", r.Title, r.Score)
		}
		ratingsText = "Rated movies: " + strings.Join(rated, ", ")
	}

	return fmt.Sprintf(`You are a movie recommendation assistant. Based on the user's request and their movie preferences, suggest 10-15 specific movie titles.

User Request: "%s"

User's Movie Preferences:
%s
%s
%s

Based on this information, recommend 10-15 specific movie titles that match the user's request and align with their preferences. Return ONLY a JSON array of movie titles, nothing else. Example format: ["Movie Title 1", "Movie Title 2", "Movie Title 3"]`,
		req.Query, favoritesText, watchedText, ratingsText)
}

func joinTitles(entries []PreferenceEntry) string {
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	return strings.Join(titles, ", ")
}
