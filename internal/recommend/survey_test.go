// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package recommend

import (
	"context"
	"testing"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

func surveyCatalog() *mockCatalog {
	return &mockCatalog{movies: []models.Movie{
		{TmdbID: 1, Title: "Modern Hit", ReleaseDate: "2022-05-01", Runtime: intPtr(110),
			Genres: []string{"Drama", "Thriller"}, VoteCount: 9000, Popularity: 80,
			SpokenLanguages: []string{"English"}},
		{TmdbID: 2, Title: "Old Classic", ReleaseDate: "1972-03-14", Runtime: intPtr(175),
			Genres: []string{"Drama", "Crime"}, VoteCount: 18000, Popularity: 60,
			SpokenLanguages: []string{"English"}},
		{TmdbID: 3, Title: "Nineties Gem", ReleaseDate: "1994-09-23", Runtime: intPtr(100),
			Genres: []string{"Drama"}, VoteCount: 12000, Popularity: 30,
			SpokenLanguages: []string{"English"}},
		{TmdbID: 4, Title: "Tokyo Story Now", ReleaseDate: "2021-01-01", Runtime: intPtr(95),
			Genres: []string{"Drama"}, VoteCount: 4000, Popularity: 20,
			SpokenLanguages: []string{"Japanese"}},
		{TmdbID: 5, Title: "Space Comedy", ReleaseDate: "2023-07-04", Runtime: intPtr(88),
			Genres: []string{"Comedy", "Science Fiction"}, VoteCount: 2000, Popularity: 90,
			SpokenLanguages: []string{"English"}},
	}}
}

func TestSurveyGenreFilterAndRanking(t *testing.T) {
	r := NewSurveyRecommender(surveyCatalog(), 20)

	got, err := r.Recommend(context.Background(), &models.SurveyAnswers{
		Genres: []string{"Drama", "Crime"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Comedy is out; the rest carry Drama. Old Classic overlaps both wanted
	// genres so it ranks first despite Modern Hit's recency.
	if len(got) != 4 {
		t.Fatalf("got %d movies, want 4", len(got))
	}
	if got[0].TmdbID != 2 {
		t.Errorf("top pick = %d, want 2 (highest genre overlap)", got[0].TmdbID)
	}
	// Equal overlap falls back to vote count.
	if got[1].TmdbID != 3 || got[2].TmdbID != 1 {
		t.Errorf("order = %d,%d, want 3,1 (vote count desc)", got[1].TmdbID, got[2].TmdbID)
	}
}

func TestSurveyAnyGenrePassesAll(t *testing.T) {
	r := NewSurveyRecommender(surveyCatalog(), 20)
	got, err := r.Recommend(context.Background(), &models.SurveyAnswers{
		Genres: []string{"any"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("got %d movies, want all 5", len(got))
	}
}

func TestSurveyYearBands(t *testing.T) {
	r := NewSurveyRecommender(surveyCatalog(), 20)
	tests := []struct {
		band models.YearBand
		want []int64
	}{
		{band: models.Year2020s, want: []int64{1, 4, 5}},
		{band: models.Year2000s, want: []int64{}},
		{band: models.Year80s90s, want: []int64{3}},
		{band: models.YearClassic, want: []int64{2}},
	}
	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			got, err := r.Recommend(context.Background(), &models.SurveyAnswers{
				Genres: []string{"any"},
				Year:   tt.band,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("band %s: got %d movies, want %d", tt.band, len(got), len(tt.want))
			}
			seen := map[int64]bool{}
			for _, m := range got {
				seen[m.TmdbID] = true
			}
			for _, id := range tt.want {
				if !seen[id] {
					t.Errorf("band %s missing movie %d", tt.band, id)
				}
			}
		})
	}
}

func TestSurveyDurationBand(t *testing.T) {
	r := NewSurveyRecommender(surveyCatalog(), 20)
	got, err := r.Recommend(context.Background(), &models.SurveyAnswers{
		Genres:   []string{"any"},
		Duration: models.DurationMedium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 90-120: Modern Hit (110), Nineties Gem (100), Tokyo Story Now (95).
	if len(got) != 3 {
		t.Errorf("got %d movies, want 3", len(got))
	}
}

func TestSurveyRegion(t *testing.T) {
	r := NewSurveyRecommender(surveyCatalog(), 20)

	asia, err := r.Recommend(context.Background(), &models.SurveyAnswers{
		Genres: []string{"any"},
		Region: models.RegionAsia,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(asia) != 1 || asia[0].TmdbID != 4 {
		t.Errorf("asia = %v, want [4]", asia)
	}

	world, err := r.Recommend(context.Background(), &models.SurveyAnswers{
		Genres: []string{"any"},
		Region: models.RegionWorld,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(world) != 1 || world[0].TmdbID != 4 {
		t.Errorf("world cinema = %v, want [4] (non-English)", world)
	}
}

func TestSurveyPopularityHalves(t *testing.T) {
	r := NewSurveyRecommender(surveyCatalog(), 20)

	high, err := r.Recommend(context.Background(), &models.SurveyAnswers{
		Genres:     []string{"any"},
		Popularity: models.PopularityHigh,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	low, err := r.Recommend(context.Background(), &models.SurveyAnswers{
		Genres:     []string{"any"},
		Popularity: models.PopularityLow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(high)+len(low) != 5 {
		t.Errorf("high(%d) + low(%d) != 5, halves must partition", len(high), len(low))
	}
	for _, m := range high {
		if m.Popularity < 60 {
			t.Errorf("movie %d (pop %v) in high half", m.TmdbID, m.Popularity)
		}
	}
}

func TestSurveyLimit(t *testing.T) {
	r := NewSurveyRecommender(surveyCatalog(), 2)
	got, err := r.Recommend(context.Background(), &models.SurveyAnswers{Genres: []string{"any"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d movies, want limit 2", len(got))
	}
}
