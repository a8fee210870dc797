// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/auth"
	"github.com/filmkompass-team/filmkompass/internal/cache"
	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/database"
	"github.com/filmkompass-team/filmkompass/internal/generation"
	"github.com/filmkompass-team/filmkompass/internal/models"
	"github.com/filmkompass-team/filmkompass/internal/recommend"
)

// mockGenerator stands in for the hosted generation endpoint.
type mockGenerator struct {
	text  string
	err   error
	calls atomic.Int64
}

func (m *mockGenerator) Generate(_ context.Context, _ *generation.Request) (string, error) {
	m.calls.Add(1)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type testAPI struct {
	router http.Handler
	db     *database.DB
	gen    *mockGenerator
	token  string
	userID string
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:       "test-secret-key-0123456789abcdef-xyz",
			SessionTimeout:  time.Hour,
			RefreshTimeout:  24 * time.Hour,
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Recommend: config.RecommendConfig{
			Enabled:            true,
			MaxPreferenceItems: 20,
			ResolveConcurrency: 4,
			SurveyLimit:        20,
		},
	}
}

func intPtr(v int) *int { return &v }

func seedCatalog(t *testing.T, db *database.DB) {
	t.Helper()

	movies := []models.Movie{
		{
			TmdbID: 278, Title: "The Shawshank Redemption", ReleaseDate: "1994-09-23",
			Runtime: intPtr(142), Genres: []string{"Drama", "Crime"},
			Overview: "Two imprisoned men bond over a number of years.",
			VoteAverage: 8.7, VoteCount: 26000, Popularity: 88,
			SpokenLanguages: []string{"English"},
		},
		{
			TmdbID: 680, Title: "Pulp Fiction", ReleaseDate: "1994-09-10",
			Runtime: intPtr(154), Genres: []string{"Thriller", "Crime"},
			Overview: "The lives of two mob hitmen intertwine.",
			VoteAverage: 8.5, VoteCount: 25000, Popularity: 75,
			SpokenLanguages: []string{"English"},
		},
		{
			TmdbID: 129, Title: "Spirited Away", ReleaseDate: "2001-07-20",
			Runtime: intPtr(125), Genres: []string{"Animation", "Fantasy"},
			Overview: "A young girl wanders into a world of spirits.",
			VoteAverage: 8.5, VoteCount: 16000, Popularity: 60,
			SpokenLanguages: []string{"Japanese"},
		},
		{
			TmdbID: 9999, Title: "Short Cut", ReleaseDate: "2022-03-01",
			Runtime: intPtr(80), Genres: []string{"Comedy"},
			Overview: "A very brief caper.",
			VoteAverage: 6.1, VoteCount: 400, Popularity: 12,
			SpokenLanguages: []string{"German"},
		},
	}
	for i := range movies {
		if err := db.InsertMovie(context.Background(), &movies[i]); err != nil {
			t.Fatalf("failed to seed movie %d: %v", movies[i].TmdbID, err)
		}
	}
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	seedCatalog(t, db)

	cfg := testConfig()
	jwt, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("failed to build jwt manager: %v", err)
	}
	authSvc := auth.NewService(db, jwt, auth.NewMemorySessionStore(), &cfg.Security)

	gen := &mockGenerator{text: `["Shawshank", "Pulp Fiction"]`}
	aggregator := recommend.NewAggregator(db, db, cfg.Recommend.MaxPreferenceItems, cfg.Recommend.ResolveConcurrency)
	pipeline := recommend.NewPipeline(aggregator, gen, db, cache.NewRecommendationCache())
	survey := recommend.NewSurveyRecommender(db, cfg.Recommend.SurveyLimit)

	handler := NewHandler(db, authSvc, pipeline, survey, cache.New(time.Minute), cfg)
	router := NewRouter(handler, jwt, cfg).Setup()

	api := &testAPI{router: router, db: db, gen: gen}

	rec, env := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var pair auth.TokenPair
	if err := json.Unmarshal(env.Data, &pair); err != nil {
		t.Fatalf("failed to decode token pair: %v", err)
	}
	api.token = pair.AccessToken
	api.userID = pair.User.ID
	return api
}

// do sends a JSON request through the full router and decodes the envelope.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	env := &envelope{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), env); err != nil {
			t.Fatalf("%s %s: invalid envelope %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

// registerUser creates an extra account and returns its token and user id.
func (a *testAPI) registerUser(t *testing.T, username string) (token, userID string) {
	t.Helper()

	rec, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s returned %d: %s", username, rec.Code, rec.Body.String())
	}
	var pair auth.TokenPair
	if err := json.Unmarshal(env.Data, &pair); err != nil {
		t.Fatalf("failed to decode token pair: %v", err)
	}
	return pair.AccessToken, pair.User.ID
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, env *envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	if env.Status != "success" {
		t.Errorf("status = %q, want success", env.Status)
	}
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/movies"},
		{http.MethodGet, "/api/v1/friends"},
		{http.MethodPost, "/api/v1/recommendations/ai"},
	}
	for _, p := range paths {
		rec, env := api.do(t, p.method, p.path, "", nil)
		assertErrorCode(t, rec, env, http.StatusUnauthorized, models.CodeNotAuthenticated)
	}
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	// Duplicate username conflicts.
	rec, env := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "correct-horse-battery",
	})
	assertErrorCode(t, rec, env, http.StatusConflict, models.CodeConflict)

	// Wrong password.
	rec, env = api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong-password-guess",
	})
	assertErrorCode(t, rec, env, http.StatusUnauthorized, models.CodeNotAuthenticated)

	// Correct login.
	rec, env = api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "correct-horse-battery",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var pair auth.TokenPair
	if err := json.Unmarshal(env.Data, &pair); err != nil {
		t.Fatalf("failed to decode token pair: %v", err)
	}

	// Refresh rotates the session.
	rec, env = api.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh returned %d: %s", rec.Code, rec.Body.String())
	}
	var rotated auth.TokenPair
	if err := json.Unmarshal(env.Data, &rotated); err != nil {
		t.Fatalf("failed to decode rotated pair: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The old refresh token is dead after rotation.
	rec, env = api.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	assertErrorCode(t, rec, env, http.StatusUnauthorized, models.CodeNotAuthenticated)
}

func TestMe(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(t, http.MethodGet, "/api/v1/me", api.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me returned %d", rec.Code)
	}
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("failed to decode user: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}
	if bytes.Contains(env.Data, []byte("password")) {
		t.Error("password hash leaked in response")
	}
}

func TestListMovies(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(t, http.MethodGet, "/api/v1/movies?page=1&page_size=2", api.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("movies returned %d", rec.Code)
	}
	var page models.MoviePage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if len(page.Movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(page.Movies))
	}
	if page.Movies[0].TmdbID != 278 {
		t.Errorf("first movie = %d, want 278 (highest vote count)", page.Movies[0].TmdbID)
	}
	if page.Pagination.TotalItems != 4 || page.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v, want 4 items over 2 pages", page.Pagination)
	}

	// Search filter.
	_, env = api.do(t, http.MethodGet, "/api/v1/movies?search=spirited", api.token, nil)
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if len(page.Movies) != 1 || page.Movies[0].TmdbID != 129 {
		t.Errorf("search=spirited returned %+v, want only 129", page.Movies)
	}
}

func TestGetMovie(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(t, http.MethodGet, "/api/v1/movies/278", api.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("movie returned %d", rec.Code)
	}
	var movie models.Movie
	if err := json.Unmarshal(env.Data, &movie); err != nil {
		t.Fatalf("failed to decode movie: %v", err)
	}
	if movie.Title != "The Shawshank Redemption" {
		t.Errorf("title = %q", movie.Title)
	}

	rec, env = api.do(t, http.MethodGet, "/api/v1/movies/424242", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)

	rec, env = api.do(t, http.MethodGet, "/api/v1/movies/notanumber", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusBadRequest, models.CodeValidationError)
}

func TestMovieMetadataEndpoints(t *testing.T) {
	api := newTestAPI(t)

	_, env := api.do(t, http.MethodGet, "/api/v1/movies/genres", api.token, nil)
	var genres []string
	if err := json.Unmarshal(env.Data, &genres); err != nil {
		t.Fatalf("failed to decode genres: %v", err)
	}
	if len(genres) == 0 || genres[0] != "Animation" {
		t.Errorf("genres = %v, want sorted list starting with Animation", genres)
	}

	_, env = api.do(t, http.MethodGet, "/api/v1/movies/years", api.token, nil)
	var years []int
	if err := json.Unmarshal(env.Data, &years); err != nil {
		t.Fatalf("failed to decode years: %v", err)
	}
	if len(years) == 0 || years[0] != 2022 {
		t.Errorf("years = %v, want newest first", years)
	}

	rec, env := api.do(t, http.MethodGet, "/api/v1/movies/featured", api.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("featured returned %d", rec.Code)
	}
	var featured []models.Movie
	if err := json.Unmarshal(env.Data, &featured); err != nil {
		t.Fatalf("failed to decode featured: %v", err)
	}
	if len(featured) == 0 || featured[0].TmdbID != 278 {
		t.Errorf("featured = %v, want Shawshank first", featured)
	}
}

func TestWatchlistFlow(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodPost, "/api/v1/lists/favorites/278", api.token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add returned %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate add is idempotent.
	rec, _ = api.do(t, http.MethodPost, "/api/v1/lists/favorites/278", api.token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("duplicate add returned %d", rec.Code)
	}

	rec, env := api.do(t, http.MethodPost, "/api/v1/lists/favorites/424242", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)

	rec, env = api.do(t, http.MethodPost, "/api/v1/lists/bogus/278", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusBadRequest, models.CodeValidationError)

	_, env = api.do(t, http.MethodGet, "/api/v1/lists/favorites", api.token, nil)
	var movies []models.Movie
	if err := json.Unmarshal(env.Data, &movies); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(movies) != 1 || movies[0].TmdbID != 278 {
		t.Errorf("favorites = %+v, want exactly 278", movies)
	}
	if env.Metadata.Count != 1 {
		t.Errorf("metadata count = %d, want 1", env.Metadata.Count)
	}

	rec, _ = api.do(t, http.MethodDelete, "/api/v1/lists/favorites/278", api.token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove returned %d", rec.Code)
	}
	_, env = api.do(t, http.MethodGet, "/api/v1/lists/favorites", api.token, nil)
	if err := json.Unmarshal(env.Data, &movies); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("favorites after remove = %+v, want empty", movies)
	}
}

func TestRatings(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(t, http.MethodPut, "/api/v1/ratings/278", api.token, map[string]int{"score": 6})
	assertErrorCode(t, rec, env, http.StatusBadRequest, models.CodeValidationError)

	rec, _ = api.do(t, http.MethodPut, "/api/v1/ratings/278", api.token, map[string]int{"score": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("rating returned %d: %s", rec.Code, rec.Body.String())
	}

	// Upsert replaces the previous score.
	rec, _ = api.do(t, http.MethodPut, "/api/v1/ratings/278", api.token, map[string]int{"score": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("re-rating returned %d", rec.Code)
	}

	_, env = api.do(t, http.MethodGet, "/api/v1/ratings/278", api.token, nil)
	var single struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal(env.Data, &single); err != nil {
		t.Fatalf("failed to decode rating: %v", err)
	}
	if single.Score != 3 {
		t.Errorf("score = %d, want 3", single.Score)
	}

	rec, env = api.do(t, http.MethodGet, "/api/v1/ratings/680", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)

	_, env = api.do(t, http.MethodGet, "/api/v1/ratings", api.token, nil)
	var all map[string]int
	if err := json.Unmarshal(env.Data, &all); err != nil {
		t.Fatalf("failed to decode ratings: %v", err)
	}
	if all["278"] != 3 {
		t.Errorf("ratings = %v, want 278:3", all)
	}
}

func TestFriendsFlow(t *testing.T) {
	api := newTestAPI(t)
	bobToken, _ := api.registerUser(t, "bobby")

	// Search excludes the caller.
	_, env := api.do(t, http.MethodGet, "/api/v1/friends/search?q=bob", api.token, nil)
	var profiles []models.Profile
	if err := json.Unmarshal(env.Data, &profiles); err != nil {
		t.Fatalf("failed to decode profiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Username != "bobby" {
		t.Fatalf("search = %+v, want only bobby", profiles)
	}

	// No self-friending.
	rec, env := api.do(t, http.MethodPost, "/api/v1/friends/requests", api.token, map[string]string{"username": "alice"})
	assertErrorCode(t, rec, env, http.StatusBadRequest, models.CodeValidationError)

	rec, env = api.do(t, http.MethodPost, "/api/v1/friends/requests", api.token, map[string]string{"username": "bobby"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("friend request returned %d: %s", rec.Code, rec.Body.String())
	}
	var request models.FriendRequest
	if err := json.Unmarshal(env.Data, &request); err != nil {
		t.Fatalf("failed to decode request: %v", err)
	}

	// Duplicate request conflicts.
	rec, env = api.do(t, http.MethodPost, "/api/v1/friends/requests", api.token, map[string]string{"username": "bobby"})
	assertErrorCode(t, rec, env, http.StatusConflict, models.CodeConflict)

	// Only the receiver can accept.
	rec, env = api.do(t, http.MethodPost, "/api/v1/friends/requests/"+request.ID+"/accept", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)

	// The receiver sees it pending and accepts.
	_, env = api.do(t, http.MethodGet, "/api/v1/friends/requests", bobToken, nil)
	var pending []models.FriendRequest
	if err := json.Unmarshal(env.Data, &pending); err != nil {
		t.Fatalf("failed to decode pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %+v, want one request", pending)
	}
	rec, _ = api.do(t, http.MethodPost, "/api/v1/friends/requests/"+request.ID+"/accept", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept returned %d", rec.Code)
	}

	// Both sides see the friendship.
	for _, token := range []string{api.token, bobToken} {
		_, env = api.do(t, http.MethodGet, "/api/v1/friends", token, nil)
		var friends []models.Profile
		if err := json.Unmarshal(env.Data, &friends); err != nil {
			t.Fatalf("failed to decode friends: %v", err)
		}
		if len(friends) != 1 {
			t.Errorf("friends = %+v, want one entry", friends)
		}
	}
}

func TestUserListsFlow(t *testing.T) {
	api := newTestAPI(t)
	bobToken, _ := api.registerUser(t, "bobby")

	rec, env := api.do(t, http.MethodPost, "/api/v1/user-lists", api.token, map[string]string{"title": "Movie Night"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create list returned %d: %s", rec.Code, rec.Body.String())
	}
	var list models.CustomList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}

	// Non-members cannot see or modify the list.
	rec, env = api.do(t, http.MethodGet, "/api/v1/user-lists/"+list.ID, bobToken, nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)
	rec, env = api.do(t, http.MethodPost, "/api/v1/user-lists/"+list.ID+"/movies", bobToken, map[string]int64{"movie_id": 278})
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)

	// Collaborators must be friends first.
	rec, env = api.do(t, http.MethodPost, "/api/v1/user-lists/"+list.ID+"/collaborators", api.token, map[string]string{"username": "bobby"})
	assertErrorCode(t, rec, env, http.StatusBadRequest, models.CodeValidationError)

	// Make them friends, then invite.
	_, env = api.do(t, http.MethodPost, "/api/v1/friends/requests", api.token, map[string]string{"username": "bobby"})
	var request models.FriendRequest
	if err := json.Unmarshal(env.Data, &request); err != nil {
		t.Fatalf("failed to decode request: %v", err)
	}
	api.do(t, http.MethodPost, "/api/v1/friends/requests/"+request.ID+"/accept", bobToken, nil)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/user-lists/"+list.ID+"/collaborators", api.token, map[string]string{"username": "bobby"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add collaborator returned %d: %s", rec.Code, rec.Body.String())
	}

	// The collaborator can now add movies.
	rec, _ = api.do(t, http.MethodPost, "/api/v1/user-lists/"+list.ID+"/movies", bobToken, map[string]int64{"movie_id": 278})
	if rec.Code != http.StatusCreated {
		t.Fatalf("collaborator add returned %d: %s", rec.Code, rec.Body.String())
	}

	// Details include movies and collaborators, for both members.
	_, env = api.do(t, http.MethodGet, "/api/v1/user-lists/"+list.ID, bobToken, nil)
	var details models.CustomListDetails
	if err := json.Unmarshal(env.Data, &details); err != nil {
		t.Fatalf("failed to decode details: %v", err)
	}
	if len(details.Movies) != 1 || details.Movies[0].TmdbID != 278 {
		t.Errorf("details movies = %+v, want 278", details.Movies)
	}
	if len(details.Collaborators) != 1 {
		t.Errorf("collaborators = %+v, want one entry", details.Collaborators)
	}

	// The list shows up for both members.
	for _, token := range []string{api.token, bobToken} {
		_, env = api.do(t, http.MethodGet, "/api/v1/user-lists", token, nil)
		var lists []models.CustomList
		if err := json.Unmarshal(env.Data, &lists); err != nil {
			t.Fatalf("failed to decode lists: %v", err)
		}
		if len(lists) != 1 {
			t.Errorf("lists = %+v, want one entry", lists)
		}
	}
}

func TestSurveyFlow(t *testing.T) {
	api := newTestAPI(t)

	// No survey yet.
	rec, env := api.do(t, http.MethodGet, "/api/v1/survey", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)
	rec, env = api.do(t, http.MethodGet, "/api/v1/recommendations/survey", api.token, nil)
	assertErrorCode(t, rec, env, http.StatusNotFound, models.CodeNotFound)

	// Genres are required.
	rec, env = api.do(t, http.MethodPut, "/api/v1/survey", api.token, map[string]interface{}{
		"duration": "short",
	})
	assertErrorCode(t, rec, env, http.StatusBadRequest, models.CodeValidationError)

	rec, _ = api.do(t, http.MethodPut, "/api/v1/survey", api.token, map[string]interface{}{
		"genres":     []string{"Crime"},
		"duration":   "any",
		"region":     "any",
		"year":       "any",
		"popularity": "any",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save survey returned %d: %s", rec.Code, rec.Body.String())
	}

	_, env = api.do(t, http.MethodGet, "/api/v1/recommendations/survey", api.token, nil)
	var movies []models.Movie
	if err := json.Unmarshal(env.Data, &movies); err != nil {
		t.Fatalf("failed to decode recommendations: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d recommendations, want 2 crime movies", len(movies))
	}
	for _, m := range movies {
		if !m.HasGenre("Crime") {
			t.Errorf("movie %d lacks the Crime genre", m.TmdbID)
		}
	}
}

func TestAIRecommendations(t *testing.T) {
	api := newTestAPI(t)

	body := map[string]string{"query": "something gritty"}

	rec, env := api.do(t, http.MethodPost, "/api/v1/recommendations/ai", api.token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommend returned %d: %s", rec.Code, rec.Body.String())
	}
	var movies []models.Movie
	if err := json.Unmarshal(env.Data, &movies); err != nil {
		t.Fatalf("failed to decode movies: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(movies))
	}
	if env.Metadata.Cached {
		t.Error("first call reported as cached")
	}

	// The identical query is served from cache.
	_, env = api.do(t, http.MethodPost, "/api/v1/recommendations/ai", api.token, body)
	if !env.Metadata.Cached {
		t.Error("second call not served from cache")
	}
	if got := api.gen.calls.Load(); got != 1 {
		t.Errorf("generator calls = %d, want 1", got)
	}

	// Empty query fails validation.
	rec, env = api.do(t, http.MethodPost, "/api/v1/recommendations/ai", api.token, map[string]string{"query": ""})
	assertErrorCode(t, rec, env, http.StatusBadRequest, models.CodeValidationError)
}

func TestAIRecommendationsUpstreamErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unavailable", generation.ErrUpstreamUnavailable, http.StatusBadGateway, models.CodeUpstreamUnavailable},
		{"timeout", generation.ErrUpstreamTimeout, http.StatusGatewayTimeout, models.CodeUpstreamTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.gen.err = tc.err

			rec, env := api.do(t, http.MethodPost, "/api/v1/recommendations/ai", api.token,
				map[string]string{"query": fmt.Sprintf("query for %s", tc.name)})
			assertErrorCode(t, rec, env, tc.wantStatus, tc.wantCode)
		})
	}
}

func TestAIRecommendationsUnparseable(t *testing.T) {
	api := newTestAPI(t)
	api.gen.text = "no bracket and no quoted strings here"

	rec, env := api.do(t, http.MethodPost, "/api/v1/recommendations/ai", api.token,
		map[string]string{"query": "anything"})
	assertErrorCode(t, rec, env, http.StatusBadGateway, models.CodeUnparseableResponse)
}
