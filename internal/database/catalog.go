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
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/filmkompass-team/filmkompass/internal/models"
)

const movieColumns = `tmdb_id, imdb_id, title, release_date, runtime, genres,
	overview, vote_average, vote_count, popularity, poster_url, spoken_languages`

// scanMovie reads one movies row. Genres and spoken languages are stored as
// JSON text so they round-trip through database/sql without driver-specific
// array support.
func scanMovie(row interface{ Scan(...any) error }) (*models.Movie, error) {
	var (
		m         models.Movie
		imdbID    sql.NullString
		release   sql.NullString
		runtime   sql.NullInt32
		genres    string
		posterURL sql.NullString
		langs     string
	)
	if err := row.Scan(&m.TmdbID, &imdbID, &m.Title, &release, &runtime,
		&genres, &m.Overview, &m.VoteAverage, &m.VoteCount, &m.Popularity,
		&posterURL, &langs); err != nil {
		return nil, err
	}
	m.ImdbID = imdbID.String
	m.ReleaseDate = release.String
	if runtime.Valid {
		rt := int(runtime.Int32)
		m.Runtime = &rt
	}
	m.PosterURL = posterURL.String
	if err := json.Unmarshal([]byte(genres), &m.Genres); err != nil {
		return nil, fmt.Errorf("failed to decode genres for %d: %w", m.TmdbID, err)
	}
	if err := json.Unmarshal([]byte(langs), &m.SpokenLanguages); err != nil {
		return nil, fmt.Errorf("failed to decode languages for %d: %w", m.TmdbID, err)
	}
	return &m, nil
}

func collectMovies(rows *sql.Rows) ([]models.Movie, error) {
	defer func() { _ = rows.Close() }()
	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ListMovies returns a page of the catalog, most-voted first, optionally
// narrowed by title search, genre, or release year.
func (db *DB) ListMovies(ctx context.Context, filters models.MovieFilters, page, pageSize int) (*models.MoviePage, error) {
	start := time.Now()

	where := []string{"1=1"}
	args := []any{}

	if filters.Search != "" {
		where = append(where, `title ILIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filters.Search)+"%")
	}
	if filters.Genre != "" {
		// genres is a JSON array of strings; list_contains over the parsed
		// array keeps the match exact rather than substring-based.
		where = append(where, `list_contains(CAST(genres AS VARCHAR[]), ?)`)
		args = append(args, filters.Genre)
	}
	if filters.Year != 0 {
		where = append(where, `release_date LIKE ?`)
		args = append(args, fmt.Sprintf("%04d%%", filters.Year))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countErr := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies WHERE "+whereClause, args...).Scan(&total)
	if countErr != nil {
		return nil, observe("select", "movies", start, fmt.Errorf("failed to count movies: %w", countErr))
	}

	query := fmt.Sprintf(`SELECT %s FROM movies WHERE %s
		ORDER BY vote_count DESC, tmdb_id ASC LIMIT ? OFFSET ?`, movieColumns, whereClause)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, observe("select", "movies", start, fmt.Errorf("failed to list movies: %w", err))
	}
	movies, err := collectMovies(rows)
	if err != nil {
		return nil, observe("select", "movies", start, err)
	}
	_ = observe("select", "movies", start, nil)

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &models.MoviePage{
		Movies: movies,
		Pagination: models.PaginationInfo{
			CurrentPage:  page,
			ItemsPerPage: pageSize,
			TotalItems:   int(total),
			TotalPages:   totalPages,
		},
	}, nil
}

// GetMovieByID returns the catalog entry for a TMDB id, or ErrMovieNotFound.
func (db *DB) GetMovieByID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM movies WHERE tmdb_id = ?", movieColumns), tmdbID)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("select", "movies", start, nil)
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, observe("select", "movies", start, err)
	}
	_ = observe("select", "movies", start, nil)
	return m, nil
}

// SearchByTitleSubstring returns the single best catalog match for a
// case-insensitive substring of the title, or ErrMovieNotFound. Ties are
// broken by vote count so the match is deterministic.
func (db *DB) SearchByTitleSubstring(ctx context.Context, text string) (*models.Movie, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM movies WHERE title ILIKE ? ESCAPE '\'
		 ORDER BY vote_count DESC, tmdb_id ASC LIMIT 1`, movieColumns),
		"%"+escapeLike(text)+"%")
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("select", "movies", start, nil)
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, observe("select", "movies", start, err)
	}
	_ = observe("select", "movies", start, nil)
	return m, nil
}

// Genres returns the distinct genre names across the catalog, sorted.
func (db *DB) Genres(ctx context.Context) ([]string, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT genre FROM (
			SELECT unnest(CAST(genres AS VARCHAR[])) AS genre FROM movies
		) WHERE genre <> '' ORDER BY genre`)
	if err != nil {
		return nil, observe("select", "movies", start, fmt.Errorf("failed to list genres: %w", err))
	}
	defer func() { _ = rows.Close() }()

	genres := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, observe("select", "movies", start, err)
		}
		genres = append(genres, g)
	}
	return genres, observe("select", "movies", start, rows.Err())
}

// ReleaseYears returns the distinct release years in the catalog, newest first.
func (db *DB) ReleaseYears(ctx context.Context) ([]int, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT TRY_CAST(substr(release_date, 1, 4) AS INTEGER) AS year
		FROM movies
		WHERE release_date IS NOT NULL AND length(release_date) >= 4
			AND TRY_CAST(substr(release_date, 1, 4) AS INTEGER) > 1900
		ORDER BY year DESC`)
	if err != nil {
		return nil, observe("select", "movies", start, fmt.Errorf("failed to list years: %w", err))
	}
	defer func() { _ = rows.Close() }()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, observe("select", "movies", start, err)
		}
		years = append(years, y)
	}
	return years, observe("select", "movies", start, rows.Err())
}

// featuredTitles is the curated landing-page selection. Titles absent from
// the loaded catalog are skipped rather than erroring.
var featuredTitles = []string{
	"The Shawshank Redemption",
	"The Godfather",
	"The Dark Knight",
	"Pulp Fiction",
	"Inception",
	"Spirited Away",
	"Parasite",
	"Interstellar",
	"The Matrix",
	"Whiplash",
}

// FeaturedMovies resolves the curated featured titles against the catalog,
// preserving the curated order and skipping titles the catalog lacks.
func (db *DB) FeaturedMovies(ctx context.Context) ([]models.Movie, error) {
	start := time.Now()
	movies := []models.Movie{}
	for _, title := range featuredTitles {
		row := db.conn.QueryRowContext(ctx, fmt.Sprintf(
			`SELECT %s FROM movies WHERE lower(title) = lower(?)
			 ORDER BY vote_count DESC LIMIT 1`, movieColumns), title)
		m, err := scanMovie(row)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, observe("select", "movies", start, err)
		}
		movies = append(movies, *m)
	}
	return movies, observe("select", "movies", start, nil)
}

// AllMovies streams the full catalog. Used by the survey scorer, which ranks
// every entry against the stored answers.
func (db *DB) AllMovies(ctx context.Context) ([]models.Movie, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM movies ORDER BY vote_count DESC, tmdb_id ASC", movieColumns))
	if err != nil {
		return nil, observe("select", "movies", start, fmt.Errorf("failed to load catalog: %w", err))
	}
	movies, err := collectMovies(rows)
	return movies, observe("select", "movies", start, err)
}

// CountMovies reports the catalog size, used by health checks and startup
// logging to decide whether a seed import is needed.
func (db *DB) CountMovies(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&n)
	return n, observe("select", "movies", start, err)
}
