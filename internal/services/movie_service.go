package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/database"
	"github.com/liamwears/moviehub/internal/models"
)

const movieColumns = `m.id, m.imdb_id, m.title, m.director, m.actors, m.genre_id, m.region,
		m.year, m.duration, m.description, m.poster, m.trailer, m.video_url, m.video_type,
		m.rating, m.views, m.status, m.created_at, m.updated_at`

const hotCacheKey = "movies:hot"

// hotCacheSize is how many rows the cached hot list holds; requests slice it
const hotCacheSize = 50

// MovieService handles catalog business logic
type MovieService struct {
	db     *pgxpool.Pool
	cache  *database.Cache
	logger *log.Logger
}

// NewMovieService creates a new MovieService. cache may be nil, in which case
// the hot list always hits the database.
func NewMovieService(db *pgxpool.Pool, cache *database.Cache, logger *log.Logger) *MovieService {
	return &MovieService{db: db, cache: cache, logger: logger}
}

func scanMovie(row pgx.Row, withGenreName bool) (*models.Movie, error) {
	var m models.Movie
	dest := []any{
		&m.ID, &m.ImdbID, &m.Title, &m.Director, &m.Actors, &m.GenreID, &m.Region,
		&m.Year, &m.Duration, &m.Description, &m.Poster, &m.Trailer, &m.VideoURL, &m.VideoType,
		&m.Rating, &m.Views, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	}
	if withGenreName {
		dest = append(dest, &m.GenreName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMovies(rows pgx.Rows, withGenreName bool) ([]models.Movie, error) {
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows, withGenreName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}
	return movies, nil
}

// List retrieves movies with pagination and filtering
func (s *MovieService) List(ctx context.Context, input models.ListMoviesInput) (*models.MovieList, error) {
	q := NewListingQuery(input)

	countSQL, countArgs := q.CountSQL()
	var total int
	if err := s.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}

	selectSQL, selectArgs := q.SelectSQL()
	rows, err := s.db.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	movies, err := collectMovies(rows, true)
	if err != nil {
		return nil, err
	}

	return &models.MovieList{
		Movies: movies,
		Pagination: models.Pagination{
			Page:       q.Page(),
			Limit:      q.Limit(),
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(q.Limit()))),
		},
	}, nil
}

// Detail retrieves a movie by ID with rating stats, latest comments and
// recommendations, and increments the view counter.
func (s *MovieService) Detail(ctx context.Context, id int64) (*models.MovieDetail, error) {
	query := `
		SELECT ` + movieColumns + `, g.name AS genre_name
		FROM movie m
		LEFT JOIN genre g ON m.genre_id = g.id
		WHERE m.id = $1`

	movie, err := scanMovie(s.db.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeMovieNotFound, "movie not found")
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	// Atomic increment, safe under concurrent detail views
	if _, err := s.db.Exec(ctx, "UPDATE movie SET views = views + 1 WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to increment views: %w", err)
	}

	detail := &models.MovieDetail{Movie: *movie}

	err = s.db.QueryRow(ctx,
		"SELECT COALESCE(ROUND(AVG(score), 1), 0), COUNT(*) FROM rate WHERE movie_id = $1", id,
	).Scan(&detail.AvgRating, &detail.RatingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating stats: %w", err)
	}

	commentRows, err := s.db.Query(ctx, `
		SELECT r.id, r.score, r.comment, u.username, r.created_at
		FROM rate r
		LEFT JOIN users u ON r.user_id = u.id
		WHERE r.movie_id = $1 AND r.comment IS NOT NULL
		ORDER BY r.created_at DESC
		LIMIT 10`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer commentRows.Close()

	detail.Comments = []models.Comment{}
	for commentRows.Next() {
		var c models.Comment
		if err := commentRows.Scan(&c.ID, &c.Rating, &c.Comment, &c.Username, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		detail.Comments = append(detail.Comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	recRows, err := s.db.Query(ctx, `
		SELECT `+movieColumns+`
		FROM movie m
		WHERE (m.genre_id = $1 OR m.director = $2) AND m.id != $3
		ORDER BY m.rating DESC, m.views DESC
		LIMIT 6`, movie.GenreID, movie.Director, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	detail.Recommendations, err = collectMovies(recRows, false)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// Hot retrieves the most-viewed movies, served from cache when possible
func (s *MovieService) Hot(ctx context.Context, limit int) ([]models.Movie, error) {
	if limit < 1 || limit > hotCacheSize {
		limit = 10
	}

	if s.cache != nil {
		var cached []models.Movie
		hit, err := s.cache.GetJSON(ctx, hotCacheKey, &cached)
		if err != nil {
			s.logger.Printf("hot movies cache read failed: %v", err)
		}
		if hit {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+movieColumns+`, g.name AS genre_name
		FROM movie m
		LEFT JOIN genre g ON m.genre_id = g.id
		ORDER BY m.views DESC, m.rating DESC
		LIMIT $1`, hotCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query hot movies: %w", err)
	}
	movies, err := collectMovies(rows, true)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, hotCacheKey, movies); err != nil {
			s.logger.Printf("hot movies cache write failed: %v", err)
		}
	}

	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies, nil
}

// Genres retrieves all genres ordered by name
func (s *MovieService) Genres(ctx context.Context) ([]models.Genre, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, description, created_at FROM genre ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genres: %w", err)
	}
	return genres, nil
}

// Create creates a new movie
func (s *MovieService) Create(ctx context.Context, input models.CreateMovieInput) (int64, error) {
	if input.Title == "" || input.Director == "" {
		return 0, apperr.Validation("title and director are required")
	}
	status := input.Status
	if status == "" {
		status = string(models.MovieStatusActive)
	}

	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO movie (
			title, director, actors, genre_id, region, year, duration,
			description, poster, trailer, video_url, status, rating, views
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, 0)
		RETURNING id`,
		input.Title, input.Director, input.Actors, input.GenreID, input.Region,
		input.Year, input.Duration, input.Description, input.Poster,
		input.Trailer, input.VideoURL, status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidateHot(ctx)
	return id, nil
}

// movieUpdateColumns maps update-input fields to their columns. Only listed
// columns can be touched.
func movieUpdateColumns(input models.UpdateMovieInput) (cols []string, vals []any) {
	set := func(col string, v any) {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Director != nil {
		set("director", *input.Director)
	}
	if input.Actors != nil {
		set("actors", *input.Actors)
	}
	if input.GenreID != nil {
		set("genre_id", *input.GenreID)
	}
	if input.Region != nil {
		set("region", *input.Region)
	}
	if input.Year != nil {
		set("year", *input.Year)
	}
	if input.Duration != nil {
		set("duration", *input.Duration)
	}
	if input.Description != nil {
		set("description", *input.Description)
	}
	if input.Poster != nil {
		set("poster", *input.Poster)
	}
	if input.Trailer != nil {
		set("trailer", *input.Trailer)
	}
	if input.VideoURL != nil {
		set("video_url", *input.VideoURL)
	}
	if input.VideoType != nil {
		set("video_type", *input.VideoType)
	}
	if input.Status != nil {
		set("status", *input.Status)
	}
	return cols, vals
}

// Update applies a partial movie update
func (s *MovieService) Update(ctx context.Context, id int64, input models.UpdateMovieInput) error {
	cols, vals := movieUpdateColumns(input)
	if len(cols) == 0 {
		return apperr.Validation("no fields to update")
	}

	query := "UPDATE movie SET updated_at = NOW()"
	for i, col := range cols {
		query += fmt.Sprintf(", %s = $%d", col, i+1)
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(cols)+1)
	vals = append(vals, id)

	result, err := s.db.Exec(ctx, query, vals...)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(apperr.CodeMovieNotFound, "movie not found")
	}

	s.invalidateHot(ctx)
	return nil
}

// Delete removes a movie and, via cascade, its ratings and wishlist entries
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	result, err := s.db.Exec(ctx, "DELETE FROM movie WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(apperr.CodeMovieNotFound, "movie not found")
	}

	s.invalidateHot(ctx)
	return nil
}

// CreateGenre creates a new genre with a unique name
func (s *MovieService) CreateGenre(ctx context.Context, input models.CreateGenreInput) (int64, error) {
	if input.Name == "" {
		return 0, apperr.Validation("genre name is required")
	}

	var id int64
	err := s.db.QueryRow(ctx,
		"INSERT INTO genre (name, description) VALUES ($1, $2) RETURNING id",
		input.Name, input.Description,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.Duplicate("genre already exists")
		}
		return 0, fmt.Errorf("failed to create genre: %w", err)
	}
	return id, nil
}

func (s *MovieService) invalidateHot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, hotCacheKey); err != nil {
		s.logger.Printf("hot movies cache invalidation failed: %v", err)
	}
}

// isUniqueViolation reports whether err is a postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a postgres foreign key error
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
