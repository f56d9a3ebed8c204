package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/models"
)

// RatingService handles ratings and comments
type RatingService struct {
	db *pgxpool.Pool
}

// NewRatingService creates a new RatingService
func NewRatingService(db *pgxpool.Pool) *RatingService {
	return &RatingService{db: db}
}

// Rate upserts a user's rating for a movie and recomputes the movie's
// aggregate rating. Both statements run in one transaction so readers never
// observe a stale aggregate. Uniqueness per (user, movie) is enforced by the
// table constraint.
func (s *RatingService) Rate(ctx context.Context, userID uuid.UUID, input models.RateInput) error {
	if input.MovieID == 0 {
		return apperr.Validation("movieId is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return apperr.Validation("rating must be between 1 and 5")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO rate (user_id, movie_id, score, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = NOW()`,
		userID, input.MovieID, input.Rating, input.Comment)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.NotFound(apperr.CodeMovieNotFound, "movie not found")
		}
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	if err := recomputeAggregate(ctx, tx, input.MovieID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rating: %w", err)
	}
	return nil
}

// ListByMovie retrieves a movie's ratings, newest first
func (s *RatingService) ListByMovie(ctx context.Context, movieID int64, page, limit int) (*models.RatingList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM rate WHERE movie_id = $1", movieID).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.user_id, r.movie_id, r.score, r.comment, u.username, r.created_at, r.updated_at
		FROM rate r
		LEFT JOIN users u ON r.user_id = u.id
		WHERE r.movie_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`, movieID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	rates := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.UserID, &r.MovieID, &r.Score, &r.Comment,
			&r.Username, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		rates = append(rates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return &models.RatingList{
		Rates: rates,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// Delete removes the caller's own rating and recomputes the aggregate
func (s *RatingService) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var movieID int64
	err = tx.QueryRow(ctx,
		"DELETE FROM rate WHERE id = $1 AND user_id = $2 RETURNING movie_id",
		id, userID).Scan(&movieID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.NotFound(apperr.CodeNotFound, "rating not found")
		}
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	if err := recomputeAggregate(ctx, tx, movieID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rating delete: %w", err)
	}
	return nil
}

// recomputeAggregate sets movie.rating to the mean of its current ratings,
// rounded to the stored precision
func recomputeAggregate(ctx context.Context, tx pgx.Tx, movieID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE movie
		SET rating = COALESCE((SELECT ROUND(AVG(score), 1) FROM rate WHERE movie_id = $1), 0)
		WHERE id = $1`, movieID)
	if err != nil {
		return fmt.Errorf("failed to recompute aggregate rating: %w", err)
	}
	return nil
}
