package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/models"
)

// WishlistService handles wishlist entries
type WishlistService struct {
	db *pgxpool.Pool
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(db *pgxpool.Pool) *WishlistService {
	return &WishlistService{db: db}
}

// Set adds a movie to the user's wishlist or re-tags the existing entry.
// Unique per (user, movie); re-adding updates the status.
func (s *WishlistService) Set(ctx context.Context, userID uuid.UUID, input models.WishInput) error {
	if input.MovieID == 0 {
		return apperr.Validation("movieId is required")
	}
	status := models.WishStatus(input.Status)
	if status == "" {
		status = models.WishStatusWant
	}
	if !status.IsValid() {
		return apperr.Validation("status must be one of want, watched, favorite")
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO wish (user_id, movie_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET status = EXCLUDED.status, created_at = NOW()`,
		userID, input.MovieID, status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.NotFound(apperr.CodeMovieNotFound, "movie not found")
		}
		return fmt.Errorf("failed to upsert wishlist entry: %w", err)
	}
	return nil
}

// Remove deletes a movie from the user's wishlist
func (s *WishlistService) Remove(ctx context.Context, userID uuid.UUID, movieID int64) error {
	_, err := s.db.Exec(ctx,
		"DELETE FROM wish WHERE user_id = $1 AND movie_id = $2", userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist entry: %w", err)
	}
	return nil
}

// Check reports whether a movie is on the user's wishlist and with what status
func (s *WishlistService) Check(ctx context.Context, userID uuid.UUID, movieID int64) (*models.WishCheck, error) {
	var status models.WishStatus
	err := s.db.QueryRow(ctx,
		"SELECT status FROM wish WHERE user_id = $1 AND movie_id = $2",
		userID, movieID).Scan(&status)
	if err == pgx.ErrNoRows {
		return &models.WishCheck{IsWished: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return &models.WishCheck{IsWished: true, Status: &status}, nil
}

// List retrieves the user's wishlist joined with movie display fields,
// optionally filtered by status, newest first
func (s *WishlistService) List(ctx context.Context, userID uuid.UUID, status string) ([]models.WishlistEntry, error) {
	query := `
		SELECT w.id, w.user_id, w.movie_id, w.status, w.created_at,
		       m.title, m.poster, m.rating, m.year, m.director
		FROM wish w
		LEFT JOIN movie m ON w.movie_id = m.id
		WHERE w.user_id = $1`
	args := []any{userID}

	if status != "" {
		if !models.WishStatus(status).IsValid() {
			return nil, apperr.Validation("status must be one of want, watched, favorite")
		}
		query += " AND w.status = $2"
		args = append(args, status)
	}
	query += " ORDER BY w.created_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WishlistEntry{}
	for rows.Next() {
		var e models.WishlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.MovieID, &e.Status, &e.CreatedAt,
			&e.Title, &e.Poster, &e.Rating, &e.Year, &e.Director); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}
	return entries, nil
}
