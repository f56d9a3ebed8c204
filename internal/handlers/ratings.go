package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/liamwears/moviehub/internal/middleware"
	"github.com/liamwears/moviehub/internal/models"
)

// RatingStore is the rating operations used by the rating routes
type RatingStore interface {
	Rate(ctx context.Context, userID uuid.UUID, input models.RateInput) error
	ListByMovie(ctx context.Context, movieID int64, page, limit int) (*models.RatingList, error)
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
}

// RatingHandler handles rating and comment requests
type RatingHandler struct {
	ratings RatingStore
	logger  *log.Logger
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratings RatingStore, logger *log.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, logger: logger}
}

// Create handles POST /rates. A second submission for the same movie by the
// same user overwrites the first.
func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	var input models.RateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	if err := h.ratings.Rate(r.Context(), userID, input); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "rating saved", nil)
}

// ListByMovie handles GET /rates/movie/{movieId}
func (h *RatingHandler) ListByMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(r, "movieId")
	if !ok {
		respondValidation(w, "invalid movie id")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.ratings.ListByMovie(r.Context(), movieID, page, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /rates/{id}; users may only delete their own rating
func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		respondValidation(w, "invalid rating id")
		return
	}

	if err := h.ratings.Delete(r.Context(), id, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "rating deleted", nil)
}
