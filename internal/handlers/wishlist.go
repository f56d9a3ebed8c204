package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/liamwears/moviehub/internal/middleware"
	"github.com/liamwears/moviehub/internal/models"
)

// WishlistStore is the wishlist operations used by the wishlist routes
type WishlistStore interface {
	Set(ctx context.Context, userID uuid.UUID, input models.WishInput) error
	Remove(ctx context.Context, userID uuid.UUID, movieID int64) error
	Check(ctx context.Context, userID uuid.UUID, movieID int64) (*models.WishCheck, error)
	List(ctx context.Context, userID uuid.UUID, status string) ([]models.WishlistEntry, error)
}

// WishlistHandler handles wishlist requests
type WishlistHandler struct {
	wishlist WishlistStore
	logger   *log.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlist WishlistStore, logger *log.Logger) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, logger: logger}
}

// Add handles POST /wishlist; re-adding an entry updates its status
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	var input models.WishInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	if err := h.wishlist.Set(r.Context(), userID, input); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "added to wishlist", nil)
}

// Remove handles DELETE /wishlist/{movieId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	movieID, ok := pathID(r, "movieId")
	if !ok {
		respondValidation(w, "invalid movie id")
		return
	}

	if err := h.wishlist.Remove(r.Context(), userID, movieID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "removed from wishlist", nil)
}

// Check handles GET /wishlist/check/{movieId}
func (h *WishlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	movieID, ok := pathID(r, "movieId")
	if !ok {
		respondValidation(w, "invalid movie id")
		return
	}

	check, err := h.wishlist.Check(r.Context(), userID, movieID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, check)
}

// List handles GET /wishlist, optionally filtered by status
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	entries, err := h.wishlist.List(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
