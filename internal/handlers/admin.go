package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/liamwears/moviehub/internal/models"
)

// CatalogAdmin is the write side of the catalog used by admin routes
type CatalogAdmin interface {
	Create(ctx context.Context, input models.CreateMovieInput) (int64, error)
	Update(ctx context.Context, id int64, input models.UpdateMovieInput) error
	Delete(ctx context.Context, id int64) error
	CreateGenre(ctx context.Context, input models.CreateGenreInput) (int64, error)
}

// AdminDirectory is the user-administration operations used by admin routes
type AdminDirectory interface {
	ListUsers(ctx context.Context, input models.ListUsersInput) (*models.UserList, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// AdminHandler handles catalog management and statistics. Routes using it
// are gated behind the admin role.
type AdminHandler struct {
	catalog CatalogAdmin
	users   AdminDirectory
	logger  *log.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(catalog CatalogAdmin, users AdminDirectory, logger *log.Logger) *AdminHandler {
	return &AdminHandler{catalog: catalog, users: users, logger: logger}
}

// CreateMovie handles POST /admin/movies
func (h *AdminHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input models.CreateMovieInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	id, err := h.catalog.Create(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusCreated, "movie created", map[string]any{"movieId": id})
}

// UpdateMovie handles PUT /admin/movies/{id}
func (h *AdminHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondValidation(w, "invalid movie id")
		return
	}

	var input models.UpdateMovieInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	if err := h.catalog.Update(r.Context(), id, input); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "movie updated", nil)
}

// DeleteMovie handles DELETE /admin/movies/{id}
func (h *AdminHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondValidation(w, "invalid movie id")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "movie deleted", nil)
}

// CreateGenre handles POST /admin/genres
func (h *AdminHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var input models.CreateGenreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	id, err := h.catalog.CreateGenre(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusCreated, "genre created", map[string]any{"genreId": id})
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := models.ListUsersInput{Role: query.Get("role")}
	input.Page, _ = strconv.Atoi(query.Get("page"))
	input.Limit, _ = strconv.Atoi(query.Get("limit"))

	result, err := h.users.ListUsers(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
