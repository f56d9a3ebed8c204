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

// UserDirectory is the account operations used by the user routes
type UserDirectory interface {
	Register(ctx context.Context, input models.RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, input models.LoginInput) (*models.LoginResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input models.UpdateProfileInput) error
}

// UserHandler handles registration, login and profile requests
type UserHandler struct {
	users  UserDirectory
	logger *log.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserDirectory, logger *log.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Register handles POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	id, err := h.users.Register(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusCreated, "registration successful", map[string]any{"userId": id})
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	result, err := h.users.Login(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "login successful", result)
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, errUnauthorized())
		return
	}

	var input models.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	if err := h.users.UpdateProfile(r.Context(), userID, input); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "profile updated", nil)
}
