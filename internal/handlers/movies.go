package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/liamwears/moviehub/internal/models"
)

// MovieCatalog is the read side of the catalog used by public movie routes
type MovieCatalog interface {
	List(ctx context.Context, input models.ListMoviesInput) (*models.MovieList, error)
	Detail(ctx context.Context, id int64) (*models.MovieDetail, error)
	Hot(ctx context.Context, limit int) ([]models.Movie, error)
	Genres(ctx context.Context) ([]models.Genre, error)
}

// MovieHandler handles public movie requests
type MovieHandler struct {
	catalog MovieCatalog
	logger  *log.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(catalog MovieCatalog, logger *log.Logger) *MovieHandler {
	return &MovieHandler{catalog: catalog, logger: logger}
}

// List handles GET /movies
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := models.ListMoviesInput{
		Region:  query.Get("region"),
		Keyword: query.Get("keyword"),
		Sort:    query.Get("sort"),
		Order:   query.Get("order"),
	}
	if v, err := strconv.ParseInt(query.Get("genre"), 10, 64); err == nil {
		input.GenreID = &v
	}
	if v, err := strconv.Atoi(query.Get("year")); err == nil {
		input.Year = &v
	}
	// Non-numeric page/limit fall back to the builder defaults
	input.Page, _ = strconv.Atoi(query.Get("page"))
	input.Limit, _ = strconv.Atoi(query.Get("limit"))

	result, err := h.catalog.List(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Detail handles GET /movies/{id}
func (h *MovieHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondValidation(w, "invalid movie id")
		return
	}

	detail, err := h.catalog.Detail(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// Genres handles GET /movies/genres/list
func (h *MovieHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.Genres(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, genres)
}

// Hot handles GET /movies/hot/list
func (h *MovieHandler) Hot(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	movies, err := h.catalog.Hot(r.Context(), limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, movies)
}
