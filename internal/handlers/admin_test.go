package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/models"
)

type stubAdminCatalog struct {
	createInput models.CreateMovieInput
	createID    int64
	createErr   error

	updateID    int64
	updateInput models.UpdateMovieInput
	updateErr   error

	deleteID  int64
	deleteErr error

	genreInput models.CreateGenreInput
	genreID    int64
}

func (s *stubAdminCatalog) Create(ctx context.Context, input models.CreateMovieInput) (int64, error) {
	s.createInput = input
	return s.createID, s.createErr
}

func (s *stubAdminCatalog) Update(ctx context.Context, id int64, input models.UpdateMovieInput) error {
	s.updateID = id
	s.updateInput = input
	return s.updateErr
}

func (s *stubAdminCatalog) Delete(ctx context.Context, id int64) error {
	s.deleteID = id
	return s.deleteErr
}

func (s *stubAdminCatalog) CreateGenre(ctx context.Context, input models.CreateGenreInput) (int64, error) {
	s.genreInput = input
	return s.genreID, nil
}

type stubAdminUsers struct {
	listInput models.ListUsersInput
	list      *models.UserList
	stats     *models.Stats
}

func (s *stubAdminUsers) ListUsers(ctx context.Context, input models.ListUsersInput) (*models.UserList, error) {
	s.listInput = input
	return s.list, nil
}

func (s *stubAdminUsers) Stats(ctx context.Context) (*models.Stats, error) {
	return s.stats, nil
}

func TestAdminCreateMovie(t *testing.T) {
	catalog := &stubAdminCatalog{createID: 101}
	h := NewAdminHandler(catalog, &stubAdminUsers{}, discardLogger())

	body := `{"title": "Heat", "director": "Michael Mann", "year": 1995}`
	req := httptest.NewRequest(http.MethodPost, "/admin/movies", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateMovie(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if catalog.createInput.Title != "Heat" {
		t.Errorf("unexpected input: %+v", catalog.createInput)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(string(env.Data), "101") {
		t.Errorf("expected movie id in response, got: %s", env.Data)
	}
}

func TestAdminCreateMovieValidationError(t *testing.T) {
	catalog := &stubAdminCatalog{createErr: apperr.Validation("title and director are required")}
	h := NewAdminHandler(catalog, &stubAdminUsers{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/movies", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.CreateMovie(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != apperr.CodeValidation {
		t.Errorf("unexpected body: %+v", env)
	}
}

func TestAdminUpdateMovie(t *testing.T) {
	catalog := &stubAdminCatalog{}
	h := NewAdminHandler(catalog, &stubAdminUsers{}, discardLogger())

	req := httptest.NewRequest(http.MethodPut, "/admin/movies/7",
		strings.NewReader(`{"title": "Heat (Remastered)"}`))
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()
	h.UpdateMovie(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if catalog.updateID != 7 {
		t.Errorf("expected update of movie 7, got %d", catalog.updateID)
	}
	if catalog.updateInput.Title == nil || *catalog.updateInput.Title != "Heat (Remastered)" {
		t.Errorf("unexpected input: %+v", catalog.updateInput)
	}
}

func TestAdminDeleteMovieNotFound(t *testing.T) {
	catalog := &stubAdminCatalog{
		deleteErr: apperr.NotFound(apperr.CodeMovieNotFound, "movie not found"),
	}
	h := NewAdminHandler(catalog, &stubAdminUsers{}, discardLogger())

	req := httptest.NewRequest(http.MethodDelete, "/admin/movies/404", nil)
	req.SetPathValue("id", "404")
	rec := httptest.NewRecorder()
	h.DeleteMovie(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminCreateGenre(t *testing.T) {
	catalog := &stubAdminCatalog{genreID: 3}
	h := NewAdminHandler(catalog, &stubAdminUsers{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/admin/genres",
		strings.NewReader(`{"name": "Crime"}`))
	rec := httptest.NewRecorder()
	h.CreateGenre(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if catalog.genreInput.Name != "Crime" {
		t.Errorf("unexpected input: %+v", catalog.genreInput)
	}
}

func TestAdminListUsersForwardsFilters(t *testing.T) {
	users := &stubAdminUsers{list: &models.UserList{}}
	h := NewAdminHandler(&stubAdminCatalog{}, users, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/users?role=admin&page=2&limit=50", nil)
	rec := httptest.NewRecorder()
	h.ListUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	in := users.listInput
	if in.Role != "admin" || in.Page != 2 || in.Limit != 50 {
		t.Errorf("unexpected input: %+v", in)
	}
}

func TestAdminStats(t *testing.T) {
	users := &stubAdminUsers{stats: &models.Stats{
		Movies: 12, Users: 4, Rates: 30, Wishes: 9,
		PopularMovies: []models.PopularRow{{Title: "Heat", Views: 500, Rating: 4.8}},
	}}
	h := NewAdminHandler(&stubAdminCatalog{}, users, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	for _, want := range []string{`"movies":12`, `"popularMovies"`, `"Heat"`} {
		if !strings.Contains(string(env.Data), want) {
			t.Errorf("expected %s in stats payload, got: %s", want, env.Data)
		}
	}
}
