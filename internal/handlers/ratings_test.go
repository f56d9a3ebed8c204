package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/models"
)

type stubRatings struct {
	rateUser  uuid.UUID
	rateInput models.RateInput
	rateErr   error

	deleteID   int64
	deleteUser uuid.UUID
}

func (s *stubRatings) Rate(ctx context.Context, userID uuid.UUID, input models.RateInput) error {
	s.rateUser = userID
	s.rateInput = input
	return s.rateErr
}

func (s *stubRatings) ListByMovie(ctx context.Context, movieID int64, page, limit int) (*models.RatingList, error) {
	return &models.RatingList{}, nil
}

func (s *stubRatings) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	s.deleteID = id
	s.deleteUser = userID
	return nil
}

func TestRatingCreate(t *testing.T) {
	ratings := &stubRatings{}
	h := NewRatingHandler(ratings, discardLogger())
	userID := uuid.New()

	body := `{"movieId": 7, "rating": 4, "comment": "solid"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(body)), userID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ratings.rateUser != userID {
		t.Errorf("expected user %s, got %s", userID, ratings.rateUser)
	}
	if ratings.rateInput.MovieID != 7 || ratings.rateInput.Rating != 4 {
		t.Errorf("unexpected input: %+v", ratings.rateInput)
	}
	if ratings.rateInput.Comment == nil || *ratings.rateInput.Comment != "solid" {
		t.Errorf("expected comment to be decoded, got %v", ratings.rateInput.Comment)
	}
}

func TestRatingCreateRequiresAuthContext(t *testing.T) {
	h := NewRatingHandler(&stubRatings{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader(`{"movieId":1,"rating":5}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", rec.Code)
	}
}

func TestRatingCreateRejectsBadBody(t *testing.T) {
	h := NewRatingHandler(&stubRatings{}, discardLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/rates", strings.NewReader("{not json")), uuid.New())
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRatingCreateSurfacesScoreValidation(t *testing.T) {
	ratings := &stubRatings{rateErr: apperr.Validation("rating must be between 1 and 5")}
	h := NewRatingHandler(ratings, discardLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/rates",
		strings.NewReader(`{"movieId":1,"rating":9}`)), uuid.New())
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != apperr.CodeValidation {
		t.Errorf("unexpected body: %+v", env)
	}
}

func TestRatingDeleteScopedToOwner(t *testing.T) {
	ratings := &stubRatings{}
	h := NewRatingHandler(ratings, discardLogger())
	userID := uuid.New()

	req := withUser(httptest.NewRequest(http.MethodDelete, "/rates/12", nil), userID)
	req.SetPathValue("id", "12")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ratings.deleteID != 12 || ratings.deleteUser != userID {
		t.Errorf("expected delete of rating 12 for %s, got id=%d user=%s",
			userID, ratings.deleteID, ratings.deleteUser)
	}
}

func TestRatingListByMovieRejectsBadID(t *testing.T) {
	h := NewRatingHandler(&stubRatings{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/rates/movie/zero", nil)
	req.SetPathValue("movieId", "zero")
	rec := httptest.NewRecorder()
	h.ListByMovie(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
