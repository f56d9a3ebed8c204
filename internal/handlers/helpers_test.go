package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/auth"
	"github.com/liamwears/moviehub/internal/middleware"
)

type responseEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    apperr.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return env
}

// withUser attaches authenticated claims the way RequireAuth does
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	claims := &auth.Claims{UserID: userID.String(), Username: "alice", Role: "user"}
	ctx := context.WithValue(r.Context(), middleware.ClaimsContextKey, claims)
	return r.WithContext(ctx)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
