package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParseRoundtrip(t *testing.T) {
	userID := uuid.New()

	token, err := Issue(testSecret, time.Hour, userID, "alice", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := Parse(testSecret, token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != userID.String() {
		t.Errorf("expected userId %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "alice" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != userID.String() {
		t.Errorf("expected subject %s, got %s", userID, claims.Subject)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Issue(testSecret, time.Hour, uuid.New(), "alice", "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := Parse("another-secret-another-secret-xx", token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Issue(testSecret, -time.Minute, uuid.New(), "alice", "user")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = Parse(testSecret, token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected jwt.ErrTokenExpired, got: %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse(testSecret, "not.a.token"); err == nil {
		t.Fatal("expected parse error for malformed token")
	}
}
