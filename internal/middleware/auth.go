package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/auth"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ClaimsContextKey is the key for storing token claims in context
	ClaimsContextKey ContextKey = "claims"
)

// AuthMiddleware authenticates requests carrying a bearer token
type AuthMiddleware struct {
	secret string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{secret: jwtSecret}
}

// RequireAuth ensures the request carries a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, errCode, errMsg := m.authenticate(r)
		if claims == nil {
			writeAuthError(w, http.StatusUnauthorized, errCode, errMsg)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin ensures the request is authenticated with the admin role
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := GetClaimsFromContext(r.Context())
		if claims == nil || claims.Role != "admin" {
			writeAuthError(w, http.StatusForbidden, apperr.CodeAdminRequired, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// authenticate extracts and verifies the bearer token
func (m *AuthMiddleware) authenticate(r *http.Request) (*auth.Claims, apperr.Code, string) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, apperr.CodeUnauthorized, "authentication required"
	}

	claims, err := auth.Parse(m.secret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.CodeTokenExpired, "token expired, please log in again"
		}
		return nil, apperr.CodeTokenInvalid, "invalid token"
	}
	return claims, 0, ""
}

// GetClaimsFromContext retrieves the token claims from request context
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}

// GetUserIDFromContext retrieves the authenticated user's ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := GetClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeAuthError(w http.ResponseWriter, status int, code apperr.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"success":false,"error":{"code":%d,"message":%q}}`, code, message)
}
