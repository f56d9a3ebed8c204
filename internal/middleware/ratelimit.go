package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/redis/go-redis/v9"
)

// RateLimiter provides rate limiting functionality
type RateLimiter struct {
	redis        *redis.Client
	maxRequests  int
	window       time.Duration
	isProduction bool
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *redis.Client, maxRequests int, window time.Duration, isProduction bool) *RateLimiter {
	return &RateLimiter{
		redis:        redis,
		maxRequests:  maxRequests,
		window:       window,
		isProduction: isProduction,
	}
}

// Limit returns a middleware that rate limits requests
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := rl.getIdentifier(r)

		allowed, err := rl.checkRateLimit(r.Context(), identifier)
		if err != nil {
			writeAuthError(w, http.StatusInternalServerError, apperr.CodeUnknown, "rate limit check failed")
			return
		}

		if !allowed {
			writeAuthError(w, http.StatusTooManyRequests, apperr.CodeRateLimited,
				"too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getIdentifier returns the identifier for rate limiting
func (rl *RateLimiter) getIdentifier(r *http.Request) string {
	// Authenticated requests are limited per user, others per IP
	if userID, ok := GetUserIDFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%s", userID.String())
	}

	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return fmt.Sprintf("ip:%s", ip)
}

// checkRateLimit checks if the request should be allowed
func (rl *RateLimiter) checkRateLimit(ctx context.Context, identifier string) (bool, error) {
	// Skip rate limiting in local/dev mode for easier testing
	if !rl.isProduction {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:%s", identifier)
	now := time.Now().Unix()
	windowStart := now - int64(rl.window.Seconds())

	// Redis sorted set as a sliding window
	pipe := rl.redis.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: fmt.Sprintf("%d", now),
	})
	pipe.Expire(ctx, key, rl.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return countCmd.Val() < int64(rl.maxRequests), nil
}
