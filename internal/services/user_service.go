package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/liamwears/moviehub/internal/apperr"
	"github.com/liamwears/moviehub/internal/auth"
	"github.com/liamwears/moviehub/internal/models"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 30 * time.Minute
	bcryptCost       = 10
)

const userColumns = `id, username, email, phone, password_hash, role, avatar,
		login_attempts, locked_until, last_login_at, created_at, updated_at`

// UserService handles registration, login and profile logic
type UserService struct {
	db       *pgxpool.Pool
	secret   string
	tokenTTL time.Duration
}

// NewUserService creates a new UserService
func NewUserService(db *pgxpool.Pool, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{db: db, secret: jwtSecret, tokenTTL: tokenTTL}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Avatar,
		&u.LoginAttempts, &u.LockedUntil, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Register creates a new user account with role "user"
func (s *UserService) Register(ctx context.Context, input models.RegisterInput) (uuid.UUID, error) {
	if input.Username == "" || input.Password == "" {
		return uuid.Nil, apperr.Validation("username and password are required")
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		input.Username, input.Email).Scan(&exists)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return uuid.Nil, apperr.Duplicate("username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		input.Username, input.Email, input.Phone, string(hash), models.RoleUser,
	).Scan(&id)
	if err != nil {
		// The EXISTS check races with concurrent registrations; the unique
		// constraints are authoritative.
		if isUniqueViolation(err) {
			return uuid.Nil, apperr.Duplicate("username or email already exists")
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// Login authenticates by username, email or phone, enforces the lockout
// policy and issues a bearer token
func (s *UserService) Login(ctx context.Context, input models.LoginInput) (*models.LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	user, err := scanUser(s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $1 OR phone = $1",
		input.Username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Unauthorized(apperr.CodeLoginFailed, "invalid username or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, apperr.New(apperr.CodeAccountLocked, http.StatusLocked,
			"account is locked, try again later")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if err := s.recordLoginFailure(ctx, user.ID); err != nil {
			return nil, err
		}
		return nil, apperr.Unauthorized(apperr.CodeLoginFailed, "invalid username or password")
	}

	_, err = s.db.Exec(ctx, `
		UPDATE users
		SET login_attempts = 0, locked_until = NULL, last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset login attempts: %w", err)
	}

	token, err := auth.Issue(s.secret, s.tokenTTL, user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &models.LoginResult{User: user, Token: token}, nil
}

// recordLoginFailure bumps the failure counter and locks the account once
// the threshold is reached
func (s *UserService) recordLoginFailure(ctx context.Context, userID uuid.UUID) error {
	var attempts int
	err := s.db.QueryRow(ctx, `
		UPDATE users
		SET login_attempts = login_attempts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING login_attempts`, userID).Scan(&attempts)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	if attempts >= maxLoginAttempts {
		_, err = s.db.Exec(ctx, `
			UPDATE users
			SET locked_until = NOW() + $2::interval, login_attempts = 0
			WHERE id = $1`, userID, lockDuration.String())
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
	}
	return nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's profile
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input models.UpdateProfileInput) error {
	var cols []string
	var vals []any
	if input.Email != nil {
		cols = append(cols, "email")
		vals = append(vals, *input.Email)
	}
	if input.Phone != nil {
		cols = append(cols, "phone")
		vals = append(vals, *input.Phone)
	}
	if input.Avatar != nil {
		cols = append(cols, "avatar")
		vals = append(vals, *input.Avatar)
	}
	if len(cols) == 0 {
		return apperr.Validation("no fields to update")
	}

	query := "UPDATE users SET updated_at = NOW()"
	for i, col := range cols {
		query += fmt.Sprintf(", %s = $%d", col, i+1)
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(cols)+1)
	vals = append(vals, id)

	result, err := s.db.Exec(ctx, query, vals...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Duplicate("email already in use")
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(apperr.CodeUserNotFound, "user not found")
	}
	return nil
}

// ListUsers retrieves users for the admin console, optionally filtered by role
func (s *UserService) ListUsers(ctx context.Context, input models.ListUsersInput) (*models.UserList, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	where := "TRUE"
	args := []any{}
	if input.Role != "" {
		if !models.Role(input.Role).IsValid() {
			return nil, apperr.Validation("role must be user or admin")
		}
		where = "role = $1"
		args = append(args, input.Role)
	}

	var total int
	if err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, userColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return &models.UserList{
		Users: users,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// Stats collects the admin dashboard counters
func (s *UserService) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM movie", &stats.Movies},
		{"SELECT COUNT(*) FROM users", &stats.Users},
		{"SELECT COUNT(*) FROM rate", &stats.Rates},
		{"SELECT COUNT(*) FROM wish", &stats.Wishes},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to collect stats: %w", err)
		}
	}

	rows, err := s.db.Query(ctx,
		"SELECT title, views, rating FROM movie ORDER BY views DESC LIMIT 5")
	if err != nil {
		return nil, fmt.Errorf("failed to query popular movies: %w", err)
	}
	defer rows.Close()

	stats.PopularMovies = []models.PopularRow{}
	for rows.Next() {
		var row models.PopularRow
		if err := rows.Scan(&row.Title, &row.Views, &row.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan popular movie: %w", err)
		}
		stats.PopularMovies = append(stats.PopularMovies, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating popular movies: %w", err)
	}

	return stats, nil
}
