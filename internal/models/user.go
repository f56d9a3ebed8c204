package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user in the system
type User struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Username      string     `db:"username" json:"username"`
	Email         *string    `db:"email" json:"email"`
	Phone         *string    `db:"phone" json:"phone"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Role          Role       `db:"role" json:"role"`
	Avatar        *string    `db:"avatar" json:"avatar"`
	LoginAttempts int        `db:"login_attempts" json:"-"`
	LockedUntil   *time.Time `db:"locked_until" json:"-"`
	LastLoginAt   *time.Time `db:"last_login_at" json:"lastLoginAt"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// RegisterInput represents the input for user registration
type RegisterInput struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

// LoginInput represents the input for user login. Account may be a username,
// email or phone number.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the issued token plus the authenticated user
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileInput represents a partial profile update
type UpdateProfileInput struct {
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// ListUsersInput represents the input for the admin user listing
type ListUsersInput struct {
	Role  string `query:"role"`
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
}

// UserList is a paginated user listing
type UserList struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// Stats holds the admin dashboard counters
type Stats struct {
	Movies        int          `json:"movies"`
	Users         int          `json:"users"`
	Rates         int          `json:"rates"`
	Wishes        int          `json:"wishes"`
	PopularMovies []PopularRow `json:"popularMovies"`
}

// PopularRow is one row of the most-viewed movies on the stats page
type PopularRow struct {
	Title  string  `json:"title"`
	Views  int64   `json:"views"`
	Rating float64 `json:"rating"`
}
