package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's score and optional comment for a movie, unique per
// (user, movie) pair
type Rating struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	MovieID   int64     `db:"movie_id" json:"movieId"`
	Score     int       `db:"score" json:"rating"`
	Comment   *string   `db:"comment" json:"comment"`
	Username  *string   `db:"username" json:"username,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Comment is a rating row rendered on the movie detail page
type Comment struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	Username  *string   `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// RateInput represents the input for submitting a rating
type RateInput struct {
	MovieID int64   `json:"movieId"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// RatingList is a paginated rating listing for one movie
type RatingList struct {
	Rates      []Rating   `json:"rates"`
	Pagination Pagination `json:"pagination"`
}
