package models

import (
	"time"

	"github.com/google/uuid"
)

// WishStatus is the tag attached to a (user, movie) wishlist pair
type WishStatus string

const (
	WishStatusWant     WishStatus = "want"
	WishStatusWatched  WishStatus = "watched"
	WishStatusFavorite WishStatus = "favorite"
)

// IsValid checks if the wish status is valid
func (s WishStatus) IsValid() bool {
	return s == WishStatusWant || s == WishStatusWatched || s == WishStatusFavorite
}

// WishlistEntry is a wishlist row joined with display fields of its movie
type WishlistEntry struct {
	ID        int64      `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"userId"`
	MovieID   int64      `db:"movie_id" json:"movieId"`
	Status    WishStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`

	Title    *string  `json:"title,omitempty"`
	Poster   *string  `json:"poster,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Year     *int     `json:"year,omitempty"`
	Director *string  `json:"director,omitempty"`
}

// WishInput represents the input for adding or re-tagging a wishlist entry
type WishInput struct {
	MovieID int64  `json:"movieId"`
	Status  string `json:"status"`
}

// WishCheck reports whether a movie is on the caller's wishlist
type WishCheck struct {
	IsWished bool        `json:"isWished"`
	Status   *WishStatus `json:"status"`
}
