package models

import (
	"time"
)

// VideoType marks whether the primary video is a local file or external link
type VideoType string

const (
	VideoTypeLocal    VideoType = "local"
	VideoTypeExternal VideoType = "external"
)

// MovieStatus is the lifecycle status of a catalog entry
type MovieStatus string

const (
	MovieStatusActive   MovieStatus = "active"
	MovieStatusInactive MovieStatus = "inactive"
)

// Movie represents a catalog entry
type Movie struct {
	ID          int64       `db:"id" json:"id"`
	ImdbID      *string     `db:"imdb_id" json:"imdbId"`
	Title       string      `db:"title" json:"title"`
	Director    *string     `db:"director" json:"director"`
	Actors      *string     `db:"actors" json:"actors"`
	GenreID     *int64      `db:"genre_id" json:"genreId"`
	GenreName   *string     `db:"genre_name" json:"genreName,omitempty"`
	Region      *string     `db:"region" json:"region"`
	Year        *int        `db:"year" json:"year"`
	Duration    *int        `db:"duration" json:"duration"`
	Description *string     `db:"description" json:"description"`
	Poster      *string     `db:"poster" json:"poster"`
	Trailer     *string     `db:"trailer" json:"trailer"`
	VideoURL    *string     `db:"video_url" json:"videoUrl"`
	VideoType   VideoType   `db:"video_type" json:"videoType"`
	Rating      float64     `db:"rating" json:"rating"`
	Views       int64       `db:"views" json:"views"`
	Status      MovieStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// Genre represents a movie classification
type Genre struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ListMoviesInput represents the input for listing movies
type ListMoviesInput struct {
	GenreID *int64 `query:"genre"`
	Region  string `query:"region"`
	Year    *int   `query:"year"`
	Keyword string `query:"keyword"`
	Sort    string `query:"sort"`
	Order   string `query:"order"`
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// MovieList is a paginated listing result
type MovieList struct {
	Movies     []Movie    `json:"movies"`
	Pagination Pagination `json:"pagination"`
}

// MovieDetail is a movie with its derived rating stats, latest comments and
// recommendations
type MovieDetail struct {
	Movie
	AvgRating       float64   `json:"rating"`
	RatingCount     int       `json:"ratingCount"`
	Comments        []Comment `json:"comments"`
	Recommendations []Movie   `json:"recommendations"`
}

// CreateMovieInput represents the input for creating a movie
type CreateMovieInput struct {
	Title       string  `json:"title"`
	Director    string  `json:"director"`
	Actors      *string `json:"actors"`
	GenreID     *int64  `json:"genreId"`
	Region      *string `json:"region"`
	Year        *int    `json:"year"`
	Duration    *int    `json:"duration"`
	Description *string `json:"description"`
	Poster      *string `json:"poster"`
	Trailer     *string `json:"trailer"`
	VideoURL    *string `json:"videoUrl"`
	Status      string  `json:"status"`
}

// UpdateMovieInput represents a partial movie update; nil fields are left
// untouched
type UpdateMovieInput struct {
	Title       *string `json:"title"`
	Director    *string `json:"director"`
	Actors      *string `json:"actors"`
	GenreID     *int64  `json:"genreId"`
	Region      *string `json:"region"`
	Year        *int    `json:"year"`
	Duration    *int    `json:"duration"`
	Description *string `json:"description"`
	Poster      *string `json:"poster"`
	Trailer     *string `json:"trailer"`
	VideoURL    *string `json:"videoUrl"`
	VideoType   *string `json:"videoType"`
	Status      *string `json:"status"`
}

// CreateGenreInput represents the input for creating a genre
type CreateGenreInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}
