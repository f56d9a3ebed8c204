package services

import (
	"strings"
	"testing"

	"github.com/liamwears/moviehub/internal/models"
	"github.com/stretchr/testify/require"
)

func TestListingQueryDefaults(t *testing.T) {
	q := NewListingQuery(models.ListMoviesInput{})

	require.Equal(t, 1, q.Page())
	require.Equal(t, defaultPageSize, q.Limit())
	require.Equal(t, 0, q.Offset())

	sql, args := q.SelectSQL()
	require.Contains(t, sql, "WHERE TRUE")
	require.Contains(t, sql, "ORDER BY m.created_at DESC")
	require.Contains(t, sql, "LIMIT $1 OFFSET $2")
	require.Equal(t, []any{defaultPageSize, 0}, args)
}

func TestListingQuerySanitizesPageAndLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"negative page", -3, 10, 1, 10, 0},
		{"zero page", 0, 10, 1, 10, 0},
		{"zero limit", 2, 0, 2, defaultPageSize, defaultPageSize},
		{"limit over cap", 1, 5000, 1, maxPageSize, 0},
		{"third page", 3, 20, 3, 20, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewListingQuery(models.ListMoviesInput{Page: tt.page, Limit: tt.limit})
			require.Equal(t, tt.wantPage, q.Page())
			require.Equal(t, tt.wantLimit, q.Limit())
			require.Equal(t, tt.wantOffset, q.Offset())
		})
	}
}

func TestListingQueryUnknownSortFallsBack(t *testing.T) {
	q := NewListingQuery(models.ListMoviesInput{Sort: "created_at; DROP TABLE movie"})
	sql, _ := q.SelectSQL()
	require.Contains(t, sql, "ORDER BY m.created_at DESC")
	require.NotContains(t, sql, "DROP TABLE")
}

func TestListingQueryOrderDirection(t *testing.T) {
	asc := NewListingQuery(models.ListMoviesInput{Sort: "year", Order: "ASC"})
	sql, _ := asc.SelectSQL()
	require.Contains(t, sql, "ORDER BY m.year ASC")

	// Anything other than asc selects descending
	desc := NewListingQuery(models.ListMoviesInput{Sort: "year", Order: "sideways"})
	sql, _ = desc.SelectSQL()
	require.Contains(t, sql, "ORDER BY m.year DESC")
}

func TestListingQueryPlaceholderNumbering(t *testing.T) {
	genreID := int64(7)
	year := 1999
	q := NewListingQuery(models.ListMoviesInput{
		GenreID: &genreID,
		Region:  "USA",
		Year:    &year,
		Keyword: "matrix",
	})

	where, args := q.where()
	require.Equal(t, "m.genre_id = $1 AND m.region = $2 AND m.year = $3 AND "+
		"(m.title ILIKE $4 OR m.director ILIKE $5 OR m.actors ILIKE $6)", where)
	require.Equal(t, []any{int64(7), "USA", 1999, "%matrix%", "%matrix%", "%matrix%"}, args)

	sql, selectArgs := q.SelectSQL()
	require.Contains(t, sql, "LIMIT $7 OFFSET $8")
	require.Len(t, selectArgs, 8)
}

func TestListingQueryCountSharesPredicates(t *testing.T) {
	year := 2020
	q := NewListingQuery(models.ListMoviesInput{Year: &year, Keyword: "dog"})

	selectSQL, selectArgs := q.SelectSQL()
	countSQL, countArgs := q.CountSQL()

	wherePart := countSQL[strings.Index(countSQL, "WHERE"):]
	require.Contains(t, selectSQL, wherePart)
	require.Equal(t, countArgs, selectArgs[:len(countArgs)])
}

func TestListingQueryEmptyKeywordAddsNoFilter(t *testing.T) {
	q := NewListingQuery(models.ListMoviesInput{Keyword: ""})
	where, args := q.where()
	require.Equal(t, "TRUE", where)
	require.Empty(t, args)
}
