package services

import (
	"fmt"
	"strings"

	"github.com/liamwears/moviehub/internal/models"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// listingSorts is the allow-list of sortable fields. Anything else falls
// back to created_at.
var listingSorts = map[string]string{
	"created_at": "m.created_at",
	"year":       "m.year",
	"rating":     "m.rating",
	"views":      "m.views",
	"title":      "m.title",
}

// cond is one predicate clause. expr contains a `$%d` verb per argument;
// placeholders are numbered at render time so the same clause list can back
// both the page query and the count query.
type cond struct {
	expr string
	args []any
}

// ListingQuery is a filtered, sorted, paginated catalog query. Filters are
// conjunctive; the keyword clause is a single OR-group over title, director
// and actors. All values, including limit and offset, are bound as
// parameters.
type ListingQuery struct {
	conds   []cond
	orderBy string
	page    int
	limit   int
}

// NewListingQuery sanitizes the options bag into a query. Page is floored to
// 1, limit to 1 and capped at maxPageSize, and unknown sort fields fall back
// to created_at descending.
func NewListingQuery(in models.ListMoviesInput) *ListingQuery {
	q := &ListingQuery{}

	if in.GenreID != nil {
		q.conds = append(q.conds, cond{"m.genre_id = $%d", []any{*in.GenreID}})
	}
	if in.Region != "" {
		q.conds = append(q.conds, cond{"m.region = $%d", []any{in.Region}})
	}
	if in.Year != nil {
		q.conds = append(q.conds, cond{"m.year = $%d", []any{*in.Year}})
	}
	if in.Keyword != "" {
		pattern := "%" + in.Keyword + "%"
		q.conds = append(q.conds, cond{
			"(m.title ILIKE $%d OR m.director ILIKE $%d OR m.actors ILIKE $%d)",
			[]any{pattern, pattern, pattern},
		})
	}

	sortCol, ok := listingSorts[in.Sort]
	if !ok {
		sortCol = "m.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(in.Order, "asc") {
		dir = "ASC"
	}
	q.orderBy = sortCol + " " + dir

	q.page = in.Page
	if q.page < 1 {
		q.page = 1
	}
	q.limit = in.Limit
	if q.limit < 1 {
		q.limit = defaultPageSize
	}
	if q.limit > maxPageSize {
		q.limit = maxPageSize
	}

	return q
}

// Page returns the sanitized page number
func (q *ListingQuery) Page() int { return q.page }

// Limit returns the sanitized page size
func (q *ListingQuery) Limit() int { return q.limit }

// Offset returns the row offset for the sanitized page
func (q *ListingQuery) Offset() int { return (q.page - 1) * q.limit }

// where renders the predicate clauses starting at placeholder $1
func (q *ListingQuery) where() (string, []any) {
	if len(q.conds) == 0 {
		return "TRUE", nil
	}

	clauses := make([]string, 0, len(q.conds))
	var args []any
	n := 0
	for _, c := range q.conds {
		nums := make([]any, len(c.args))
		for i := range c.args {
			n++
			nums[i] = n
		}
		clauses = append(clauses, fmt.Sprintf(c.expr, nums...))
		args = append(args, c.args...)
	}
	return strings.Join(clauses, " AND "), args
}

// SelectSQL compiles the page query: movies joined with their genre name,
// ordered and paged
func (q *ListingQuery) SelectSQL() (string, []any) {
	where, args := q.where()
	sql := fmt.Sprintf(`
		SELECT %s, g.name AS genre_name
		FROM movie m
		LEFT JOIN genre g ON m.genre_id = g.id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		movieColumns, where, q.orderBy, len(args)+1, len(args)+2)
	args = append(args, q.limit, q.Offset())
	return sql, args
}

// CountSQL compiles the matching total-count query. It shares the predicate
// list with SelectSQL so page and total can never disagree.
func (q *ListingQuery) CountSQL() (string, []any) {
	where, args := q.where()
	return "SELECT COUNT(*) FROM movie m WHERE " + where, args
}
