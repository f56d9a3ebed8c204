package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/liamwears/moviehub/internal/services"
)

type stubSource struct {
	popular    *services.TMDBPopularResponse
	popularErr error
	details    map[int]*services.TMDBMovieDetail
	detailErr  map[int]error
	videos     map[int][]services.TMDBVideo
}

func (s *stubSource) Popular(ctx context.Context, page int) (*services.TMDBPopularResponse, error) {
	return s.popular, s.popularErr
}

func (s *stubSource) Movie(ctx context.Context, movieID int) (*services.TMDBMovieDetail, error) {
	if err := s.detailErr[movieID]; err != nil {
		return nil, err
	}
	detail, ok := s.details[movieID]
	if !ok {
		return nil, fmt.Errorf("no detail for %d", movieID)
	}
	return detail, nil
}

func (s *stubSource) Videos(ctx context.Context, movieID int) ([]services.TMDBVideo, error) {
	return s.videos[movieID], nil
}

func (s *stubSource) PosterURL(path string) string {
	return "https://img.example" + path
}

type execCall struct {
	sql  string
	args []any
}

type stubExecer struct {
	calls []execCall
	err   error
}

func (e *stubExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.calls = append(e.calls, execCall{sql: sql, args: args})
	return pgconn.CommandTag{}, e.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func strPtr(s string) *string { return &s }

func summary(id int, title string) services.TMDBMovie {
	return services.TMDBMovie{
		ID:          id,
		Title:       title,
		PosterPath:  strPtr("/p.jpg"),
		ReleaseDate: "1995-12-15",
		VoteAverage: 8.3,
	}
}

func detail(imdbID string) *services.TMDBMovieDetail {
	d := &services.TMDBMovieDetail{Runtime: 170, Overview: "two crews"}
	if imdbID != "" {
		d.ImdbID = strPtr(imdbID)
	}
	d.ProductionCountries = []struct {
		Name string `json:"name"`
	}{{Name: "United States of America"}}
	d.Credits.Crew = []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	}{{Name: "Michael Mann", Job: "Director"}}
	d.Credits.Cast = []struct {
		Name string `json:"name"`
	}{{Name: "Al Pacino"}, {Name: "Robert De Niro"}}
	return d
}

func TestRunUpsertsNormalizedRecords(t *testing.T) {
	source := &stubSource{
		popular: &services.TMDBPopularResponse{Results: []services.TMDBMovie{summary(42, "Heat")}},
		details: map[int]*services.TMDBMovieDetail{42: detail("tt0113277")},
		videos: map[int][]services.TMDBVideo{42: {
			{Key: "skip", Site: "Vimeo", Type: "Trailer"},
			{Key: "teaser1", Site: "YouTube", Type: "Teaser"},
			{Key: "abc123", Site: "YouTube", Type: "Trailer"},
		}},
	}
	db := &stubExecer{}

	c := New(source, db, 20, testLogger())
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(db.calls) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(db.calls))
	}
	call := db.calls[0]
	if !strings.Contains(call.sql, "ON CONFLICT (imdb_id) DO UPDATE") {
		t.Errorf("expected dedup upsert, got: %s", call.sql)
	}
	if !strings.Contains(call.sql, "COALESCE(EXCLUDED.trailer, movie.trailer)") {
		t.Errorf("expected trailer merge on conflict, got: %s", call.sql)
	}
	if strings.Contains(call.sql, "EXCLUDED.video_url") {
		t.Errorf("ingestion must never overwrite video_url: %s", call.sql)
	}

	if got := call.args[0]; got != "tt0113277" {
		t.Errorf("expected imdb_id tt0113277, got %v", got)
	}
	if got := call.args[1]; got != "Heat" {
		t.Errorf("expected title Heat, got %v", got)
	}
	if got := call.args[2]; got != "Michael Mann" {
		t.Errorf("expected director Michael Mann, got %v", got)
	}
	if got := call.args[3]; got != "Al Pacino,Robert De Niro" {
		t.Errorf("expected joined cast, got %v", got)
	}
	if got := call.args[5]; got != 1995 {
		t.Errorf("expected year 1995, got %v", got)
	}
	if got := call.args[8].(*string); got == nil || *got != "https://img.example/p.jpg" {
		t.Errorf("unexpected poster arg: %v", got)
	}
	if got := call.args[9].(*string); got == nil || *got != "https://www.youtube.com/embed/abc123" {
		t.Errorf("expected YouTube trailer embed, got %v", got)
	}
}

func TestRunSkipsFailingRecords(t *testing.T) {
	source := &stubSource{
		popular: &services.TMDBPopularResponse{Results: []services.TMDBMovie{
			summary(1, "Broken"),
			summary(2, "NoExternalID"),
			summary(3, "Fine"),
		}},
		details: map[int]*services.TMDBMovieDetail{
			2: detail(""),
			3: detail("tt0000003"),
		},
		detailErr: map[int]error{1: errors.New("upstream 500")},
	}
	db := &stubExecer{}

	c := New(source, db, 20, testLogger())
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("expected partial failure to be tolerated, got: %v", err)
	}

	if len(db.calls) != 1 {
		t.Fatalf("expected only the healthy record to be upserted, got %d calls", len(db.calls))
	}
	if got := db.calls[0].args[0]; got != "tt0000003" {
		t.Errorf("unexpected upserted record: %v", got)
	}
}

func TestRunFailsWhenNothingIngested(t *testing.T) {
	source := &stubSource{
		popular:   &services.TMDBPopularResponse{Results: []services.TMDBMovie{summary(1, "Broken")}},
		detailErr: map[int]error{1: errors.New("upstream 500")},
	}

	c := New(source, &stubExecer{}, 20, testLogger())
	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error when every record fails")
	}
}

func TestRunFailsWhenListingFails(t *testing.T) {
	source := &stubSource{popularErr: errors.New("listing down")}

	c := New(source, &stubExecer{}, 20, testLogger())
	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error when the popular listing cannot be fetched")
	}
}

func TestRunHonorsQuota(t *testing.T) {
	var results []services.TMDBMovie
	details := map[int]*services.TMDBMovieDetail{}
	for i := 1; i <= 10; i++ {
		results = append(results, summary(i, fmt.Sprintf("Movie %d", i)))
		details[i] = detail(fmt.Sprintf("tt%07d", i))
	}
	source := &stubSource{
		popular: &services.TMDBPopularResponse{Results: results},
		details: details,
	}
	db := &stubExecer{}

	c := New(source, db, 3, testLogger())
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(db.calls) != 3 {
		t.Errorf("expected quota of 3 upserts, got %d", len(db.calls))
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	source := &stubSource{
		popular: &services.TMDBPopularResponse{Results: []services.TMDBMovie{summary(1, "One")}},
		details: map[int]*services.TMDBMovieDetail{1: detail("tt0000001")},
	}
	db := &stubExecer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(source, db, 20, testLogger())
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if len(db.calls) != 0 {
		t.Errorf("expected no upserts after cancellation, got %d", len(db.calls))
	}
}

func TestNewDefaultsQuota(t *testing.T) {
	c := New(&stubSource{}, &stubExecer{}, 0, testLogger())
	if c.quota != 20 {
		t.Errorf("expected default quota 20, got %d", c.quota)
	}
}

func TestNextRunAt(t *testing.T) {
	loc := time.UTC

	beforeHour := time.Date(2026, 8, 29, 1, 30, 0, 0, loc)
	if got := nextRunAt(beforeHour); got != time.Date(2026, 8, 29, 3, 0, 0, 0, loc) {
		t.Errorf("expected same-day run, got %v", got)
	}

	afterHour := time.Date(2026, 8, 29, 12, 0, 0, 0, loc)
	if got := nextRunAt(afterHour); got != time.Date(2026, 8, 30, 3, 0, 0, 0, loc) {
		t.Errorf("expected next-day run, got %v", got)
	}

	exactly := time.Date(2026, 8, 29, 3, 0, 0, 0, loc)
	if got := nextRunAt(exactly); got != time.Date(2026, 8, 30, 3, 0, 0, 0, loc) {
		t.Errorf("expected run strictly after now, got %v", got)
	}
}
