// Package crawler ingests movie metadata from the external catalog API on a
// daily schedule: popular listing, then per-record detail and trailer lookups,
// merged into the catalog with a dedup-safe upsert.
package crawler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/liamwears/moviehub/internal/services"
)

// runHour is the local hour of day scheduled runs fire at
const runHour = 3

// Source is the external metadata API the crawler reads from
type Source interface {
	Popular(ctx context.Context, page int) (*services.TMDBPopularResponse, error)
	Movie(ctx context.Context, movieID int) (*services.TMDBMovieDetail, error)
	Videos(ctx context.Context, movieID int) ([]services.TMDBVideo, error)
	PosterURL(path string) string
}

// Execer is the subset of the connection pool the crawler writes through
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Crawler performs the daily ingestion run
type Crawler struct {
	source Source
	db     Execer
	quota  int
	logger *log.Logger
}

// New creates a crawler with a daily record quota
func New(source Source, db Execer, quota int, logger *log.Logger) *Crawler {
	if quota < 1 {
		quota = 20
	}
	return &Crawler{source: source, db: db, quota: quota, logger: logger}
}

// record is a normalized catalog entry ready for upsert
type record struct {
	imdbID      string
	title       string
	director    string
	actors      string
	region      string
	year        int
	duration    int
	description string
	poster      *string
	trailer     *string
	rating      float64
}

// Run executes one ingestion pass. A failure on a single record is logged
// and skipped so one bad upstream record cannot block the rest of the batch;
// the run only errors when the listing fetch fails or nothing at all could
// be ingested.
func (c *Crawler) Run(ctx context.Context) error {
	popular, err := c.source.Popular(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to fetch popular movies: %w", err)
	}

	batch := popular.Results
	if len(batch) > c.quota {
		batch = batch[:c.quota]
	}

	var ingested, failed int
	for _, summary := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.ingest(ctx, summary); err != nil {
			failed++
			c.logger.Printf("crawler: skipping record %d (%s): %v", summary.ID, summary.Title, err)
			continue
		}
		ingested++
	}

	c.logger.Printf("crawler: run finished, ingested=%d failed=%d", ingested, failed)
	if ingested == 0 && failed > 0 {
		return fmt.Errorf("all %d records failed", failed)
	}
	return nil
}

// ingest enriches one summary record and upserts it
func (c *Crawler) ingest(ctx context.Context, summary services.TMDBMovie) error {
	detail, err := c.source.Movie(ctx, summary.ID)
	if err != nil {
		return fmt.Errorf("detail fetch: %w", err)
	}

	videos, err := c.source.Videos(ctx, summary.ID)
	if err != nil {
		return fmt.Errorf("videos fetch: %w", err)
	}

	rec := c.normalize(summary, detail, videos)
	if rec.imdbID == "" {
		// The upsert is keyed on the external id; without one the row could
		// never be deduplicated on re-runs.
		return fmt.Errorf("record has no external id")
	}

	return c.upsert(ctx, rec)
}

// normalize flattens summary+detail+videos into a catalog record
func (c *Crawler) normalize(summary services.TMDBMovie, detail *services.TMDBMovieDetail, videos []services.TMDBVideo) record {
	rec := record{
		title:       summary.Title,
		director:    detail.Director(),
		region:      detail.Country(),
		duration:    detail.Runtime,
		description: detail.Overview,
		rating:      summary.VoteAverage,
	}

	if detail.ImdbID != nil {
		rec.imdbID = *detail.ImdbID
	}

	cast := detail.TopCast(3)
	for i, name := range cast {
		if i > 0 {
			rec.actors += ","
		}
		rec.actors += name
	}

	if released, err := time.Parse("2006-01-02", summary.ReleaseDate); err == nil {
		rec.year = released.Year()
	}

	if summary.PosterPath != nil && *summary.PosterPath != "" {
		poster := c.source.PosterURL(*summary.PosterPath)
		rec.poster = &poster
	}

	if trailer := selectTrailer(videos); trailer != nil {
		embed := "https://www.youtube.com/embed/" + trailer.Key
		rec.trailer = &embed
	}

	return rec
}

// selectTrailer picks the first YouTube-hosted video marked as a trailer
func selectTrailer(videos []services.TMDBVideo) *services.TMDBVideo {
	for i := range videos {
		if videos[i].Site == "YouTube" && videos[i].Type == "Trailer" {
			return &videos[i]
		}
	}
	return nil
}

// upsert merges the record into the catalog keyed on the external id. On
// conflict only the trailer and updated timestamp change; video_url is an
// operator-supplied field and is never written by ingestion.
func (c *Crawler) upsert(ctx context.Context, rec record) error {
	_, err := c.db.Exec(ctx, `
		INSERT INTO movie (
			imdb_id, title, director, actors, region, year, duration,
			description, poster, trailer, video_url, video_type, rating, views, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL, 'external', $11, 0, 'active')
		ON CONFLICT (imdb_id) DO UPDATE
		SET trailer = COALESCE(EXCLUDED.trailer, movie.trailer),
		    updated_at = NOW()`,
		rec.imdbID, rec.title, rec.director, rec.actors, rec.region, rec.year,
		rec.duration, rec.description, rec.poster, rec.trailer, rec.rating)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Schedule runs ingestion once immediately, then daily at the scheduled
// hour, until ctx is cancelled. Each run is idempotent, so overlapping with
// a manual invocation is safe.
func (c *Crawler) Schedule(ctx context.Context) {
	if err := c.Run(ctx); err != nil {
		c.logger.Printf("crawler: startup run failed: %v", err)
	}

	for {
		timer := time.NewTimer(time.Until(nextRunAt(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := c.Run(ctx); err != nil {
				c.logger.Printf("crawler: scheduled run failed: %v", err)
			}
		}
	}
}

// nextRunAt returns the next scheduled run time strictly after now
func nextRunAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), runHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
