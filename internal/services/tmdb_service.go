package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	client        *http.Client
	apiKey        string
	baseURL       string
	imageBaseURL  string
	language      string
	region        string
	retryAttempts uint
}

// TMDBConfig holds TMDB service configuration
type TMDBConfig struct {
	APIKey        string
	BaseURL       string
	ImageBaseURL  string
	Language      string
	Region        string
	RetryAttempts uint
}

// NewTMDBService creates a new TMDB service
func NewTMDBService(cfg TMDBConfig) *TMDBService {
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 3
	}
	return &TMDBService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		imageBaseURL:  cfg.ImageBaseURL,
		language:      cfg.Language,
		region:        cfg.Region,
		retryAttempts: attempts,
	}
}

// TMDBMovie is a summary record from the popular listing
type TMDBMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
}

// TMDBMovieDetail is a full movie record including credits
type TMDBMovieDetail struct {
	ID                  int     `json:"id"`
	ImdbID              *string `json:"imdb_id"`
	Title               string  `json:"title"`
	Runtime             int     `json:"runtime"`
	Overview            string  `json:"overview"`
	ProductionCountries []struct {
		Name string `json:"name"`
	} `json:"production_countries"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

// TMDBVideo is one entry of a movie's video list
type TMDBVideo struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// TMDBPopularResponse is the popular-movies listing response
type TMDBPopularResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type tmdbVideosResponse struct {
	Results []TMDBVideo `json:"results"`
}

// doRequest performs a GET against the TMDB API with bounded retry. The API
// is rate-limited and transiently flaky, so 5xx and 429 responses are
// retried with backoff; other client errors are not.
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}

			q := req.URL.Query()
			q.Add("api_key", s.apiKey)
			if s.language != "" {
				q.Add("language", s.language)
			}
			for key, value := range params {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()

			resp, err := s.client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to execute request: %w", err)
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}

			switch {
			case resp.StatusCode == http.StatusOK:
				body = data
				return nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				return fmt.Errorf("TMDB API error: status %d", resp.StatusCode)
			default:
				return retry.Unrecoverable(fmt.Errorf("TMDB API error: status %d, body: %s",
					resp.StatusCode, string(data)))
			}
		},
		retry.Context(ctx),
		retry.Attempts(s.retryAttempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Popular retrieves one page of the popular-movies listing
func (s *TMDBService) Popular(ctx context.Context, page int) (*TMDBPopularResponse, error) {
	if page < 1 {
		page = 1
	}

	params := map[string]string{"page": fmt.Sprintf("%d", page)}
	if s.region != "" {
		params["region"] = s.region
	}

	body, err := s.doRequest(ctx, "/movie/popular", params)
	if err != nil {
		return nil, err
	}

	var response TMDBPopularResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal popular movies: %w", err)
	}
	return &response, nil
}

// Movie retrieves a movie's detail record with credits appended
func (s *TMDBService) Movie(ctx context.Context, movieID int) (*TMDBMovieDetail, error) {
	body, err := s.doRequest(ctx, fmt.Sprintf("/movie/%d", movieID),
		map[string]string{"append_to_response": "credits"})
	if err != nil {
		return nil, err
	}

	var detail TMDBMovieDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to unmarshal movie detail: %w", err)
	}
	return &detail, nil
}

// Videos retrieves a movie's video list
func (s *TMDBService) Videos(ctx context.Context, movieID int) ([]TMDBVideo, error) {
	body, err := s.doRequest(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil)
	if err != nil {
		return nil, err
	}

	var response tmdbVideosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal videos: %w", err)
	}
	return response.Results, nil
}

// PosterURL returns the displayable URL for a poster path, or "" when absent
func (s *TMDBService) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return s.imageBaseURL + path
}

// Director returns the name of the first crew member with the Director job
func (d *TMDBMovieDetail) Director() string {
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// TopCast returns up to n leading cast names
func (d *TMDBMovieDetail) TopCast(n int) []string {
	names := make([]string, 0, n)
	for _, c := range d.Credits.Cast {
		if len(names) == n {
			break
		}
		names = append(names, c.Name)
	}
	return names
}

// Country returns the first production country name, or ""
func (d *TMDBMovieDetail) Country() string {
	if len(d.ProductionCountries) == 0 {
		return ""
	}
	return d.ProductionCountries[0].Name
}
