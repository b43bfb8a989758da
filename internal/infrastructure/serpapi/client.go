// Package serpapi queries Google results through the SerpAPI JSON endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/heuristics"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

// DefaultBaseURL is the SerpAPI search endpoint
const DefaultBaseURL = "https://serpapi.com/search.json"

const (
	resultsPerPage  = 10
	maxErrorBody    = 1 << 10
	secondsPerDay   = 24 * 60 * 60
	defaultTimeout  = 30 * time.Second
	defaultDailyCap = 100
)

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error,omitempty"`
}

type organicResult struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Snippet       string `json:"snippet"`
	DisplayedLink string `json:"displayed_link"`
	Source        string `json:"source"`
	Thumbnail     string `json:"thumbnail"`
}

// Config holds SerpAPI settings
type Config struct {
	APIKey     string
	BaseURL    string
	DailyQuota int
	Timeout    time.Duration
}

// Client handles communication with SerpAPI
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new SerpAPI client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DailyQuota <= 0 {
		cfg.DailyQuota = defaultDailyCap
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.DailyQuota)/secondsPerDay), cfg.DailyQuota),
		logger:      logging.Component(logger, "serpapi"),
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search runs one eco-biased Google search through SerpAPI. A single attempt is made.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: serpapi key missing", domain.ErrNotConfigured)
	}

	if !c.rateLimiter.Allow() {
		c.logger.Warn().Msg("daily search quota exhausted")
		return nil, fmt.Errorf("%w: serpapi daily quota exhausted", domain.ErrUpstreamFailure)
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", heuristics.BuildEcoQuery(query))
	params.Set("api_key", c.apiKey)
	params.Set("num", fmt.Sprintf("%d", resultsPerPage))
	params.Set("gl", "us")
	params.Set("hl", "en")
	params.Set("safe", "active")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamFailure, err)
	}

	var searchResp searchResponse
	decodeErr := json.Unmarshal(body, &searchResp)

	if resp.StatusCode != http.StatusOK || (decodeErr == nil && searchResp.Error != "") {
		message := string(body)
		if len(message) > maxErrorBody {
			message = message[:maxErrorBody]
		}
		if decodeErr == nil && searchResp.Error != "" {
			message = searchResp.Error
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("error", message).Msg("search failed")
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamFailure, resp.StatusCode, message)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, decodeErr)
	}

	hits := make([]domain.SearchHit, 0, len(searchResp.OrganicResults))
	for _, r := range searchResp.OrganicResults {
		link := strings.TrimSpace(r.Link)
		if link == "" {
			continue
		}
		hits = append(hits, domain.SearchHit{
			Title:       strings.TrimSpace(r.Title),
			Link:        link,
			Snippet:     strings.TrimSpace(r.Snippet),
			DisplayLink: displayHost(r),
			Image:       r.Thumbnail,
		})
	}

	c.logger.Debug().Int("hits", len(hits)).Str("query", query).Msg("search completed")
	return hits, nil
}

// displayHost returns the bare host of a result, like the Custom Search displayLink
func displayHost(r organicResult) string {
	if u, err := url.Parse(r.Link); err == nil && u.Host != "" {
		return u.Host
	}
	return r.DisplayedLink
}
