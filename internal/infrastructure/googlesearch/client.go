// Package googlesearch queries the Google Custom Search JSON API.
package googlesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/heuristics"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

// DefaultBaseURL is the Custom Search JSON API endpoint
const DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

const (
	resultsPerPage  = 10
	maxErrorBody    = 1 << 10
	secondsPerDay   = 24 * 60 * 60
	defaultTimeout  = 30 * time.Second
	defaultDailyCap = 100
)

// Config holds Google Custom Search settings
type Config struct {
	APIKey     string
	CSEID      string
	BaseURL    string
	DailyQuota int
	Timeout    time.Duration
}

// Client handles communication with the Custom Search API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	cseID       string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new Custom Search client
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

	// The free tier allows a fixed number of queries per day. The whole
	// quota is available as burst and refills evenly over the day.
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.DailyQuota)/secondsPerDay), cfg.DailyQuota)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:      cfg.APIKey,
		cseID:       cfg.CSEID,
		baseURL:     cfg.BaseURL,
		rateLimiter: limiter,
		logger:      logging.Component(logger, "google"),
	}
}

// Configured reports whether both credentials are present
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.cseID != ""
}

// Search runs one eco-biased web search. A single attempt is made.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: google api key or search engine id missing", domain.ErrNotConfigured)
	}

	if !c.rateLimiter.Allow() {
		c.logger.Warn().Msg("daily search quota exhausted")
		return nil, fmt.Errorf("%w: google daily quota exhausted", domain.ErrUpstreamFailure)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cseID)
	params.Set("q", heuristics.BuildEcoQuery(query))
	params.Set("num", fmt.Sprintf("%d", resultsPerPage))
	params.Set("safe", "active")
	params.Set("lr", "lang_en")
	params.Set("cr", "countryUS")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("query", query).Msg("searching")

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

	if resp.StatusCode != http.StatusOK || (decodeErr == nil && searchResp.Error != nil) {
		message := truncate(string(body), maxErrorBody)
		if decodeErr == nil && searchResp.Error != nil {
			message = searchResp.Error.Message
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("error", message).Msg("search failed")
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamFailure, resp.StatusCode, message)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, decodeErr)
	}

	hits := MapToSearchHits(searchResp.Items)
	c.logger.Debug().Int("hits", len(hits)).Str("query", query).Msg("search completed")
	return hits, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
