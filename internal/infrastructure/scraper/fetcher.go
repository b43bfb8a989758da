// Package scraper fetches product pages and extracts their fields.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

// DefaultScraperAPIURL is the ScraperAPI proxy endpoint
const DefaultScraperAPIURL = "https://api.scraperapi.com"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const defaultTimeout = 20 * time.Second

// Config holds page fetcher settings
type Config struct {
	// ScraperAPIKey routes fetches through ScraperAPI when set
	ScraperAPIKey  string
	ScraperBaseURL string
	Timeout        time.Duration
}

// Fetcher downloads product pages over HTTP with colly
type Fetcher struct {
	collector *colly.Collector
	apiKey    string
	baseURL   string
	logger    zerolog.Logger
}

// NewFetcher creates a page fetcher
func NewFetcher(cfg Config, logger zerolog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ScraperBaseURL == "" {
		cfg.ScraperBaseURL = DefaultScraperAPIURL
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		collector: c,
		apiKey:    cfg.ScraperAPIKey,
		baseURL:   cfg.ScraperBaseURL,
		logger:    logging.Component(logger, "scraper"),
	}
}

// Fetch downloads pageURL and extracts its product fields. A single attempt is made.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*domain.PageData, error) {
	target := f.requestURL(pageURL)

	// Clones share the HTTP backend but not callbacks, so concurrent fetches stay independent
	c := f.collector.Clone()
	c.Context = ctx

	var body []byte
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	start := time.Now()
	if err := c.Visit(target); err != nil {
		f.logger.Debug().Err(err).Str("url", pageURL).Msg("page fetch failed")
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrUpstreamFailure, pageURL, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: fetch %s: empty response", domain.ErrUpstreamFailure, pageURL)
	}

	f.logger.Debug().
		Str("url", pageURL).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("page fetched")

	return ExtractProductData(body, pageURL)
}

// requestURL wraps pageURL in a ScraperAPI request when a key is configured
func (f *Fetcher) requestURL(pageURL string) string {
	if f.apiKey == "" {
		return pageURL
	}
	params := url.Values{}
	params.Set("api_key", f.apiKey)
	params.Set("url", pageURL)
	return f.baseURL + "?" + params.Encode()
}
