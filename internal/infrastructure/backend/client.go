// Package backend talks to an external scrape backend that exposes
// POST /api/search and POST /api/extract-product.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/heuristics"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

// SourceName identifies the backend among product sources
const SourceName = "backend"

const (
	searchPath     = "/api/search"
	extractPath    = "/api/extract-product"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1 << 10
)

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Products []domain.Product `json:"products"`
}

type extractRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client handles communication with the scrape backend
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a backend client. An empty baseURL leaves it unconfigured.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logging.Component(logger, "backend"),
	}
}

// Name returns the source name used in logs
func (c *Client) Name() string {
	return SourceName
}

// Configured reports whether a backend URL is set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Search asks the backend for products. Every returned product gets a fresh id.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	var resp searchResponse
	if err := c.post(ctx, searchPath, searchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		p.ID = "backend-" + uuid.NewString()
		p.Price = heuristics.RoundPrice(p.Price)
		if len(p.Certifications) == 0 {
			p.Certifications = heuristics.ExtractCertifications(p.Name + " " + p.Description)
		}
		products = append(products, p)
	}

	c.logger.Debug().Str("query", query).Int("products", len(products)).Msg("backend search completed")
	return products, nil
}

// Fetch asks the backend to extract the product fields of pageURL
func (c *Client) Fetch(ctx context.Context, pageURL string) (*domain.PageData, error) {
	var data domain.PageData
	if err := c.post(ctx, extractPath, extractRequest{URL: pageURL}, &data); err != nil {
		return nil, err
	}
	data.Price = heuristics.RoundPrice(data.Price)
	return &data, nil
}

// post sends body as JSON and decodes a 2xx JSON answer into out. A single attempt is made.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	if !c.Configured() {
		return fmt.Errorf("%w: backend url missing", domain.ErrNotConfigured)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrUpstreamFailure, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := errorMessage(respBody)
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Str("error", message).Msg("backend request failed")
		return fmt.Errorf("%w: backend status %d: %s", domain.ErrUpstreamFailure, resp.StatusCode, message)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// errorMessage prefers the {error, message} body the backend sends on failure
func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && (e.Error != "" || e.Message != "") {
		if e.Message != "" {
			return strings.TrimSpace(e.Error + ": " + e.Message)
		}
		return e.Error
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
