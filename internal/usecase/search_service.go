package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/heuristics"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

// MaxSearchResults is the hard cap on products returned by one search
const MaxSearchResults = 10

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL   time.Duration
	MaxResults int
	// Fallback enables the catalog source when every live source fails
	Fallback bool
}

// SearchService runs a query through the live sources in order and degrades
// to the catalog when none of them answers
type SearchService struct {
	cache      domain.CacheRepository
	sources    []domain.ProductSource
	fallback   domain.ProductSource
	cacheTTL   time.Duration
	maxResults int
	fallbackOn bool
	logger     zerolog.Logger
}

// NewSearchService creates a search service. cache and fallback may be nil.
func NewSearchService(
	cache domain.CacheRepository,
	sources []domain.ProductSource,
	fallback domain.ProductSource,
	config SearchServiceConfig,
	logger zerolog.Logger,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	maxResults := config.MaxResults
	if maxResults <= 0 || maxResults > MaxSearchResults {
		maxResults = MaxSearchResults
	}

	return &SearchService{
		cache:      cache,
		sources:    sources,
		fallback:   fallback,
		cacheTTL:   cacheTTL,
		maxResults: maxResults,
		fallbackOn: config.Fallback && fallback != nil,
		logger:     logging.Component(logger, "search"),
	}
}

// Search returns at most MaxSearchResults eco products for query.
// Flow: check cache -> live sources in order -> relevance filter -> cache -> return,
// with the catalog answering when no live source succeeds.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Product{}, nil
	}

	cacheKey, cacheable := generateCacheKey(query)
	if !cacheable {
		s.logger.Debug().Str("query", query).Msg("query has no cacheable characters, bypassing cache")
	} else if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		s.logger.Debug().Str("query", query).Int("products", len(cached)).Msg("cache hit")
		return cached, nil
	}

	var lastErr error
	for _, source := range s.sources {
		products, err := source.Search(ctx, query)
		if err != nil {
			lastErr = err
			s.logger.Warn().Err(err).Str("source", source.Name()).Str("query", query).Msg("source failed, trying next")
			continue
		}

		products = s.truncate(filterRelevant(query, products))
		if cacheable {
			s.setInCache(ctx, cacheKey, products)
		}

		s.logger.Info().Str("source", source.Name()).Str("query", query).Int("products", len(products)).Msg("search completed")
		return products, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no live source configured")
	}

	if !s.fallbackOn {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, lastErr)
	}

	products, err := s.fallback.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: fallback: %v", domain.ErrSearchUnavailable, err)
	}
	products = s.truncate(products)

	s.logger.Info().Str("source", s.fallback.Name()).Str("query", query).Int("products", len(products)).Msg("served from fallback")
	return products, nil
}

// filterRelevant keeps products that mention at least one query term
func filterRelevant(query string, products []domain.Product) []domain.Product {
	terms := heuristics.QueryTerms(query)
	relevant := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if heuristics.IsRelevant(terms, p.Name+" "+p.Description) {
			relevant = append(relevant, p)
		}
	}
	return relevant
}

func (s *SearchService) truncate(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	if len(products) > s.maxResults {
		return products[:s.maxResults]
	}
	return products
}

// generateCacheKey creates a normalized cache key.
// Format: "search:{normalized_query}". It reports false when nothing is left to key on.
func generateCacheKey(query string) (string, bool) {
	normalized := normalizeForCacheKey(query)
	if normalized == "" {
		return "", false
	}
	return "search:" + normalized, true
}

// normalizeForCacheKey lower-cases s, drops punctuation and collapses whitespace.
// Letters and digits of any script and symbols such as '+' are kept.
func normalizeForCacheKey(s string) string {
	result := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(result), " ")
}

// getFromCache returns cached products with fresh ids
func (s *SearchService) getFromCache(ctx context.Context, key string) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return nil, false
	}

	for i := range products {
		products[i].ID = refreshID(products[i].ID)
	}
	return s.truncate(products), true
}

// setInCache stores non-empty results. Failures are logged, never returned.
func (s *SearchService) setInCache(ctx context.Context, key string, products []domain.Product) {
	if s.cache == nil || len(products) == 0 {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		s.logger.Warn().Err(err).Msg("encode products for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// refreshID keeps the source prefix of an id ("live", "backend", ...) and replaces the rest
func refreshID(id string) string {
	prefix, _, found := strings.Cut(id, "-")
	if !found || prefix == "" {
		prefix = "cached"
	}
	return prefix + "-" + uuid.NewString()
}
