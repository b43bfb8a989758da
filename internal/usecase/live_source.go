package usecase

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/heuristics"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

// DefaultFetchConcurrency bounds concurrent page fetches per search
const DefaultFetchConcurrency = 5

// LiveSource turns web search hits into products, optionally enriching each
// hit with data extracted from its page
type LiveSource struct {
	name        string
	search      domain.WebSearchClient
	fetcher     domain.PageFetcher
	concurrency int
	logger      zerolog.Logger
}

// NewLiveSource creates a live source. fetcher may be nil to skip page enrichment.
func NewLiveSource(name string, search domain.WebSearchClient, fetcher domain.PageFetcher, concurrency int, logger zerolog.Logger) *LiveSource {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	return &LiveSource{
		name:        name,
		search:      search,
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logging.Component(logger, name),
	}
}

// Name returns the source name used in logs
func (s *LiveSource) Name() string {
	return s.name
}

// Search queries the web search client and builds one product per product-page hit
func (s *LiveSource) Search(ctx context.Context, query string) ([]domain.Product, error) {
	hits, err := s.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates := productHits(hits)
	pages := make([]*domain.PageData, len(candidates))

	if s.fetcher != nil && len(candidates) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for i, hit := range candidates {
			g.Go(func() error {
				page, err := s.fetcher.Fetch(gctx, hit.Link)
				if err != nil {
					s.logger.Debug().Err(err).Str("url", hit.Link).Msg("page fetch failed, using search snippet")
					return nil
				}
				pages[i] = page
				return nil
			})
		}
		// Fetch errors are absorbed per item; Wait only joins.
		_ = g.Wait()
	}

	products := make([]domain.Product, 0, len(candidates))
	for i, hit := range candidates {
		products = append(products, buildLiveProduct(hit, pages[i]))
	}

	s.logger.Debug().Int("hits", len(hits)).Int("products", len(products)).Msg("live search done")
	return products, nil
}

// productHits keeps hits with a title and link that look like product pages, without duplicates
func productHits(hits []domain.SearchHit) []domain.SearchHit {
	seen := make(map[string]struct{}, len(hits))
	out := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if strings.TrimSpace(hit.Title) == "" || strings.TrimSpace(hit.Link) == "" {
			continue
		}
		if !heuristics.IsProductPage(hit.Link) {
			continue
		}
		key := heuristics.NormalizeURL(hit.Link)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, hit)
	}
	return out
}

// buildLiveProduct merges page fields over search-hit fields. page may be nil.
func buildLiveProduct(hit domain.SearchHit, page *domain.PageData) domain.Product {
	if page == nil {
		page = &domain.PageData{}
	}
	snippetText := hit.Title + " " + hit.Snippet

	p := domain.Product{
		ID:          "live-" + uuid.NewString(),
		Name:        firstNonEmpty(page.Name, hit.Title),
		Image:       firstNonEmpty(page.Image, hit.Image),
		Description: firstNonEmpty(page.Description, hit.Snippet),
		SourceURL:   hit.Link,
		SourceName:  firstNonEmpty(hit.DisplayLink, hostOf(hit.Link)),
	}

	if page.Price > 0 {
		p.Price = heuristics.RoundPrice(page.Price)
	} else {
		p.Price = heuristics.ExtractPrice(snippetText)
	}

	if len(page.Certifications) > 0 {
		p.Certifications = page.Certifications
	} else {
		p.Certifications = heuristics.ExtractCertifications(snippetText)
	}
	return p
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
