package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching search responses
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// StateStore persists client-local state (cart, points) as opaque values
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ProductSource is a data source the search orchestrator can query
type ProductSource interface {
	Name() string
	Search(ctx context.Context, query string) ([]Product, error)
}

// WebSearchClient defines the interface for a web search API
type WebSearchClient interface {
	Search(ctx context.Context, query string) ([]SearchHit, error)
}

// PageFetcher fetches a product page and extracts its fields
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*PageData, error)
}

// Catalog is the read-only fallback catalog
type Catalog interface {
	Categories() []string
	CategoryProducts(category string) []CatalogEntry
	Aliases() []CategoryAliases
	BrandWebsite(brand string) string
}
