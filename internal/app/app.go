// Package app wires configuration into the services shared by the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/config"
	httpDelivery "github.com/ecoshop/backend/internal/delivery/http"
	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/infrastructure/backend"
	"github.com/ecoshop/backend/internal/infrastructure/cache"
	"github.com/ecoshop/backend/internal/infrastructure/catalog"
	"github.com/ecoshop/backend/internal/infrastructure/googlesearch"
	"github.com/ecoshop/backend/internal/infrastructure/scraper"
	"github.com/ecoshop/backend/internal/infrastructure/serpapi"
	"github.com/ecoshop/backend/internal/infrastructure/store"
	"github.com/ecoshop/backend/internal/usecase"
)

// App holds the wired services
type App struct {
	Config        *config.Config
	Logger        zerolog.Logger
	Catalog       *catalog.Catalog
	CatalogSource *usecase.CatalogSource
	Search        *usecase.SearchService
	Cart          *usecase.CartService
	Points        *usecase.PointsService
	Pages         domain.PageFetcher

	// SourceNames lists the live sources in attempt order
	SourceNames []string

	closers []func() error
}

// New builds every component from cfg. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.Catalog = cat
	a.CatalogSource = usecase.NewCatalogSource(cat)

	searchCache, err := a.newCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	states, err := a.newStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	backendClient := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, logger)
	a.Pages = a.newPageFetcher(backendClient)

	var enrich domain.PageFetcher
	if cfg.Search.EnrichPages {
		enrich = a.Pages
	}

	sources := a.newSources(backendClient, enrich)

	a.Search = usecase.NewSearchService(
		searchCache,
		sources,
		a.CatalogSource,
		usecase.SearchServiceConfig{
			CacheTTL:   cfg.Cache.TTL,
			MaxResults: cfg.Search.MaxResults,
			Fallback:   cfg.Search.Fallback,
		},
		logger,
	)
	a.Cart = usecase.NewCartService(states, logger)
	a.Points = usecase.NewPointsService(states, logger)

	logger.Info().
		Strs("sources", a.SourceNames).
		Bool("fallback", cfg.Search.Fallback).
		Str("cache", cfg.Cache.Type).
		Str("store", cfg.Store.Type).
		Str("renderer", cfg.Scraper.Renderer).
		Msg("components ready")

	return a, nil
}

// Router builds the HTTP router over the wired services
func (a *App) Router() *gin.Engine {
	handler := httpDelivery.NewHandler(httpDelivery.HandlerDeps{
		Search:  a.Search,
		Catalog: a.Catalog,
		Cart:    a.Cart,
		Points:  a.Points,
		Pages:   a.Pages,
		DocsDir: a.Config.Server.DocsDir,
	}, a.Logger)
	return httpDelivery.SetupRouter(a.Config, handler, a.Logger)
}

// Close releases caches, stores and browsers in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) newCache(ctx context.Context) (domain.CacheRepository, error) {
	switch a.Config.Cache.Type {
	case "redis":
		c, err := cache.NewRedisCache(ctx, a.Config.Cache.RedisURL, cache.DefaultKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		return c, nil
	default:
		c := cache.NewMemoryCache(cache.DefaultCleanupInterval)
		a.closers = append(a.closers, c.Close)
		return c, nil
	}
}

func (a *App) newStore(ctx context.Context) (domain.StateStore, error) {
	switch a.Config.Store.Type {
	case "sqlite":
		s, err := store.NewSQLiteStore(ctx, a.Config.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	default:
		s := store.NewMemoryStore()
		a.closers = append(a.closers, s.Close)
		return s, nil
	}
}

// newPageFetcher picks the page renderer. The backend renderer needs a backend URL
// and otherwise degrades to plain HTTP.
func (a *App) newPageFetcher(backendClient *backend.Client) domain.PageFetcher {
	cfg := a.Config.Scraper
	switch cfg.Renderer {
	case "browser":
		b := scraper.NewBrowserFetcher(cfg.Timeout, a.Logger)
		a.closers = append(a.closers, b.Close)
		return b
	case "backend":
		if backendClient.Configured() {
			return backendClient
		}
		a.Logger.Warn().Msg("scraper renderer is backend but backend.url is empty, using http")
	}

	return scraper.NewFetcher(scraper.Config{
		ScraperAPIKey:  cfg.APIKey,
		ScraperBaseURL: cfg.BaseURL,
		Timeout:        cfg.Timeout,
	}, a.Logger)
}

// newSources builds the configured live sources in order, skipping unconfigured ones
func (a *App) newSources(backendClient *backend.Client, pages domain.PageFetcher) []domain.ProductSource {
	cfg := a.Config
	concurrency := cfg.Search.FetchConcurrency

	var sources []domain.ProductSource
	for _, name := range cfg.Search.Sources {
		var source domain.ProductSource

		switch name {
		case "google":
			client := googlesearch.NewClient(googlesearch.Config{
				APIKey:     cfg.Google.APIKey,
				CSEID:      cfg.Google.CSEID,
				BaseURL:    cfg.Google.BaseURL,
				DailyQuota: cfg.RateLimit.SearchAPI,
			}, a.Logger)
			if client.Configured() {
				source = usecase.NewLiveSource(name, client, pages, concurrency, a.Logger)
			}
		case "serpapi":
			client := serpapi.NewClient(serpapi.Config{
				APIKey:     cfg.SerpAPI.APIKey,
				BaseURL:    cfg.SerpAPI.BaseURL,
				DailyQuota: cfg.RateLimit.SearchAPI,
			}, a.Logger)
			if client.Configured() {
				source = usecase.NewLiveSource(name, client, pages, concurrency, a.Logger)
			}
		case "backend":
			if backendClient.Configured() {
				source = backendClient
			}
		}

		if source == nil {
			a.Logger.Info().Str("source", name).Msg("source not configured, skipping")
			continue
		}
		sources = append(sources, source)
		a.SourceNames = append(a.SourceNames, name)
	}
	return sources
}
