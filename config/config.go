package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Search    SearchConfig    `mapstructure:"search"`
	Google    GoogleConfig    `mapstructure:"google"`
	SerpAPI   SerpAPIConfig   `mapstructure:"serpapi"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	DocsDir        string   `mapstructure:"docs_dir"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// SearchConfig controls the search orchestrator
type SearchConfig struct {
	Sources          []string `mapstructure:"sources"` // attempt order
	Fallback         bool     `mapstructure:"fallback"`
	EnrichPages      bool     `mapstructure:"enrich_pages"`
	MaxResults       int      `mapstructure:"max_results"`
	FetchConcurrency int      `mapstructure:"fetch_concurrency"`
}

// GoogleConfig holds Google Custom Search configuration
type GoogleConfig struct {
	APIKey  string `mapstructure:"api_key"`
	CSEID   string `mapstructure:"cse_id"`
	BaseURL string `mapstructure:"base_url"`
}

// SerpAPIConfig holds SerpAPI configuration
type SerpAPIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// ScraperConfig holds product page fetching configuration
type ScraperConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Renderer string        `mapstructure:"renderer"` // "http", "browser" or "backend"
	Timeout  time.Duration `mapstructure:"timeout"`
}

// BackendConfig holds the external scrape backend configuration
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CatalogConfig points at an alternative catalog file. Empty uses the built-in catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds cart and points persistence configuration
type StoreConfig struct {
	Type       string `mapstructure:"type"` // "memory" or "sqlite"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int `mapstructure:"per_ip"`     // requests per minute
	SearchAPI int `mapstructure:"search_api"` // outbound search calls per day
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the default locations.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ecoshop/")
	}

	// Environment variable settings: ECOSHOP_GOOGLE_API_KEY -> google.api_key
	v.SetEnvPrefix("ECOSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Search.Sources = normalizeList(config.Search.Sources)
	for i, source := range config.Search.Sources {
		config.Search.Sources[i] = strings.ToLower(source)
	}
	config.Server.AllowedOrigins = normalizeList(config.Server.AllowedOrigins)

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("server.docs_dir", "./api")

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Search defaults
	v.SetDefault("search.sources", []string{"google", "serpapi", "backend"})
	v.SetDefault("search.fallback", true)
	v.SetDefault("search.enrich_pages", true)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.fetch_concurrency", 5)

	// Provider defaults; credentials stay empty unless configured
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.cse_id", "")
	v.SetDefault("google.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com/search.json")

	// Scraper defaults
	v.SetDefault("scraper.api_key", "")
	v.SetDefault("scraper.base_url", "https://api.scraperapi.com")
	v.SetDefault("scraper.renderer", "http")
	v.SetDefault("scraper.timeout", "20s")

	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("catalog.path", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.sqlite_path", "./ecoshop.db")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.search_api", 100)
}

// validate validates the configuration. Missing credentials are allowed.
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Store.Type != "memory" && config.Store.Type != "sqlite" {
		return fmt.Errorf("store type must be 'memory' or 'sqlite', got: %s", config.Store.Type)
	}

	switch config.Scraper.Renderer {
	case "http", "browser", "backend":
	default:
		return fmt.Errorf("scraper renderer must be 'http', 'browser' or 'backend', got: %s", config.Scraper.Renderer)
	}

	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("search max_results must be positive, got: %d", config.Search.MaxResults)
	}

	for _, source := range config.Search.Sources {
		switch source {
		case "google", "serpapi", "backend":
		default:
			return fmt.Errorf("unknown search source: %s", source)
		}
	}

	return nil
}

// normalizeList splits comma-joined entries, trims them and drops empty ones,
// so both "google, serpapi" and a YAML list decode alike
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
