package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "3001" {
			t.Errorf("Server.Port = %s, want 3001", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		wantOrigins := []string{"http://localhost:5173", "http://localhost:8080"}
		if !reflect.DeepEqual(cfg.Server.AllowedOrigins, wantOrigins) {
			t.Errorf("Server.AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, wantOrigins)
		}
		wantSources := []string{"google", "serpapi", "backend"}
		if !reflect.DeepEqual(cfg.Search.Sources, wantSources) {
			t.Errorf("Search.Sources = %v, want %v", cfg.Search.Sources, wantSources)
		}
		if !cfg.Search.Fallback {
			t.Error("Search.Fallback = false, want true")
		}
		if cfg.Search.MaxResults != 10 {
			t.Errorf("Search.MaxResults = %d, want 10", cfg.Search.MaxResults)
		}
		if cfg.Google.BaseURL != "https://www.googleapis.com/customsearch/v1" {
			t.Errorf("Google.BaseURL = %s", cfg.Google.BaseURL)
		}
		if cfg.Google.APIKey != "" || cfg.SerpAPI.APIKey != "" {
			t.Error("credentials should default to empty")
		}
		if cfg.Scraper.Renderer != "http" {
			t.Errorf("Scraper.Renderer = %s, want http", cfg.Scraper.Renderer)
		}
		if cfg.Scraper.Timeout != 20*time.Second {
			t.Errorf("Scraper.Timeout = %v, want 20s", cfg.Scraper.Timeout)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %s, want memory", cfg.Store.Type)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.SearchAPI != 100 {
			t.Errorf("RateLimit.SearchAPI = %d, want 100", cfg.RateLimit.SearchAPI)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ECOSHOP_SERVER_PORT", "9090")
		t.Setenv("ECOSHOP_SERVER_ENVIRONMENT", "production")
		t.Setenv("ECOSHOP_GOOGLE_API_KEY", "google-key")
		t.Setenv("ECOSHOP_GOOGLE_CSE_ID", "cse-id")
		t.Setenv("ECOSHOP_SEARCH_SOURCES", "serpapi, Google")
		t.Setenv("ECOSHOP_SEARCH_FALLBACK", "false")
		t.Setenv("ECOSHOP_SCRAPER_RENDERER", "browser")
		t.Setenv("ECOSHOP_CACHE_TYPE", "redis")
		t.Setenv("ECOSHOP_CACHE_REDIS_URL", "redis://localhost:6379")
		t.Setenv("ECOSHOP_CACHE_TTL", "24h")
		t.Setenv("ECOSHOP_STORE_TYPE", "sqlite")
		t.Setenv("ECOSHOP_RATELIMIT_PER_IP", "200")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Google.APIKey != "google-key" || cfg.Google.CSEID != "cse-id" {
			t.Errorf("Google = %+v", cfg.Google)
		}
		wantSources := []string{"serpapi", "google"}
		if !reflect.DeepEqual(cfg.Search.Sources, wantSources) {
			t.Errorf("Search.Sources = %v, want %v", cfg.Search.Sources, wantSources)
		}
		if cfg.Search.Fallback {
			t.Error("Search.Fallback = true, want false")
		}
		if cfg.Scraper.Renderer != "browser" {
			t.Errorf("Scraper.Renderer = %s, want browser", cfg.Scraper.Renderer)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Store.Type != "sqlite" {
			t.Errorf("Store.Type = %s, want sqlite", cfg.Store.Type)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads values from .env file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ECOSHOP_SERPAPI_API_KEY", "")
		os.Unsetenv("ECOSHOP_SERPAPI_API_KEY")

		if err := os.WriteFile(".env", []byte("ECOSHOP_SERPAPI_API_KEY=from-dotenv\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.SerpAPI.APIKey != "from-dotenv" {
			t.Errorf("SerpAPI.APIKey = %s, want from-dotenv", cfg.SerpAPI.APIKey)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ECOSHOP_CACHE_TYPE", "invalid")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ECOSHOP_CACHE_TYPE", "redis")

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("skips empty lines and comments", func(t *testing.T) {
		t.Chdir(t.TempDir())

		envContent := `
# This is a comment

TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("TEST_SKIP_1")
			os.Unsetenv("TEST_SKIP_2")
		})

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 not loaded correctly")
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 not loaded correctly")
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Search:  SearchConfig{Sources: []string{"google"}, MaxResults: 10},
			Scraper: ScraperConfig{Renderer: "http"},
			Cache:   CacheConfig{Type: "memory"},
			Store:   StoreConfig{Type: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid without credentials", func(*Config) {}, false},
		{"valid redis with URL", func(c *Config) { c.Cache = CacheConfig{Type: "redis", RedisURL: "redis://localhost:6379"} }, false},
		{"valid sqlite store", func(c *Config) { c.Store.Type = "sqlite" }, false},
		{"valid backend renderer", func(c *Config) { c.Scraper.Renderer = "backend" }, false},
		{"no sources", func(c *Config) { c.Search.Sources = nil }, false},
		{"invalid cache type", func(c *Config) { c.Cache.Type = "invalid-type" }, true},
		{"redis without URL", func(c *Config) { c.Cache.Type = "redis" }, true},
		{"invalid store type", func(c *Config) { c.Store.Type = "postgres" }, true},
		{"invalid renderer", func(c *Config) { c.Scraper.Renderer = "lynx" }, true},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }, true},
		{"unknown source", func(c *Config) { c.Search.Sources = []string{"bing"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	got := normalizeList([]string{"google, serpapi", " ", "backend"})
	want := []string{"google", "serpapi", "backend"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeList() = %v, want %v", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := `
server:
  port: "4000"
search:
  sources: [serpapi]
  max_results: 5
cache:
  ttl: 10m
`
	path := dir + "/ecoshop.yaml"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v, want nil", err)
	}
	if cfg.Server.Port != "4000" {
		t.Errorf("Server.Port = %s, want 4000", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Search.Sources, []string{"serpapi"}) {
		t.Errorf("Search.Sources = %v, want [serpapi]", cfg.Search.Sources)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("Search.MaxResults = %d, want 5", cfg.Search.MaxResults)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
	}
	if !cfg.Search.Fallback {
		t.Error("defaults should still apply to keys absent from the file")
	}

	if _, err := LoadFile(dir + "/missing.yaml"); err == nil {
		t.Error("LoadFile() error = nil, want error for missing explicit file")
	}
}
