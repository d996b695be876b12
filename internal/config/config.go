package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server      ServerConfig
	App         AppConfig
	Cache       CacheConfig
	Source      SourceConfig
	AI          AIConfig
	Catalog     CatalogConfig
	ImageSearch ImageSearchConfig
	Enrich      EnrichConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"lexiillc-ecommerce"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds cache backend settings. The raw inventory snapshot uses
// TTL; enrichment entries use the TTLs in EnrichConfig.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SourceConfig holds point-of-sale inventory source settings.
type SourceConfig struct {
	BaseURL  string        `envconfig:"SOURCE_BASE_URL" default:""`
	Token    string        `envconfig:"SOURCE_TOKEN" default:""`
	PageSize int           `envconfig:"SOURCE_PAGE_SIZE" default:"100"`
	MaxPages int           `envconfig:"SOURCE_MAX_PAGES" default:"20"`
	Timeout  time.Duration `envconfig:"SOURCE_TIMEOUT" default:"30s"`
}

// AIConfig holds settings for the AI name-normalization service.
type AIConfig struct {
	BaseURL string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com"`
	APIKey  string        `envconfig:"AI_API_KEY" default:""`
	Model   string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"AI_TIMEOUT" default:"5s"`
}

// CatalogConfig holds settings for the external product catalog search.
type CatalogConfig struct {
	BaseURL string        `envconfig:"CATALOG_BASE_URL" default:""`
	Token   string        `envconfig:"CATALOG_TOKEN" default:""`
	Timeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
}

// ImageSearchConfig holds settings for the image-search provider. An empty
// APIKey disables the provider entirely.
type ImageSearchConfig struct {
	BaseURL string        `envconfig:"IMAGE_SEARCH_BASE_URL" default:""`
	APIKey  string        `envconfig:"IMAGE_SEARCH_API_KEY" default:""`
	Timeout time.Duration `envconfig:"IMAGE_SEARCH_TIMEOUT" default:"10s"`
}

// EnrichConfig holds enrichment pipeline settings.
type EnrichConfig struct {
	BatchSize       int           `envconfig:"ENRICH_BATCH_SIZE" default:"10"`
	BatchInterval   time.Duration `envconfig:"ENRICH_BATCH_INTERVAL" default:"100ms"`
	TTL             time.Duration `envconfig:"ENRICH_TTL" default:"24h"`
	FallbackTTL     time.Duration `envconfig:"ENRICH_FALLBACK_TTL" default:"5m"`
	DefaultPageSize int           `envconfig:"ENRICH_DEFAULT_PAGE_SIZE" default:"20"`
	MaxPageSize     int           `envconfig:"ENRICH_MAX_PAGE_SIZE" default:"100"`
	Prefetch        bool          `envconfig:"ENRICH_PREFETCH" default:"true"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
