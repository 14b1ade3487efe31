package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends accepted by LEADDESK_STORAGE
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds the application configuration
type Config struct {
	Environment   string        `env:"LEADDESK_ENV" envDefault:"development"`
	APIURL        string        `env:"LEADDESK_API_URL" envDefault:"http://localhost:3000"`
	AppURL        string        `env:"LEADDESK_APP_URL" envDefault:"http://localhost:5173/"`
	DefaultTenant string        `env:"LEADDESK_DEFAULT_TENANT" envDefault:"tenant1"`
	Storage       string        `env:"LEADDESK_STORAGE" envDefault:"file"`
	StoragePath   string        `env:"LEADDESK_STORAGE_PATH"`
	RedisURL      string        `env:"LEADDESK_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix   string        `env:"LEADDESK_REDIS_PREFIX" envDefault:"leaddesk:"`
	HTTPTimeout   time.Duration `env:"LEADDESK_HTTP_TIMEOUT" envDefault:"10s"`
	BoardCacheTTL time.Duration `env:"LEADDESK_BOARD_CACHE_TTL" envDefault:"30s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	DemoSecret    string        `env:"LEADDESK_DEMO_SECRET" envDefault:"leaddesk-demo"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath()
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the loaded values are usable
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("invalid LEADDESK_API_URL: %w", err)
	}
	if _, err := url.Parse(c.AppURL); err != nil {
		return fmt.Errorf("invalid LEADDESK_APP_URL: %w", err)
	}
	switch c.Storage {
	case StorageFile, StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("invalid LEADDESK_STORAGE: %q (want file, memory or redis)", c.Storage)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid LEADDESK_HTTP_TIMEOUT: must be positive")
	}
	if c.DefaultTenant == "" {
		return fmt.Errorf("invalid LEADDESK_DEFAULT_TENANT: must not be empty")
	}
	return nil
}

// IsDevelopment reports whether the CLI runs against a local development backend
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".leaddesk", "storage.json")
}
