package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/headlandsdaily/coast-events/internal/aggregate"
	"github.com/headlandsdaily/coast-events/internal/fetch"
)

// Config is the runtime configuration for the events service.
type Config struct {
	Server  ServerConfig  `json:"server"`
	Fetch   FetchConfig   `json:"fetch"`
	Sources SourcesConfig `json:"sources"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port           int           `json:"port"`
	Origins        []string      `json:"origins"`
	HandlerTimeout time.Duration `json:"handler_timeout"`
}

// FetchConfig contains scraping and aggregation timing.
type FetchConfig struct {
	Timeout          time.Duration `json:"timeout"`
	AggregateTimeout time.Duration `json:"aggregate_timeout"`
	CacheTTL         time.Duration `json:"cache_ttl"`
}

// SourcesConfig points at the optional source registry file. When Path is
// empty the built-in descriptors are used.
type SourcesConfig struct {
	Path string `json:"path"`
}

// Load reads configuration from the environment. A local .env file is
// loaded first if present.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("COAST_PORT", 4000),
			Origins:        getEnvAsList("COAST_ORIGINS", nil),
			HandlerTimeout: getEnvAsDuration("COAST_HANDLER_TIMEOUT", 15*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:          getEnvAsDuration("COAST_FETCH_TIMEOUT", fetch.DefaultTimeout),
			AggregateTimeout: getEnvAsDuration("COAST_AGGREGATE_TIMEOUT", aggregate.DefaultTimeout),
			CacheTTL:         getEnvAsDuration("COAST_CACHE_TTL", fetch.DefaultTTL),
		},
		Sources: SourcesConfig{
			Path: getEnvOrDefault("COAST_SOURCES", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("invalid fetch timeout: %s", c.Fetch.Timeout)
	}
	if c.Fetch.AggregateTimeout < c.Fetch.Timeout {
		return fmt.Errorf("aggregate timeout %s must not be shorter than fetch timeout %s",
			c.Fetch.AggregateTimeout, c.Fetch.Timeout)
	}
	if c.Server.HandlerTimeout < c.Fetch.AggregateTimeout {
		return fmt.Errorf("handler timeout %s must not be shorter than aggregate timeout %s",
			c.Server.HandlerTimeout, c.Fetch.AggregateTimeout)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
