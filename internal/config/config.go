// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port                string        `env:"PORT" envDefault:"8080"`
	DBPath              string        `env:"CACHE_DB_PATH" envDefault:"planit_cache.db"`
	GoogleMapsAPIKey    string        `env:"GOOGLE_MAPS_API_KEY"`
	GoogleAPIKey        string        `env:"GOOGLE_API_KEY"`
	SimilarityThreshold float64       `env:"SIMILARITY_THRESHOLD" envDefault:"85"`
	CacheExpiryDays     int           `env:"CACHE_EXPIRY_DAYS" envDefault:"90"`
	MaxPhotoWidth       int           `env:"MAX_PHOTO_WIDTH" envDefault:"800"`
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// APIKey returns the provider credential, preferring GOOGLE_MAPS_API_KEY
// over the legacy GOOGLE_API_KEY name.
func (c *Config) APIKey() string {
	if c.GoogleMapsAPIKey != "" {
		return c.GoogleMapsAPIKey
	}
	return c.GoogleAPIKey
}
