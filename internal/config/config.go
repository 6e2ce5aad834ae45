package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database. Empty selects the in-memory store and ledger, for
	// development and tests.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Matching
	MatchThreshold float64 `envconfig:"MATCH_THRESHOLD" default:"0.6"`
	EmbeddingDim   int     `envconfig:"EMBEDDING_DIM" default:"128"`

	// FacilityTZ is the IANA time zone that defines the day boundary for
	// attendance dedup. One zone for the whole facility, applied everywhere.
	FacilityTZ string `envconfig:"FACILITY_TZ" default:"UTC"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Location resolves FacilityTZ.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.FacilityTZ)
	if err != nil {
		return nil, fmt.Errorf("load facility time zone %q: %w", c.FacilityTZ, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
