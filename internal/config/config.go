// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

// Config holds everything the client needs to talk to the ledger service
// and to keep its local session state.
type Config struct {
	// APIBaseURL is the root of the ledger service's REST API.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`

	// SessionDBPath is where the persisted session token and cached user
	// live between runs.
	SessionDBPath string `env:"SESSION_DB_PATH" envDefault:"./data/session.db"`

	// HTTPTimeout bounds every individual request to the ledger service.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`

	// SearchDebounce is how long member-search input must settle before a
	// query is issued.
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`

	// MetricsAddr, when set, serves Prometheus metrics on this address
	// (e.g. ":9190"). Empty disables the listener.
	MetricsAddr string `env:"METRICS_ADDR"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
