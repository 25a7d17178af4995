package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the Kagi MCP service
type Config struct {
	// HTTP Server
	HTTPPort  string `env:"KAGI_MCP_HTTP_PORT" envDefault:"8091"`
	LogLevel  string `env:"KAGI_MCP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"KAGI_MCP_LOG_FORMAT" envDefault:"json"` // json or console

	// Kagi API
	KagiAPIKey      string `env:"KAGI_API_KEY"`
	KagiBaseURL     string `env:"KAGI_API_BASE_URL" envDefault:"https://kagi.com/api/v0"`
	KagiHTTPTimeout int    `env:"KAGI_HTTP_TIMEOUT" envDefault:"15"` // seconds

	// Summarizer
	SummarizerEngine string `env:"KAGI_SUMMARIZER_ENGINE" envDefault:"cecil"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.KagiAPIKey) == "" {
		return nil, fmt.Errorf("KAGI_API_KEY is required")
	}
	if cfg.KagiHTTPTimeout <= 0 {
		return nil, fmt.Errorf("KAGI_HTTP_TIMEOUT must be positive, got %d", cfg.KagiHTTPTimeout)
	}
	return cfg, nil
}

// HTTPTimeout returns the per-request Kagi API timeout as a duration
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.KagiHTTPTimeout) * time.Second
}
