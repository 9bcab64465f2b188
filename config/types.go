package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Letterboxd LetterboxdConfig `mapstructure:"letterboxd"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// LetterboxdConfig holds scraping connection and pacing settings
type LetterboxdConfig struct {
	BaseURL string `mapstructure:"base_url"`

	// Timeout is the per-request timeout; exceeding it counts as a
	// transient failure against the retry budget.
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxRetries is the total attempt budget per request, including the
	// initial attempt.
	MaxRetries int `mapstructure:"max_retries"`

	// RetryWait is the base backoff between retry attempts.
	RetryWait time.Duration `mapstructure:"retry_wait"`

	// PageDelay is the fixed delay enforced between watchlist page fetches.
	PageDelay time.Duration `mapstructure:"page_delay"`

	// CloudflareBypass routes requests through a transport that passes
	// Cloudflare's browser checks.
	CloudflareBypass bool `mapstructure:"cloudflare_bypass"`
}

// DatabaseConfig holds local persistence settings
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
