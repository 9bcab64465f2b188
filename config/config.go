package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Load loads the configuration from file. A missing config file is not an
// error when no explicit path was given; the defaults describe the public
// Letterboxd site.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".filmfusion"))
		}

		// Check /etc
		v.AddConfigPath("/etc/filmfusion/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		if configPath != "" {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Letterboxd defaults
	v.SetDefault("letterboxd.base_url", "https://letterboxd.com")
	v.SetDefault("letterboxd.timeout", 10*time.Second)
	v.SetDefault("letterboxd.max_retries", 3)
	v.SetDefault("letterboxd.retry_wait", time.Second)
	v.SetDefault("letterboxd.page_delay", time.Second)
	v.SetDefault("letterboxd.cloudflare_bypass", false)

	// Database defaults
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.path", "filmfusion.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Letterboxd.BaseURL == "" {
		return fmt.Errorf("letterboxd.base_url is required")
	}
	if u, err := url.Parse(cfg.Letterboxd.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("letterboxd.base_url must be a valid URL")
	}

	if cfg.Letterboxd.MaxRetries < 1 {
		return fmt.Errorf("letterboxd.max_retries must be at least 1")
	}

	if cfg.Database.Enabled && cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required when database.enabled is true")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
