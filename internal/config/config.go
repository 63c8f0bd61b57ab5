// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags or environment variables.
type Config struct {
	// Credentials
	APIKey            string `json:"api_key,omitempty"`            // Gemini API key
	GoogleCredentials string `json:"google_credentials,omitempty"` // Path to service account JSON for Slides/Drive
	DatabaseURL       string `json:"database_url,omitempty"`       // PostgreSQL connection URL

	// Models
	Model string `json:"model,omitempty"` // Override for all model tiers

	// Generation behavior
	MinJobTextLen  int `json:"min_job_text_len,omitempty"` // Minimum job text length before analysis
	RetryAttempts  int `json:"retry_attempts,omitempty"`   // Max LLM attempts per stage
	RetryBaseDelay int `json:"retry_base_delay,omitempty"` // Initial backoff in seconds
	RetryMaxDelay  int `json:"retry_max_delay,omitempty"`  // Backoff ceiling in seconds

	// Fetching
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for SPA job boards

	// Server
	Port        int  `json:"port,omitempty"`             // HTTP listen port
	CallsPerMin int  `json:"calls_per_minute,omitempty"` // Per-caller rate limit, 0 disables
	Verbose     bool `json:"verbose,omitempty"`          // Debug logging
}

// Defaults returns the baseline configuration applied under any file or flag
// values.
func Defaults() Config {
	return Config{
		MinJobTextLen:  50,
		RetryAttempts:  3,
		RetryBaseDelay: 2,
		RetryMaxDelay:  10,
		Port:           8080,
		CallsPerMin:    10,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MinJobTextLen < 0 {
		return fmt.Errorf("config error: 'min_job_text_len' must be non-negative")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("config error: 'retry_attempts' must be non-negative")
	}
	if c.RetryBaseDelay < 0 || c.RetryMaxDelay < 0 {
		return fmt.Errorf("config error: retry delays must be non-negative")
	}
	if c.RetryBaseDelay > 0 && c.RetryMaxDelay > 0 && c.RetryBaseDelay > c.RetryMaxDelay {
		return fmt.Errorf("config error: 'retry_base_delay' exceeds 'retry_max_delay'")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.CallsPerMin < 0 {
		return fmt.Errorf("config error: 'calls_per_minute' must be non-negative")
	}

	if c.GoogleCredentials != "" {
		if _, err := os.Stat(c.GoogleCredentials); os.IsNotExist(err) {
			return fmt.Errorf("config error: credentials file not found: %s", c.GoogleCredentials)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GoogleCredentials == "" {
		result.GoogleCredentials = defaults.GoogleCredentials
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}

	if result.MinJobTextLen == 0 {
		result.MinJobTextLen = defaults.MinJobTextLen
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = defaults.RetryAttempts
	}
	if result.RetryBaseDelay == 0 {
		result.RetryBaseDelay = defaults.RetryBaseDelay
	}
	if result.RetryMaxDelay == 0 {
		result.RetryMaxDelay = defaults.RetryMaxDelay
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CallsPerMin == 0 {
		result.CallsPerMin = defaults.CallsPerMin
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// RetryBase returns the configured base backoff as a duration.
func (c *Config) RetryBase() time.Duration {
	return time.Duration(c.RetryBaseDelay) * time.Second
}

// RetryMax returns the configured backoff ceiling as a duration.
func (c *Config) RetryMax() time.Duration {
	return time.Duration(c.RetryMaxDelay) * time.Second
}
