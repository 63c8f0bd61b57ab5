package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"api_key": "test-key",
		"database_url": "postgres://localhost/proposals",
		"min_job_text_len": 100,
		"retry_attempts": 5,
		"use_browser": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/proposals", cfg.DatabaseURL)
	assert.Equal(t, 100, cfg.MinJobTextLen)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.True(t, cfg.UseBrowser)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := &Config{MinJobTextLen: -1}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "min_job_text_len")
}

func TestValidate_RetryDelayOrdering(t *testing.T) {
	cfg := &Config{RetryBaseDelay: 30, RetryMaxDelay: 10}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "retry_base_delay")
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 70000}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_MissingCredentialsFile(t *testing.T) {
	cfg := &Config{GoogleCredentials: "/nonexistent/creds.json"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "credentials file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "explicit-key", RetryAttempts: 7}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "explicit-key", merged.APIKey)
	assert.Equal(t, 7, merged.RetryAttempts)
	assert.Equal(t, 50, merged.MinJobTextLen)
	assert.Equal(t, 2, merged.RetryBaseDelay)
	assert.Equal(t, 10, merged.RetryMaxDelay)
	assert.Equal(t, 8080, merged.Port)
}

func TestRetryDurations(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 2*time.Second, cfg.RetryBase())
	assert.Equal(t, 10*time.Second, cfg.RetryMax())
}
