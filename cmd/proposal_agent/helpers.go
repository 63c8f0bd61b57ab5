package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/proposal-agent/internal/config"
	"github.com/jonathan/proposal-agent/internal/generation"
	"github.com/jonathan/proposal-agent/internal/ingest"
	"github.com/jonathan/proposal-agent/internal/llm"
)

// resolveAPIKey returns the flag value or falls back to GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
}

// resolveDatabaseURL returns the flag value or falls back to DATABASE_URL.
func resolveDatabaseURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
}

// newLLMClient builds a Gemini client, applying a single model override to
// all tiers when set.
func newLLMClient(ctx context.Context, apiKey, modelOverride string) (llm.Client, error) {
	cfg := llm.DefaultConfig()
	if modelOverride != "" {
		cfg = cfg.WithAllModels(modelOverride)
	}
	return llm.NewClient(ctx, cfg, apiKey)
}

// loadJobText reads a job posting from a local file or fetches it from a
// URL. Exactly one of jobPath and jobURL must be set; the caller validates
// that.
func loadJobText(ctx context.Context, jobPath, jobURL string, useBrowser bool) (string, error) {
	if jobURL != "" {
		return ingest.FetchJobPosting(ctx, jobURL, useBrowser)
	}
	data, err := os.ReadFile(jobPath)
	if err != nil {
		return "", fmt.Errorf("failed to read job file %s: %w", jobPath, err)
	}
	return ingest.CleanText(string(data)), nil
}

// retryPolicy converts config retry settings to a generation policy.
func retryPolicy(cfg config.Config) generation.Policy {
	return generation.Policy{
		MaxAttempts: cfg.RetryAttempts,
		BaseDelay:   time.Duration(cfg.RetryBaseDelay) * time.Second,
		MaxDelay:    time.Duration(cfg.RetryMaxDelay) * time.Second,
	}
}
