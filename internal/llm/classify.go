package llm

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Classify turns a raw provider failure into one of the typed error kinds,
// using the structured status code and reason fields rather than matching
// on vendor message text. The result drives the retry policy: retriable
// kinds keep spending attempts, the rest fail fast.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Context cancellation is the caller's signal, not a provider fault.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// Already classified upstream.
	var (
		rateErr  *RateLimitError
		quotaErr *QuotaExceededError
		authErr  *AuthenticationError
		keyErr   *MalformedKeyError
		provErr  *ProviderError
	)
	if errors.As(err, &rateErr) || errors.As(err, &quotaErr) ||
		errors.As(err, &authErr) || errors.As(err, &keyErr) || errors.As(err, &provErr) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr, err)
	}

	return &ProviderError{Message: "call failed", Cause: err}
}

func classifyAPIError(apiErr *googleapi.Error, cause error) error {
	switch apiErr.Code {
	case http.StatusTooManyRequests:
		if hasReason(apiErr, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceededQuota") {
			return &QuotaExceededError{Message: "provider quota exhausted", Cause: cause}
		}
		return &RateLimitError{Message: "provider throttled the request", Cause: cause}
	case http.StatusUnauthorized:
		return &AuthenticationError{Message: "credential rejected", Cause: cause}
	case http.StatusForbidden:
		if hasReason(apiErr, "quotaExceeded", "dailyLimitExceeded") {
			return &QuotaExceededError{Message: "provider quota exhausted", Cause: cause}
		}
		return &AuthenticationError{Message: "insufficient permissions", Cause: cause}
	case http.StatusBadRequest:
		if hasReason(apiErr, "API_KEY_INVALID", "keyInvalid", "badRequest_keyInvalid") {
			return &MalformedKeyError{Message: "key rejected by provider", Cause: cause}
		}
		return &ProviderError{Message: "request rejected", Cause: cause}
	default:
		return &ProviderError{Message: "call failed", Cause: cause}
	}
}

// hasReason reports whether any structured error item carries one of the
// given reason codes.
func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	for _, detail := range apiErr.Details {
		m, ok := detail.(map[string]interface{})
		if !ok {
			continue
		}
		got, ok := m["reason"].(string)
		if !ok {
			continue
		}
		for _, reason := range reasons {
			if got == reason {
				return true
			}
		}
	}
	return false
}
