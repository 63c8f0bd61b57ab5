package llm

import "fmt"

// RateLimitError indicates the provider throttled the request. Transient:
// the caller may retry after backing off.
type RateLimitError struct {
	Message string
	Cause   error
}

func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rate limited: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rate limited: %s", e.Message)
}

func (e *RateLimitError) Unwrap() error { return e.Cause }

// Retriable reports that rate-limit failures may be retried after a delay.
func (e *RateLimitError) Retriable() bool { return true }

// QuotaExceededError indicates the credential's quota is spent for the
// current period. Permanent: retrying will not help.
type QuotaExceededError struct {
	Message string
	Cause   error
}

func (e *QuotaExceededError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quota exceeded: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("quota exceeded: %s", e.Message)
}

func (e *QuotaExceededError) Unwrap() error { return e.Cause }

// Retriable reports that quota failures are not retriable.
func (e *QuotaExceededError) Retriable() bool { return false }

// AuthenticationError indicates invalid or insufficient credentials for an
// external backend. Not retriable; aborts the run.
type AuthenticationError struct {
	Message string
	Cause   error
}

func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// Retriable reports that authentication failures are not retriable.
func (e *AuthenticationError) Retriable() bool { return false }

// MalformedKeyError indicates the API key is missing or structurally invalid.
type MalformedKeyError struct {
	Message string
	Cause   error
}

func (e *MalformedKeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed API key: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed API key: %s", e.Message)
}

func (e *MalformedKeyError) Unwrap() error { return e.Cause }

// Retriable reports that malformed-key failures are not retriable.
func (e *MalformedKeyError) Retriable() bool { return false }

// ProviderError is a generic provider-side failure, retriable per the
// caller's retry policy.
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// Retriable reports that generic provider failures may be retried.
func (e *ProviderError) Retriable() bool { return true }

// retriable is implemented by classified errors that know whether a retry
// can succeed.
type retriable interface {
	Retriable() bool
}

// IsRetriable reports whether a classified error is worth retrying. Errors
// that carry no classification default to retriable, since a transient
// transport fault looks the same as any other wrapped error.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if r, ok := err.(retriable); ok {
		return r.Retriable()
	}
	return true
}
