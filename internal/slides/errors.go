package slides

import "fmt"

// AuthenticationError indicates the service-account credential was rejected
// or could not be loaded. Not retriable; fails the run immediately.
type AuthenticationError struct {
	Message string
	Cause   error
}

func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("slides authentication failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("slides authentication failed: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// RenderError indicates the presentation backend rejected or failed a
// render request.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render failed: %s", e.Message)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// ExportError indicates the document export or cleanup call failed.
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export failed: %s", e.Message)
}

func (e *ExportError) Unwrap() error { return e.Cause }
