package generation

import "fmt"

// ExcerptLimit bounds how much raw model output a ParseError carries.
const ExcerptLimit = 200

// ParseError indicates the model response could not be coerced into JSON
// after every recovery fallback. Excerpt holds a truncated copy of the raw
// response for diagnostics.
type ParseError struct {
	Message string
	Excerpt string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Excerpt != "" {
		return fmt.Sprintf("parse error: %s (response excerpt: %q)", e.Message, e.Excerpt)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// excerpt truncates raw model output for attachment to a ParseError.
func excerpt(raw string) string {
	if len(raw) > ExcerptLimit {
		return raw[:ExcerptLimit]
	}
	return raw
}
