package generation

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/proposal-agent/internal/llm"
)

// RecoverJSON coerces a raw model response into a syntactically valid JSON
// object. The response may carry markdown fences, surrounding prose, or
// stray trailing text even when the prompt demanded JSON only, so recovery
// cascades:
//
//  1. strip markdown fences and try the text as-is
//  2. extract the first brace-delimited object found anywhere in the text
//  3. strip newlines and extract again
//
// When every fallback fails the returned ParseError carries a truncated
// excerpt of the raw response.
func RecoverJSON(raw string) ([]byte, error) {
	candidate := llm.CleanJSONBlock(raw)
	if json.Valid([]byte(candidate)) {
		return []byte(candidate), nil
	}

	if extracted := llm.ExtractJSONObject(candidate); extracted != "" && json.Valid([]byte(extracted)) {
		return []byte(extracted), nil
	}

	flattened := strings.NewReplacer("\n", " ", "\r", " ").Replace(candidate)
	if extracted := llm.ExtractJSONObject(flattened); extracted != "" && json.Valid([]byte(extracted)) {
		return []byte(extracted), nil
	}

	return nil, &ParseError{
		Message: "no JSON object found in model response",
		Excerpt: excerpt(raw),
	}
}
