// Package generation drives the structured-output contract with the
// generative model: prompt construction, response parsing, schema
// validation, and retry-on-malformed-output for each proposal artifact.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/proposal-agent/internal/llm"
	"github.com/jonathan/proposal-agent/internal/prompts"
	"github.com/jonathan/proposal-agent/internal/schemas"
	"github.com/jonathan/proposal-agent/internal/types"
)

// DefaultMinJobTextLen is the floor below which a job posting is rejected
// as too short to analyze.
const DefaultMinJobTextLen = 50

// Options configures the schema-validated generation operations.
type Options struct {
	MinJobTextLen int
	Retry         Policy
}

func (o Options) minLen() int {
	if o.MinJobTextLen <= 0 {
		return DefaultMinJobTextLen
	}
	return o.MinJobTextLen
}

// AnalyzeJob runs the first model call: extract a structured JobAnalysis
// from raw job-posting text. The full request-and-parse cycle is retried
// per the options' policy; a partially-populated analysis is never returned.
func AnalyzeJob(ctx context.Context, client llm.Client, jobText string, opts Options) (*types.JobAnalysis, error) {
	trimmed := strings.TrimSpace(jobText)
	if len(trimmed) < opts.minLen() {
		return nil, &types.ValidationError{
			Field:   "job_text",
			Message: fmt.Sprintf("job text must be at least %d characters", opts.minLen()),
		}
	}

	prompt := prompts.Format(prompts.MustGet("generation.json", "analyze-job"), map[string]string{
		"JobText": trimmed,
		"Schema":  schemas.MustDescribe(schemas.JobAnalysis),
	})

	var analysis *types.JobAnalysis
	err := opts.Retry.Do(ctx, func() error {
		raw, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			return err
		}

		decoded, err := decodeAnalysis(raw)
		if err != nil {
			return err
		}
		analysis = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

func decodeAnalysis(raw string) (*types.JobAnalysis, error) {
	data, err := RecoverJSON(raw)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.JobAnalysis, data); err != nil {
		return nil, err
	}

	var analysis types.JobAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, &ParseError{
			Message: "failed to unmarshal job analysis",
			Excerpt: excerpt(raw),
			Cause:   err,
		}
	}

	if err := analysis.Validate(); err != nil {
		return nil, err
	}
	return &analysis, nil
}
