package generation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/proposal-agent/internal/llm"
	"github.com/jonathan/proposal-agent/internal/prompts"
	"github.com/jonathan/proposal-agent/internal/schemas"
	"github.com/jonathan/proposal-agent/internal/types"
)

// GenerateDeck runs the second model call: produce the full 8-slide deck
// specification. toneOverride, when non-empty, replaces the persona detected
// during analysis as the writing tone. A deck with the wrong slide count or
// shape fails validation; it is never silently padded or truncated.
func GenerateDeck(ctx context.Context, client llm.Client, analysis *types.JobAnalysis, projectTexts []string, toneOverride string, opts Options) (*types.SlideDeckSpec, error) {
	tone := toneOverride
	if tone == "" {
		tone = analysis.Persona
	}

	prompt := prompts.Format(prompts.MustGet("generation.json", "generate-deck"), map[string]string{
		"PainPoints": strings.Join(analysis.PainPoints, ", "),
		"Tone":       tone,
		"TechStack":  strings.Join(analysis.TechStack, ", "),
		"Timeline":   analysis.TimelineSignal,
		"Budget":     analysis.BudgetSignal,
		"Projects":   strings.Join(projectTexts, "\n"),
		"Schema":     schemas.MustDescribe(schemas.SlideDeck),
	})

	var deck *types.SlideDeckSpec
	err := opts.Retry.Do(ctx, func() error {
		raw, err := client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		if err != nil {
			return err
		}

		decoded, err := decodeDeck(raw)
		if err != nil {
			return err
		}
		deck = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

func decodeDeck(raw string) (*types.SlideDeckSpec, error) {
	data, err := RecoverJSON(raw)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.SlideDeck, data); err != nil {
		return nil, err
	}

	var deck types.SlideDeckSpec
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, &ParseError{
			Message: "failed to unmarshal slide deck",
			Excerpt: excerpt(raw),
			Cause:   err,
		}
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}
