package generation

import (
	"context"
	"strings"

	"github.com/jonathan/proposal-agent/internal/llm"
	"github.com/jonathan/proposal-agent/internal/prompts"
	"github.com/jonathan/proposal-agent/internal/types"
)

// WriteCoverLetter runs the third model call: free-text cover letter
// content. The 250-350 word target lives in the prompt only; output is not
// rejected for missing it.
func WriteCoverLetter(ctx context.Context, client llm.Client, analysis *types.JobAnalysis, projectTexts []string, opts Options) (string, error) {
	prompt := prompts.Format(prompts.MustGet("generation.json", "cover-letter"), map[string]string{
		"PainPoints": strings.Join(analysis.PainPoints, ", "),
		"Persona":    analysis.Persona,
		"Projects":   strings.Join(projectTexts, "\n"),
	})

	var letter string
	err := opts.Retry.Do(ctx, func() error {
		raw, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
		if err != nil {
			return err
		}
		letter = strings.TrimSpace(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	return letter, nil
}
