package relevance

import (
	"fmt"
	"strings"

	"github.com/jonathan/proposal-agent/internal/types"
)

// FallbackText stands in for project evidence when scoring is unavailable.
// Relevance is a best-effort enhancement: the pipeline proceeds with this
// placeholder rather than failing the whole run.
const FallbackText = "No specific past projects available; emphasize general expertise and approach."

// FormatForPrompt renders each selected project into the fixed-shape text
// block embedded in generation prompts. This is prompt text, not a data
// structure consumed programmatically.
func FormatForPrompt(scored []types.ScoredProject) []string {
	formatted := make([]string, 0, len(scored))
	for _, sp := range scored {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("\nProject: %s\n", sp.Project.Name))
		sb.WriteString(fmt.Sprintf("Description: %s\n", sp.Project.Description))
		sb.WriteString(fmt.Sprintf("Tech Used: %s\n", strings.Join(sp.Project.TechTags, ", ")))
		sb.WriteString(fmt.Sprintf("Outcomes: %s\n", sp.Project.Outcomes))
		if sp.Project.PortfolioLink != "" {
			sb.WriteString(fmt.Sprintf("Link: %s\n", sp.Project.PortfolioLink))
		}
		formatted = append(formatted, sb.String())
	}
	return formatted
}
