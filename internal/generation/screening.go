package generation

import (
	"fmt"
	"strings"

	"github.com/jonathan/proposal-agent/internal/types"
)

// ScreeningAnswers produces answers to common screening questions. These
// are deliberately deterministic templates parameterized by the analyzed
// tech stack: screening answers are generic boilerplate, not job-specific
// synthesis, so no model call is spent on them.
func ScreeningAnswers(analysis *types.JobAnalysis) map[string]string {
	techs := analysis.TechStack
	if len(techs) > 2 {
		techs = techs[:2]
	}
	techSummary := strings.Join(techs, ", ")
	if techSummary == "" {
		techSummary = "the required technologies"
	}

	answers := make(map[string]string, 5)
	answers["What's your availability?"] = "Available immediately for this project."
	answers["What's your hourly rate or project fee?"] = "Rates vary based on scope; happy to discuss."
	answers["Can you work in our timezone?"] = "Yes, flexible with timezone and working hours."
	answers["Tell us about your experience with [tech]."] = fmt.Sprintf("Extensive experience with %s and related tech.", techSummary)
	answers["How do you handle revisions?"] = "Unlimited revisions until you're satisfied; quality is my priority."
	return answers
}
