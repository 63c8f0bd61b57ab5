package generation

import (
	"fmt"

	"github.com/jonathan/proposal-agent/internal/types"
)

// Assumptions states the scope assumptions the proposal is priced under,
// derived from what the posting implies but does not say outright.
func Assumptions(analysis *types.JobAnalysis) []string {
	var assumptions []string
	for _, need := range analysis.UnspokenNeeds {
		assumptions = append(assumptions, fmt.Sprintf("Scope includes: %s.", need))
	}
	switch analysis.TimelineSignal {
	case types.TimelineUrgent:
		assumptions = append(assumptions, "Estimates assume a start within one week of acceptance.")
	case types.TimelineFlexible:
		assumptions = append(assumptions, "Milestones can be rescheduled without cost impact.")
	}
	return assumptions
}

// PriceSignal maps the detected budget posture onto a pricing tier hint for
// the caller. Unknown postures price as standard.
func PriceSignal(analysis *types.JobAnalysis) string {
	switch analysis.BudgetSignal {
	case types.BudgetEnterprise:
		return "premium"
	case types.BudgetBootstrap:
		return "value"
	default:
		return "standard"
	}
}
