package types

// Persona values the analyzer is asked to choose from. The field is an open
// tag-set: the model may return other free-text values and they are kept.
const (
	PersonaTechnical       = "technical"
	PersonaCorporate       = "corporate"
	PersonaStartupInformal = "startup-informal"
	PersonaDirect          = "direct"
)

// Budget and timeline signal values.
const (
	BudgetEnterprise = "enterprise"
	BudgetMidMarket  = "mid-market"
	BudgetBootstrap  = "bootstrap"

	TimelineUrgent   = "urgent"
	TimelineStandard = "standard"
	TimelineFlexible = "flexible"

	SignalUnknown = "unknown"
)

// JobAnalysis is the structured extraction from a raw job posting, produced
// once per submission and read-only afterward.
type JobAnalysis struct {
	PainPoints          []string `json:"pain_points"`
	Persona             string   `json:"persona"`
	TechStack           []string `json:"tech_stack"`
	UnspokenNeeds       []string `json:"unspoken_needs"`
	BudgetSignal        string   `json:"budget_signal"`
	TimelineSignal      string   `json:"timeline_signal"`
	RedFlags            []string `json:"red_flags,omitempty"`
	ClarifyingQuestions []string `json:"clarifying_questions,omitempty"`
}

// Validate enforces the post-generation invariant: a successful analysis
// always carries at least one pain point.
func (a *JobAnalysis) Validate() error {
	if len(a.PainPoints) == 0 {
		return &ValidationError{Field: "pain_points", Message: "at least one pain point is required"}
	}
	return nil
}
