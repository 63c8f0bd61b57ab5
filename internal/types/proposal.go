package types

import "time"

// ProposalPack is everything one generation run produces for the caller.
type ProposalPack struct {
	CoverLetter      string            `json:"cover_letter"`
	ScreeningAnswers map[string]string `json:"screening_answers"`
	SlideDeck        *SlideDeckSpec    `json:"slide_deck_spec"`
	Assumptions      []string          `json:"assumptions,omitempty"`
	PriceSignal      string            `json:"price_signal,omitempty"`
	PresentationID   string            `json:"presentation_id,omitempty"`
	PDF              []byte            `json:"-"`
}

// Run statuses.
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// Run is one append-only audit record of a generation attempt.
type Run struct {
	ID              int64     `json:"id"`
	JobTextHash     string    `json:"job_text_hash"`
	JobAnalysisJSON string    `json:"job_analysis_json,omitempty"`
	ProposalJSON    string    `json:"proposal_json,omitempty"`
	ModelName       string    `json:"model_name"`
	PresentationID  string    `json:"presentation_id,omitempty"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
