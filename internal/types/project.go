// Package types defines the shared data structures exchanged between pipeline stages.
package types

import (
	"strings"
	"time"
)

// Project is a single past-work record in the digital twin. Projects are
// append-only: once stored they are never updated or deleted.
type Project struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	TechTags      []string  `json:"tech_tags" validate:"required,min=1"`
	Outcomes      string    `json:"outcomes" validate:"required"`
	Vertical      string    `json:"vertical,omitempty"`
	PortfolioLink string    `json:"portfolio_link,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "validation error in " + e.Field + ": " + e.Message
	}
	return "validation error: " + e.Message
}

// Validate checks the required-field invariant for a project before insert.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(p.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if len(nonEmptyTags(p.TechTags)) == 0 {
		return &ValidationError{Field: "tech_tags", Message: "at least one tech tag is required"}
	}
	if strings.TrimSpace(p.Outcomes) == "" {
		return &ValidationError{Field: "outcomes", Message: "outcomes is required"}
	}
	return nil
}

// nonEmptyTags filters blank entries out of a tag list.
func nonEmptyTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeTags trims whitespace and drops empty entries, preserving order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ScoredProject pairs a project with its relevance score for one job
// analysis. Scores are not comparable across analyses and are not persisted.
type ScoredProject struct {
	Project Project `json:"project"`
	Score   float64 `json:"score"`
}
