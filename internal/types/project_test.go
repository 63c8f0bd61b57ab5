package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Validate_Valid(t *testing.T) {
	project := Project{
		Name:        "Analytics Dashboard",
		Description: "Built a real-time dashboard",
		TechTags:    []string{"Go", "PostgreSQL"},
		Outcomes:    "Cut reporting latency by 80%",
	}
	assert.NoError(t, project.Validate())
}

func TestProject_Validate_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		field   string
	}{
		{
			name:    "missing name",
			project: Project{Description: "d", TechTags: []string{"Go"}, Outcomes: "o"},
			field:   "name",
		},
		{
			name:    "missing description",
			project: Project{Name: "n", TechTags: []string{"Go"}, Outcomes: "o"},
			field:   "description",
		},
		{
			name:    "missing tech tags",
			project: Project{Name: "n", Description: "d", Outcomes: "o"},
			field:   "tech_tags",
		},
		{
			name:    "only blank tech tags",
			project: Project{Name: "n", Description: "d", TechTags: []string{" ", ""}, Outcomes: "o"},
			field:   "tech_tags",
		},
		{
			name:    "missing outcomes",
			project: Project{Name: "n", Description: "d", TechTags: []string{"Go"}},
			field:   "outcomes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Go ", "", "PostgreSQL", "  "})
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got)
}
