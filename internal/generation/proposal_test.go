package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/proposal-agent/internal/types"
)

func TestAssumptions(t *testing.T) {
	analysis := &types.JobAnalysis{
		UnspokenNeeds:  []string{"documentation handover", "production monitoring"},
		TimelineSignal: types.TimelineUrgent,
	}

	assumptions := Assumptions(analysis)
	assert.Len(t, assumptions, 3)
	assert.Contains(t, assumptions[0], "documentation handover")
	assert.Contains(t, assumptions[2], "within one week")
}

func TestAssumptions_Empty(t *testing.T) {
	assert.Empty(t, Assumptions(&types.JobAnalysis{TimelineSignal: types.TimelineStandard}))
}

func TestPriceSignal(t *testing.T) {
	tests := []struct {
		budget string
		want   string
	}{
		{types.BudgetEnterprise, "premium"},
		{types.BudgetBootstrap, "value"},
		{types.BudgetMidMarket, "standard"},
		{types.SignalUnknown, "standard"},
		{"", "standard"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceSignal(&types.JobAnalysis{BudgetSignal: tt.budget}))
	}
}
