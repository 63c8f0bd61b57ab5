package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-agent/internal/llm"
	"github.com/jonathan/proposal-agent/internal/schemas"
	"github.com/jonathan/proposal-agent/internal/types"
)

// stub is one canned model response.
type stub struct {
	text string
	err  error
}

// fakeClient replays canned responses in order, repeating the last one when
// the queue runs dry.
type fakeClient struct {
	jsonStubs    []stub
	contentStubs []stub
	jsonCalls    int
	contentCalls int
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	s := pick(f.jsonStubs, f.jsonCalls)
	f.jsonCalls++
	return s.text, s.err
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	s := pick(f.contentStubs, f.contentCalls)
	f.contentCalls++
	return s.text, s.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func pick(stubs []stub, call int) stub {
	if len(stubs) == 0 {
		return stub{err: fmt.Errorf("no stubbed response")}
	}
	if call >= len(stubs) {
		return stubs[len(stubs)-1]
	}
	return stubs[call]
}

func fastOptions() Options {
	return Options{Retry: Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}}
}

func validAnalysisJSON() string {
	return `{
		"pain_points": ["manual reporting eats hours", "no real-time visibility"],
		"persona": "startup-informal",
		"tech_stack": ["Go", "PostgreSQL"],
		"unspoken_needs": ["someone who can own the whole stack"],
		"budget_signal": "mid-market",
		"timeline_signal": "urgent"
	}`
}

func validDeckJSON() string {
	deck := types.SlideDeckSpec{
		PresentationTitle: "Proposal",
		ProposalIntro:     "Intro",
		CTAStatement:      "Book a call",
	}
	for i := 1; i <= types.DeckSlideCount; i++ {
		deck.Slides = append(deck.Slides, types.Slide{
			SlideNumber: i,
			Title:       fmt.Sprintf("Slide %d", i),
			SlideType:   types.SlideTypeContent,
			Sections: []types.Section{
				{Type: types.SectionParagraph, Content: types.SectionContent{Text: "body"}},
			},
		})
	}
	data, err := json.Marshal(deck)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func sampleAnalysis() *types.JobAnalysis {
	return &types.JobAnalysis{
		PainPoints:     []string{"manual reporting eats hours"},
		Persona:        "technical",
		TechStack:      []string{"Go", "PostgreSQL", "Redis"},
		BudgetSignal:   types.BudgetMidMarket,
		TimelineSignal: types.TimelineUrgent,
	}
}

func longJobText() string {
	return "We need a senior backend engineer to rebuild our reporting pipeline in Go. " +
		"The current system takes hours to produce daily numbers and management has no real-time visibility."
}

func TestAnalyzeJob_TooShort(t *testing.T) {
	client := &fakeClient{}
	_, err := AnalyzeJob(context.Background(), client, "too short", fastOptions())

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "job_text", verr.Field)
	assert.Zero(t, client.jsonCalls, "short input must not reach the model")
}

func TestAnalyzeJob_Success(t *testing.T) {
	client := &fakeClient{jsonStubs: []stub{{text: validAnalysisJSON()}}}

	analysis, err := AnalyzeJob(context.Background(), client, longJobText(), fastOptions())
	require.NoError(t, err)

	assert.Len(t, analysis.PainPoints, 2)
	assert.Equal(t, "startup-informal", analysis.Persona)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, analysis.TechStack)
}

func TestAnalyzeJob_FencedResponse(t *testing.T) {
	client := &fakeClient{jsonStubs: []stub{
		{text: "```json\n" + validAnalysisJSON() + "\n```"},
	}}

	analysis, err := AnalyzeJob(context.Background(), client, longJobText(), fastOptions())
	require.NoError(t, err)
	assert.Equal(t, "mid-market", analysis.BudgetSignal)
}

func TestAnalyzeJob_RetriesMalformedResponse(t *testing.T) {
	client := &fakeClient{jsonStubs: []stub{
		{text: "definitely not json"},
		{text: validAnalysisJSON()},
	}}

	analysis, err := AnalyzeJob(context.Background(), client, longJobText(), fastOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, client.jsonCalls)
	assert.NotNil(t, analysis)
}

func TestAnalyzeJob_SchemaViolationExhaustsRetries(t *testing.T) {
	// Valid JSON, but missing the required pain_points field.
	client := &fakeClient{jsonStubs: []stub{
		{text: `{"persona": "technical", "tech_stack": [], "unspoken_needs": [], "budget_signal": "unknown", "timeline_signal": "unknown"}`},
	}}

	_, err := AnalyzeJob(context.Background(), client, longJobText(), fastOptions())
	require.Error(t, err)
	assert.Equal(t, 3, client.jsonCalls)

	var verr *schemas.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAnalyzeJob_FailsFastOnAuthError(t *testing.T) {
	client := &fakeClient{jsonStubs: []stub{
		{err: &llm.AuthenticationError{Message: "bad key"}},
	}}

	_, err := AnalyzeJob(context.Background(), client, longJobText(), fastOptions())
	require.Error(t, err)
	assert.Equal(t, 1, client.jsonCalls)
}

func TestGenerateDeck_Success(t *testing.T) {
	client := &fakeClient{jsonStubs: []stub{{text: validDeckJSON()}}}

	deck, err := GenerateDeck(context.Background(), client, sampleAnalysis(), []string{"Project: X"}, "", fastOptions())
	require.NoError(t, err)
	assert.Len(t, deck.Slides, types.DeckSlideCount)
	assert.Equal(t, "Proposal", deck.PresentationTitle)
}

func TestGenerateDeck_WrongSlideCountRejected(t *testing.T) {
	var deck types.SlideDeckSpec
	require.NoError(t, json.Unmarshal([]byte(validDeckJSON()), &deck))
	deck.Slides = deck.Slides[:7]
	data, err := json.Marshal(deck)
	require.NoError(t, err)

	client := &fakeClient{jsonStubs: []stub{{text: string(data)}}}

	_, err = GenerateDeck(context.Background(), client, sampleAnalysis(), nil, "", fastOptions())
	require.Error(t, err)
	assert.Equal(t, 3, client.jsonCalls, "a wrong-shaped deck is retried, never padded")
}

func TestWriteCoverLetter_TrimsWhitespace(t *testing.T) {
	client := &fakeClient{contentStubs: []stub{{text: "\n\nDear client,\n...\n\n"}}}

	letter, err := WriteCoverLetter(context.Background(), client, sampleAnalysis(), nil, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, "Dear client,\n...", letter)
}

func TestScreeningAnswers_UsesTopTwoTechs(t *testing.T) {
	answers := ScreeningAnswers(sampleAnalysis())

	assert.Len(t, answers, 5)
	experience := answers["Tell us about your experience with [tech]."]
	assert.Contains(t, experience, "Go, PostgreSQL")
	assert.NotContains(t, experience, "Redis")
}

func TestScreeningAnswers_EmptyTechStack(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.TechStack = nil

	answers := ScreeningAnswers(analysis)
	assert.Contains(t, answers["Tell us about your experience with [tech]."], "the required technologies")
}

func TestScreeningAnswers_Deterministic(t *testing.T) {
	a := ScreeningAnswers(sampleAnalysis())
	b := ScreeningAnswers(sampleAnalysis())
	assert.Equal(t, a, b)
}
