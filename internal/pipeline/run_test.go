package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-agent/internal/generation"
	"github.com/jonathan/proposal-agent/internal/llm"
	"github.com/jonathan/proposal-agent/internal/ratelimit"
	"github.com/jonathan/proposal-agent/internal/relevance"
	"github.com/jonathan/proposal-agent/internal/types"
)

type fakeLLM struct {
	jsonResponses   []string
	jsonErr         error
	jsonCalls       int
	contentResponse string
	contentErr      error
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	if f.jsonErr != nil {
		return "", f.jsonErr
	}
	if f.jsonCalls >= len(f.jsonResponses) {
		return "", fmt.Errorf("unexpected JSON call %d", f.jsonCalls)
	}
	resp := f.jsonResponses[f.jsonCalls]
	f.jsonCalls++
	return resp, nil
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.contentResponse, f.contentErr
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

type fakeStore struct {
	projects []types.Project
	err      error
}

func (f *fakeStore) ListProjects(context.Context) ([]types.Project, error) {
	return f.projects, f.err
}

type fakeRuns struct {
	records []*types.Run
	err     error
}

func (f *fakeRuns) RecordRun(_ context.Context, run *types.Run) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, run)
	return nil
}

type fakeRenderer struct {
	id  string
	err error
}

func (f *fakeRenderer) Render(context.Context, *types.SlideDeckSpec) (string, error) {
	return f.id, f.err
}

type fakeExporter struct {
	pdf       []byte
	exportErr error
	cleaned   []string
}

func (f *fakeExporter) ExportPDF(_ context.Context, id string) ([]byte, error) {
	return f.pdf, f.exportErr
}

func (f *fakeExporter) Cleanup(_ context.Context, id string) error {
	f.cleaned = append(f.cleaned, id)
	return nil
}

func analysisJSON() string {
	return `{
		"pain_points": ["reporting is slow"],
		"persona": "technical",
		"tech_stack": ["Go"],
		"unspoken_needs": [],
		"budget_signal": "unknown",
		"timeline_signal": "standard"
	}`
}

func deckJSON() string {
	deck := types.SlideDeckSpec{
		PresentationTitle: "Proposal",
		ProposalIntro:     "Intro",
		CTAStatement:      "CTA",
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
	data, _ := json.Marshal(deck)
	return string(data)
}

func jobText() string {
	return "We are a logistics startup drowning in manual spreadsheet reporting and need a Go engineer to automate our data pipeline end to end."
}

func testGenerator(client llm.Client) *Generator {
	return &Generator{
		LLM:    client,
		Logger: zerolog.Nop(),
		Options: Options{
			Retry: generation.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		},
	}
}

func TestGenerate_FullRun(t *testing.T) {
	client := &fakeLLM{
		jsonResponses:   []string{analysisJSON(), deckJSON()},
		contentResponse: "Dear client, here is my proposal.",
	}
	store := &fakeStore{projects: []types.Project{
		{ID: 1, Name: "Pipeline", Description: "ETL", TechTags: []string{"Go"}, Outcomes: "fast"},
	}}
	runs := &fakeRuns{}
	renderer := &fakeRenderer{id: "pres-123"}
	exporter := &fakeExporter{pdf: []byte("%PDF-fake")}

	g := testGenerator(client)
	g.Store = store
	g.Runs = runs
	g.Renderer = renderer
	g.Exporter = exporter

	var stages []string
	result, err := g.Generate(context.Background(), Request{
		JobText:    jobText(),
		CallerID:   "test",
		RenderDeck: true,
		OnProgress: func(e ProgressEvent) { stages = append(stages, e.Stage) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"reporting is slow"}, result.Analysis.PainPoints)
	assert.Len(t, result.Proposal.SlideDeck.Slides, types.DeckSlideCount)
	assert.Equal(t, "Dear client, here is my proposal.", result.Proposal.CoverLetter)
	assert.Len(t, result.Proposal.ScreeningAnswers, 5)
	assert.Equal(t, "standard", result.Proposal.PriceSignal)
	assert.Equal(t, "pres-123", result.Proposal.PresentationID)
	assert.Equal(t, []byte("%PDF-fake"), result.Proposal.PDF)

	assert.Equal(t, []string{"pres-123"}, exporter.cleaned, "presentation is cleaned up after export")
	assert.Equal(t, []string{"analyze", "score", "deck", "render", "export", "cover_letter"}, stages)

	require.Len(t, runs.records, 1)
	run := runs.records[0]
	assert.Equal(t, types.RunStatusSuccess, run.Status)
	assert.Equal(t, HashJobText(jobText()), run.JobTextHash)
	assert.Equal(t, "fake-model", run.ModelName)
	assert.Equal(t, "pres-123", run.PresentationID)
	assert.NotEmpty(t, run.JobAnalysisJSON)
	assert.NotEmpty(t, run.ProposalJSON)
}

func TestGenerate_WithoutRendering(t *testing.T) {
	client := &fakeLLM{
		jsonResponses:   []string{analysisJSON(), deckJSON()},
		contentResponse: "letter",
	}
	g := testGenerator(client)
	g.Runs = &fakeRuns{}

	result, err := g.Generate(context.Background(), Request{JobText: jobText(), CallerID: "test"})
	require.NoError(t, err)
	assert.Empty(t, result.Proposal.PresentationID)
	assert.Nil(t, result.Proposal.PDF)
}

func TestGenerate_AnalysisFailureRecordsFailedRun(t *testing.T) {
	client := &fakeLLM{jsonErr: &llm.AuthenticationError{Message: "bad key"}}
	runs := &fakeRuns{}
	g := testGenerator(client)
	g.Runs = runs

	_, err := g.Generate(context.Background(), Request{JobText: jobText(), CallerID: "test"})
	require.Error(t, err)

	require.Len(t, runs.records, 1)
	run := runs.records[0]
	assert.Equal(t, types.RunStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "bad key")
	assert.Empty(t, run.JobAnalysisJSON)
}

func TestGenerate_StoreFailureDegradesToFallback(t *testing.T) {
	client := &fakeLLM{
		jsonResponses:   []string{analysisJSON(), deckJSON()},
		contentResponse: "letter",
	}
	g := testGenerator(client)
	g.Store = &fakeStore{err: errors.New("connection refused")}
	g.Runs = &fakeRuns{}

	result, err := g.Generate(context.Background(), Request{JobText: jobText(), CallerID: "test"})
	require.NoError(t, err, "storage faults must not fail the run")
	assert.NotNil(t, result.Proposal.SlideDeck)
}

func TestGenerate_EmptyStoreUsesFallback(t *testing.T) {
	g := testGenerator(&fakeLLM{})

	texts := g.relevantProjects(context.Background(), &types.JobAnalysis{PainPoints: []string{"p"}}, zerolog.Nop())
	assert.Equal(t, []string{relevance.FallbackText}, texts)

	g.Store = &fakeStore{}
	texts = g.relevantProjects(context.Background(), &types.JobAnalysis{PainPoints: []string{"p"}}, zerolog.Nop())
	assert.Equal(t, []string{relevance.FallbackText}, texts)
}

func TestGenerate_RateLimited(t *testing.T) {
	client := &fakeLLM{
		jsonResponses:   []string{analysisJSON(), deckJSON()},
		contentResponse: "letter",
	}
	g := testGenerator(client)
	g.Limiter = ratelimit.New(1, time.Minute)
	defer g.Limiter.Stop()

	_, err := g.Generate(context.Background(), Request{JobText: jobText(), CallerID: "caller"})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), Request{JobText: jobText(), CallerID: "caller"})
	var rateErr *llm.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 2, client.jsonCalls, "a denied run must not reach the model")
}

func TestGenerate_RunLogFailureIsSwallowed(t *testing.T) {
	client := &fakeLLM{
		jsonResponses:   []string{analysisJSON(), deckJSON()},
		contentResponse: "letter",
	}
	g := testGenerator(client)
	g.Runs = &fakeRuns{err: errors.New("disk full")}

	_, err := g.Generate(context.Background(), Request{JobText: jobText(), CallerID: "test"})
	assert.NoError(t, err, "run-log failures are best-effort")
}

func TestGenerate_RenderFailureFailsRun(t *testing.T) {
	client := &fakeLLM{
		jsonResponses:   []string{analysisJSON(), deckJSON()},
		contentResponse: "letter",
	}
	runs := &fakeRuns{}
	g := testGenerator(client)
	g.Runs = runs
	g.Renderer = &fakeRenderer{err: errors.New("slides API down")}

	_, err := g.Generate(context.Background(), Request{JobText: jobText(), CallerID: "test", RenderDeck: true})
	require.Error(t, err)

	require.Len(t, runs.records, 1)
	assert.Equal(t, types.RunStatusFailed, runs.records[0].Status)
	assert.NotEmpty(t, runs.records[0].JobAnalysisJSON, "analysis is preserved on later-stage failures")
}

func TestHashJobText(t *testing.T) {
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", HashJobText("hello"))
	assert.Equal(t, HashJobText("same"), HashJobText("same"))
	assert.NotEqual(t, HashJobText("a"), HashJobText("b"))
}
