// Package pipeline provides the high-level orchestration for proposal
// generation.
package pipeline

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/proposal-agent/internal/generation"
	"github.com/jonathan/proposal-agent/internal/llm"
	"github.com/jonathan/proposal-agent/internal/ratelimit"
	"github.com/jonathan/proposal-agent/internal/relevance"
	"github.com/jonathan/proposal-agent/internal/slides"
	"github.com/jonathan/proposal-agent/internal/types"
)

// ProjectStore is the portfolio lookup the pipeline depends on.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]types.Project, error)
}

// RunLog records generation attempts for auditing. Recording is best-effort:
// a failed write never fails the run that produced it.
type RunLog interface {
	RecordRun(ctx context.Context, run *types.Run) error
}

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Options holds per-generator configuration.
type Options struct {
	MinJobTextLen int
	Retry         generation.Policy
}

// Request is a single proposal generation request.
type Request struct {
	JobText      string
	ToneOverride string
	CallerID     string
	// RenderDeck controls whether the deck spec is also rendered to a
	// presentation and exported as PDF. Requires Renderer and Exporter.
	RenderDeck bool
	OnProgress ProgressCallback
}

// Result is the outcome of a successful generation run.
type Result struct {
	Analysis *types.JobAnalysis
	Proposal *types.ProposalPack
}

// Generator wires the generation stages together. Renderer, Exporter, Store,
// Runs and Limiter are all optional; a nil dependency disables the
// corresponding stage or degrades it.
type Generator struct {
	LLM      llm.Client
	Store    ProjectStore
	Runs     RunLog
	Renderer slides.Renderer
	Exporter slides.Exporter
	Limiter  *ratelimit.Limiter
	Logger   zerolog.Logger
	Options  Options
}

// Generate runs the full pipeline for one job posting: analysis, project
// scoring, deck generation, optional rendering and export, cover letter and
// screening answers. Every attempt, successful or not, is recorded in the
// run log when one is configured.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	hash := HashJobText(req.JobText)
	log := g.Logger.With().
		Str("run_id", uuid.NewString()).
		Str("job_hash", hash).
		Logger()

	if g.Limiter != nil {
		allowed, info := g.Limiter.Allow(req.CallerID)
		if !allowed {
			log.Warn().
				Str("caller", req.CallerID).
				Dur("retry_after", info.RetryAfter).
				Msg("rate limit exceeded")
			return nil, &llm.RateLimitError{
				Message: "proposal generation rate limit exceeded, try again later",
			}
		}
	}

	genOpts := generation.Options{
		MinJobTextLen: g.Options.MinJobTextLen,
		Retry:         g.Options.Retry,
	}

	emit(req, "analyze", "Analyzing job posting")
	analysis, err := generation.AnalyzeJob(ctx, g.LLM, req.JobText, genOpts)
	if err != nil {
		g.recordFailure(ctx, hash, nil, err)
		return nil, err
	}
	log.Info().
		Int("pain_points", len(analysis.PainPoints)).
		Str("persona", analysis.Persona).
		Msg("job analysis complete")

	emit(req, "score", "Scoring portfolio projects")
	projectTexts := g.relevantProjects(ctx, analysis, log)

	emit(req, "deck", "Generating slide deck specification")
	deck, err := generation.GenerateDeck(ctx, g.LLM, analysis, projectTexts, req.ToneOverride, genOpts)
	if err != nil {
		g.recordFailure(ctx, hash, analysis, err)
		return nil, err
	}

	pack := &types.ProposalPack{SlideDeck: deck}

	if req.RenderDeck && g.Renderer != nil {
		emit(req, "render", "Rendering presentation")
		presentationID, err := g.Renderer.Render(ctx, deck)
		if err != nil {
			g.recordFailure(ctx, hash, analysis, err)
			return nil, err
		}
		pack.PresentationID = presentationID
		log.Info().Str("presentation_id", presentationID).Msg("presentation rendered")

		if g.Exporter != nil {
			emit(req, "export", "Exporting PDF")
			pdf, err := g.Exporter.ExportPDF(ctx, presentationID)
			if err != nil {
				g.recordFailure(ctx, hash, analysis, err)
				return nil, err
			}
			pack.PDF = pdf

			if err := g.Exporter.Cleanup(ctx, presentationID); err != nil {
				log.Warn().Err(err).
					Str("presentation_id", presentationID).
					Msg("failed to clean up presentation")
			}
		}
	}

	emit(req, "cover_letter", "Writing cover letter")
	coverLetter, err := generation.WriteCoverLetter(ctx, g.LLM, analysis, projectTexts, genOpts)
	if err != nil {
		g.recordFailure(ctx, hash, analysis, err)
		return nil, err
	}
	pack.CoverLetter = coverLetter
	pack.ScreeningAnswers = generation.ScreeningAnswers(analysis)
	pack.Assumptions = generation.Assumptions(analysis)
	pack.PriceSignal = generation.PriceSignal(analysis)

	g.recordSuccess(ctx, hash, analysis, pack)
	log.Info().Dur("elapsed", time.Since(started)).Msg("proposal generated")

	return &Result{Analysis: analysis, Proposal: pack}, nil
}

// relevantProjects loads the portfolio, scores it against the analysis and
// formats the top matches for prompting. Any storage fault degrades to the
// generic fallback text rather than failing the run.
func (g *Generator) relevantProjects(ctx context.Context, analysis *types.JobAnalysis, log zerolog.Logger) []string {
	if g.Store == nil {
		return []string{relevance.FallbackText}
	}

	projects, err := g.Store.ListProjects(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load projects, using fallback")
		return []string{relevance.FallbackText}
	}

	scored := relevance.Score(analysis, projects)
	log.Info().Int("candidates", len(projects)).Int("selected", len(scored)).Msg("projects scored")
	if len(scored) == 0 {
		return []string{relevance.FallbackText}
	}
	return relevance.FormatForPrompt(scored)
}

func (g *Generator) recordSuccess(ctx context.Context, hash string, analysis *types.JobAnalysis, pack *types.ProposalPack) {
	run := &types.Run{
		JobTextHash:    hash,
		ModelName:      g.modelName(),
		PresentationID: pack.PresentationID,
		Status:         types.RunStatusSuccess,
	}
	if data, err := json.Marshal(analysis); err == nil {
		run.JobAnalysisJSON = string(data)
	}
	if data, err := json.Marshal(pack); err == nil {
		run.ProposalJSON = string(data)
	}
	g.record(ctx, run)
}

func (g *Generator) recordFailure(ctx context.Context, hash string, analysis *types.JobAnalysis, cause error) {
	run := &types.Run{
		JobTextHash:  hash,
		ModelName:    g.modelName(),
		Status:       types.RunStatusFailed,
		ErrorMessage: cause.Error(),
	}
	if analysis != nil {
		if data, err := json.Marshal(analysis); err == nil {
			run.JobAnalysisJSON = string(data)
		}
	}
	g.record(ctx, run)
}

func (g *Generator) record(ctx context.Context, run *types.Run) {
	if g.Runs == nil {
		return
	}
	if err := g.Runs.RecordRun(ctx, run); err != nil {
		g.Logger.Warn().Err(err).Str("job_hash", run.JobTextHash).Msg("failed to record run")
	}
}

func (g *Generator) modelName() string {
	if g.LLM == nil {
		return ""
	}
	return g.LLM.GetModel(llm.TierStandard)
}

func emit(req Request, stage, message string) {
	if req.OnProgress != nil {
		req.OnProgress(ProgressEvent{Stage: stage, Message: message})
	}
}

// HashJobText returns the hex MD5 digest used to correlate runs for the same
// posting without storing the posting itself twice.
func HashJobText(jobText string) string {
	sum := md5.Sum([]byte(jobText))
	return hex.EncodeToString(sum[:])
}
