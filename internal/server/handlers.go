package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jonathan/proposal-agent/internal/generation"
	"github.com/jonathan/proposal-agent/internal/ingest"
	"github.com/jonathan/proposal-agent/internal/pipeline"
	"github.com/jonathan/proposal-agent/internal/types"
)

// ProposalRequest represents the request body for POST /proposals.
// Exactly one of job_text or job_url must be set.
type ProposalRequest struct {
	JobText    string `json:"job_text,omitempty"`
	JobURL     string `json:"job_url,omitempty" validate:"omitempty,url"`
	Tone       string `json:"tone,omitempty"`
	RenderDeck bool   `json:"render_deck,omitempty"`
	UseBrowser bool   `json:"use_browser,omitempty"`
}

// AnalyzeRequest represents the request body for POST /analyses.
type AnalyzeRequest struct {
	JobText string `json:"job_text"`
}

// ProposalResponse represents the response for POST /proposals. PDF carries
// the exported document base64-encoded when rendering was requested; the
// rendered presentation itself is deleted after export.
type ProposalResponse struct {
	Analysis *types.JobAnalysis  `json:"analysis"`
	Proposal *types.ProposalPack `json:"proposal"`
	PDF      []byte              `json:"pdf,omitempty"`
}

// AddProjectResponse represents the response for POST /projects.
type AddProjectResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.ListProjects(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, projects)
}

func (s *Server) handleAddProject(w http.ResponseWriter, r *http.Request) {
	var project types.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(&project); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid project: "+err.Error())
		return
	}

	id, err := s.db.AddProject(r.Context(), &project)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, AddProjectResponse{ID: id})
}

func (s *Server) handleGenerateProposal(w http.ResponseWriter, r *http.Request) {
	var req ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if (req.JobText == "") == (req.JobURL == "") {
		s.errorResponse(w, http.StatusBadRequest, "exactly one of job_text or job_url is required")
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	jobText := req.JobText
	if req.JobURL != "" {
		fetched, err := ingest.FetchJobPosting(r.Context(), req.JobURL, req.UseBrowser)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "failed to fetch job posting: "+err.Error())
			return
		}
		jobText = fetched
	}

	result, err := s.generator.Generate(r.Context(), pipeline.Request{
		JobText:      jobText,
		ToneOverride: req.Tone,
		CallerID:     s.callerID(r),
		RenderDeck:   req.RenderDeck,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ProposalResponse{
		Analysis: result.Analysis,
		Proposal: result.Proposal,
		PDF:      result.Proposal.PDF,
	})
}

func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis, err := generation.AnalyzeJob(r.Context(), s.generator.LLM, req.JobText, generation.Options{
		MinJobTextLen: s.generator.Options.MinJobTextLen,
		Retry:         s.generator.Options.Retry,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, analysis)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	runs, err := s.db.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, runs)
}
