package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobscout/internal/normalize"
	"github.com/jonathan/jobscout/internal/pipeline"
	"github.com/jonathan/jobscout/internal/service"
	"github.com/jonathan/jobscout/internal/types"
)

// maxListLimit caps the limit query parameter of GET /runs
const maxListLimit = 200

// RunResponse is the body of POST /runs and GET /runs/latest
type RunResponse struct {
	RunID           uuid.UUID          `json:"run_id"`
	StartedAt       time.Time          `json:"started_at"`
	FinishedAt      time.Time          `json:"finished_at"`
	Filters         types.FilterConfig `json:"filters"`
	TotalJobs       int                `json:"total_jobs"`
	FailedCompanies int                `json:"failed_companies"`
	Stats           normalize.Stats    `json:"stats"`
	Companies       []CompanySummary   `json:"companies"`
	Jobs            []types.Job        `json:"jobs"`
}

// CompanySummary is one row of a run's per-company table
type CompanySummary struct {
	Source string   `json:"ats"`
	Name   string   `json:"company"`
	Jobs   int      `json:"jobs"`
	Errors []string `json:"errors,omitempty"`
}

// NewRunResponse flattens a run summary for the API.
func NewRunResponse(summary *pipeline.Summary) RunResponse {
	resp := RunResponse{
		RunID:           summary.RunID,
		StartedAt:       summary.StartedAt,
		FinishedAt:      summary.FinishedAt,
		Filters:         summary.Filters,
		TotalJobs:       summary.TotalJobs(),
		FailedCompanies: summary.FailedCompanies(),
		Stats:           summary.Stats(),
		Companies:       make([]CompanySummary, 0, len(summary.Results)),
		Jobs:            summary.Jobs(),
	}
	for _, r := range summary.Results {
		resp.Companies = append(resp.Companies, CompanySummary{
			Source: r.Source,
			Name:   r.Company,
			Jobs:   len(r.Jobs),
			Errors: r.Errors,
		})
	}
	return resp
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"running": s.runner.Running(),
	})
}

// handleCreateRun executes a run and responds with its summary. The body is
// optional; its fields narrow the configured filters and sources.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req service.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	summary, err := s.runner.Execute(r.Context(), req)
	if err != nil && summary == nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err != nil {
		// canceled part way; the partial summary has been recorded
		s.logger.Warn("run ended early", slog.String("run_id", summary.RunID.String()), slog.Any("error", err))
		s.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, NewRunResponse(summary))
}

// handleLatestRun returns the most recent run summary
func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	summary, err := s.runner.Latest(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if summary == nil {
		s.errorResponse(w, http.StatusNotFound, "No run has finished yet")
		return
	}
	s.jsonResponse(w, http.StatusOK, NewRunResponse(summary))
}

// handleLatestJobs returns the jobs of the most recent run, optionally
// narrowed by ?ats= and ?company= (case-insensitive)
func (s *Server) handleLatestJobs(w http.ResponseWriter, r *http.Request) {
	summary, err := s.runner.Latest(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if summary == nil {
		s.errorResponse(w, http.StatusNotFound, "No run has finished yet")
		return
	}

	source := r.URL.Query().Get("ats")
	company := r.URL.Query().Get("company")
	jobs := make([]types.Job, 0)
	for _, job := range summary.Jobs() {
		if source != "" && !strings.EqualFold(job.Source, source) {
			continue
		}
		if company != "" && !strings.EqualFold(job.Company, company) {
			continue
		}
		jobs = append(jobs, job)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id": summary.RunID,
		"count":  len(jobs),
		"jobs":   jobs,
	})
}

// handleListRuns lists stored runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, (&ErrValidation{Field: "limit", Message: "must be a positive integer"}).Error())
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := s.runner.History(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count": len(runs),
		"runs":  runs,
	})
}
