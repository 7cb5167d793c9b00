package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/market-copilot/internal/ingest"
	"github.com/jonathan/market-copilot/internal/insights"
	"github.com/jonathan/market-copilot/internal/snapshot"
	"github.com/jonathan/market-copilot/internal/types"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AskRequest represents the request body for /ask
type AskRequest struct {
	Question string        `json:"question" validate:"required,max=4000"`
	History  types.History `json:"history" validate:"max=200,dive"`
}

// AskResponse represents the response for /ask. History is the request
// history with this exchange appended, ready to send back on the next turn.
type AskResponse struct {
	Mode       insights.Mode `json:"mode"`
	Structured any           `json:"structured,omitempty"`
	Text       string        `json:"text,omitempty"`
	History    types.History `json:"history"`
}

// DatasetResponse represents the response for /datasets/{name}
type DatasetResponse struct {
	Dataset   string            `json:"dataset"`
	Key       string            `json:"key"`
	Timestamp string            `json:"timestamp,omitempty"`
	Count     int               `json:"count"`
	Data      []json.RawMessage `json:"data"`
}

// IngestResponse represents the response for /ingest
type IngestResponse struct {
	Reports []*ingest.Report `json:"reports"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAsk answers a question grounded on the stored snapshots
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	answer, err := s.engine.GenerateInsights(r.Context(), req.Question, req.History)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, AskResponse{
		Mode:       answer.Mode,
		Structured: answer.Structured,
		Text:       answer.Text,
		History:    req.History.Append(req.Question, answer.String()),
	})
}

// handleDataset returns the stored snapshot of a dataset
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	dataset := snapshot.ResolveDataset(name)
	if dataset != snapshot.DatasetJobs && dataset != snapshot.DatasetEvents {
		s.writeError(w, r, &ErrUnknownDataset{Name: name})
		return
	}

	snap, ok := s.snapshots.Info(r.Context(), dataset)
	if !ok {
		s.writeError(w, r, &ErrSnapshotNotFound{Dataset: dataset})
		return
	}

	s.jsonResponse(w, http.StatusOK, DatasetResponse{
		Dataset:   dataset,
		Key:       snapshot.Key(dataset),
		Timestamp: snap.Timestamp,
		Count:     len(snap.Data),
		Data:      snap.Data,
	})
}

// handleIngest refreshes one or both datasets
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("dataset")
	if target == "" {
		target = "all"
	}

	var (
		reports []*ingest.Report
		err     error
	)
	switch target {
	case "all":
		reports, err = s.ingester.RunAll(r.Context())
	case "jobs", snapshot.DatasetJobs:
		var report *ingest.Report
		if report, err = s.ingester.RunJobs(r.Context()); err == nil {
			reports = []*ingest.Report{report}
		}
	case "events", snapshot.DatasetEvents:
		var report *ingest.Report
		if report, err = s.ingester.RunEvents(r.Context()); err == nil {
			reports = []*ingest.Report{report}
		}
	default:
		s.writeError(w, r, &ErrValidation{Field: "dataset", Message: "must be one of jobs, events, all"})
		return
	}

	if err != nil {
		s.writeError(w, r, &ErrIngest{Cause: err})
		return
	}
	if reports == nil {
		reports = []*ingest.Report{}
	}
	s.jsonResponse(w, http.StatusOK, IngestResponse{Reports: reports})
}
