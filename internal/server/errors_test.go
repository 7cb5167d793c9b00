package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/market-copilot/internal/insights"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "question", Message: "required"}
	assert.Equal(t, "validation error: question - required", err.Error())
}

func TestErrUnknownDataset(t *testing.T) {
	err := &ErrUnknownDataset{Name: "weather"}
	assert.Equal(t, "unknown dataset: weather", err.Error())
}

func TestErrIngest_Unwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := &ErrIngest{Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "ingestion failed: redis down", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &ErrValidation{Field: "question", Message: "required"}, http.StatusBadRequest, CodeBadRequest},
		{"unknown dataset", &ErrUnknownDataset{Name: "x"}, http.StatusNotFound, CodeNotFound},
		{"snapshot missing", &ErrSnapshotNotFound{Dataset: "scraper_4"}, http.StatusNotFound, CodeNotFound},
		{"data unavailable", &insights.DataUnavailableError{Datasets: []string{"scraper_4"}, Message: "sin datos"}, http.StatusConflict, CodeDataUnavailable},
		{"wrapped data unavailable", fmt.Errorf("ask: %w", insights.ErrDataUnavailable), http.StatusConflict, CodeDataUnavailable},
		{"model invocation", &insights.ModelInvocationError{Model: "gemini-2.5-pro", Cause: errors.New("quota")}, http.StatusBadGateway, CodeModelInvocation},
		{"ingest", &ErrIngest{Cause: errors.New("write failed")}, http.StatusBadGateway, CodeIngestFailed},
		{"unknown error", assert.AnError, http.StatusInternalServerError, CodeInternal},
		{"nil error", nil, http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := HTTPStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
