package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/market-copilot/internal/insights"
)

// Error codes returned in the "error" field of JSON error bodies.
const (
	CodeBadRequest      = "bad_request"
	CodeNotFound        = "not_found"
	CodeDataUnavailable = "data_unavailable"
	CodeModelInvocation = "model_invocation_failed"
	CodeIngestFailed    = "ingest_failed"
	CodeRateLimited     = "rate_limit_exceeded"
	CodeInternal        = "internal_error"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnknownDataset indicates a dataset name that is neither a known dataset nor an alias
type ErrUnknownDataset struct {
	Name string
}

func (e *ErrUnknownDataset) Error() string {
	return fmt.Sprintf("unknown dataset: %s", e.Name)
}

// ErrSnapshotNotFound indicates a dataset with no stored snapshot
type ErrSnapshotNotFound struct {
	Dataset string
}

func (e *ErrSnapshotNotFound) Error() string {
	return fmt.Sprintf("no snapshot stored for dataset: %s", e.Dataset)
}

// ErrIngest wraps a failed snapshot write during ingestion
type ErrIngest struct {
	Cause error
}

func (e *ErrIngest) Error() string {
	return fmt.Sprintf("ingestion failed: %v", e.Cause)
}

func (e *ErrIngest) Unwrap() error {
	return e.Cause
}

// validationError converts the first validator failure into an ErrValidation.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: fe.Namespace(), Message: fmt.Sprintf("failed %q constraint", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code and error code for an error
func HTTPStatus(err error) (int, string) {
	var (
		validation *ErrValidation
		unknown    *ErrUnknownDataset
		missing    *ErrSnapshotNotFound
		ingestErr  *ErrIngest
		modelErr   *insights.ModelInvocationError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError, CodeInternal
	case errors.As(err, &validation):
		return http.StatusBadRequest, CodeBadRequest
	case errors.As(err, &unknown), errors.As(err, &missing):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, insights.ErrDataUnavailable):
		return http.StatusConflict, CodeDataUnavailable
	case errors.As(err, &modelErr):
		return http.StatusBadGateway, CodeModelInvocation
	case errors.As(err, &ingestErr):
		return http.StatusBadGateway, CodeIngestFailed
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
