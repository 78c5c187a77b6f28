// Package server provides the HTTP interface for the ATS analyzer.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/ingestion"
)

// ErrNoResult indicates the session has no analysis yet
var ErrNoResult = errors.New("no analysis result in this session")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Error kinds reported in JSON error bodies.
const (
	KindMissingConfiguration = "missing_configuration"
	KindUpstreamFailure      = "upstream_failure"
	KindMalformedResponse    = "malformed_response"
	KindInvalidDocument      = "invalid_document"
	KindValidation           = "validation"
	KindNotFound             = "not_found"
	KindInternal             = "internal"
)

// User-facing messages per error kind.
const (
	MsgMissingConfiguration = "API Key is missing. Please set it in your environment variables."
	MsgUpstreamFailure      = "Failed to fetch response from the language model."
	MsgMalformedResponse    = "The model returned a response that could not be understood."
	MsgInvalidDocument      = "The uploaded file could not be read as a PDF."
	MsgNoResult             = "Analyze a resume first."
	MsgInternal             = "Something went wrong. Please try again."
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch ErrorKind(err) {
	case KindMissingConfiguration:
		return http.StatusServiceUnavailable
	case KindUpstreamFailure, KindMalformedResponse:
		return http.StatusBadGateway
	case KindInvalidDocument, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKind classifies err for the JSON error body.
func ErrorKind(err error) string {
	var (
		validationErr *ErrValidation
		upstreamErr   *analysis.UpstreamError
		malformedErr  *analysis.MalformedResponseError
		documentErr   *ingestion.DocumentError
		pageErr       *ingestion.PageError
	)
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, analysis.ErrMissingCredential):
		return KindMissingConfiguration
	case errors.As(err, &upstreamErr):
		return KindUpstreamFailure
	case errors.As(err, &malformedErr):
		return KindMalformedResponse
	case errors.As(err, &documentErr), errors.As(err, &pageErr):
		return KindInvalidDocument
	case errors.As(err, &validationErr), errors.Is(err, analysis.ErrNoDocument):
		return KindValidation
	case errors.Is(err, ErrNoResult):
		return KindNotFound
	default:
		return KindInternal
	}
}

// UserMessage returns the text shown to the user for err. Internal detail
// such as provider responses is never exposed.
func (s *Server) UserMessage(err error) string {
	var validationErr *ErrValidation
	switch ErrorKind(err) {
	case KindMissingConfiguration:
		if s.credentialNotice != "" {
			return s.credentialNotice
		}
		return MsgMissingConfiguration
	case KindUpstreamFailure:
		return MsgUpstreamFailure
	case KindMalformedResponse:
		return MsgMalformedResponse
	case KindInvalidDocument:
		return MsgInvalidDocument
	case KindValidation:
		if errors.As(err, &validationErr) {
			return validationErr.Message
		}
		return "Please upload your resume (PDF only)."
	case KindNotFound:
		return MsgNoResult
	default:
		return MsgInternal
	}
}
