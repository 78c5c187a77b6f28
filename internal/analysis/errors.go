package analysis

import (
	"errors"
	"fmt"

	"github.com/jonathan/smart-ats/internal/llm"
)

// ErrMissingCredential is returned when the analyzer has no model client
// because the provider API key is not configured.
var ErrMissingCredential = llm.ErrMissingCredential

// ErrNoDocument is returned when an Analyze request carries no resume.
var ErrNoDocument = errors.New("no resume uploaded")

// UpstreamError represents a failed call to the language model.
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError represents model output that is not the expected
// four-key JSON object. Raw holds the response as received.
type MalformedResponseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed model response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
