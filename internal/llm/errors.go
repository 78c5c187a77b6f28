package llm

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when no API key is configured for the provider.
var ErrMissingCredential = errors.New("llm: API key is missing")

// ProviderError wraps any failure while calling the model provider:
// transport errors, rejected requests, or responses with no usable text.
type ProviderError struct {
	Provider Provider
	Model    string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s model %s: %v", e.Provider, e.Model, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
