package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error represents an invalid configuration value
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// MissingCredentialError indicates the model provider API key is not set.
// The server keeps running; analysis requests fail until it is configured.
type MissingCredentialError struct {
	EnvVar string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("API Key is missing. Please set %s in your environment variables.", e.EnvVar)
}

// describeValidation flattens validator errors into "field: rule" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
