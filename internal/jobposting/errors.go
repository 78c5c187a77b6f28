// Package jobposting loads job descriptions from job board pages.
package jobposting

import "fmt"

// FetchError represents a job posting page that could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// EmptyPostingError means the page was retrieved but held no readable text.
type EmptyPostingError struct {
	URL string
}

func (e *EmptyPostingError) Error() string {
	return fmt.Sprintf("no job description text found at %s", e.URL)
}
