// Package ingestion extracts plain text from uploaded resume documents.
package ingestion

import "fmt"

// DocumentError represents a document that could not be opened as a PDF at all
type DocumentError struct {
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document error: %s", e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// PageError represents a single page whose text could not be extracted.
// It is only returned under FailOnUnreadablePage.
type PageError struct {
	Page  int
	Cause error
}

func (e *PageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("page %d unreadable: %v", e.Page, e.Cause)
	}
	return fmt.Sprintf("page %d unreadable", e.Page)
}

func (e *PageError) Unwrap() error {
	return e.Cause
}
