// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/ingestion"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysisResult outputs a human-readable summary of an analysis result.
func (p *Printer) PrintAnalysisResult(result *analysis.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("JD Match: %s\n\n", result.MatchPercentage))

	if len(result.MissingKeywords) > 0 {
		sb.WriteString("Missing Keywords:\n")
		count := min(len(result.MissingKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.MissingKeywords[i]))
		}
		if len(result.MissingKeywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MissingKeywords)-maxItemsToShow))
		}
	} else {
		sb.WriteString("Missing Keywords: none\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Profile Summary:\n")
	sb.WriteString(fmt.Sprintf("  %s\n\n", result.ProfileSummary))

	changes := result.ChangesNeeded
	if changes.IsList() {
		sb.WriteString(fmt.Sprintf("Changes Needed (%d):\n", len(changes.Items)))
		count := min(len(changes.Items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", changes.Items[i]))
		}
		if len(changes.Items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(changes.Items)-maxItemsToShow))
		}
	} else {
		sb.WriteString("Changes Needed:\n")
		sb.WriteString(fmt.Sprintf("  %s\n", changes.Text))
	}

	p.printBox("ATS ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocumentMetadata outputs the extraction summary for an uploaded resume.
func (p *Printer) PrintDocumentMetadata(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	if meta.Filename != "" {
		sb.WriteString(fmt.Sprintf("File:       %s\n", meta.Filename))
	}
	sb.WriteString(fmt.Sprintf("Pages:      %d\n", meta.Pages))
	sb.WriteString(fmt.Sprintf("Characters: %d\n", meta.Characters))
	sb.WriteString(fmt.Sprintf("SHA256:     %s", meta.Hash))

	if len(meta.SkippedPages) > 0 {
		pages := make([]string, len(meta.SkippedPages))
		for i, n := range meta.SkippedPages {
			pages[i] = fmt.Sprintf("%d", n)
		}
		sb.WriteString(fmt.Sprintf("\n\n⚠ Skipped unreadable pages: %s", strings.Join(pages, ", ")))
	}

	p.printBox("EXTRACTED RESUME", sb.String())
}
