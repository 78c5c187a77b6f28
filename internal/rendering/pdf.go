package rendering

import (
	"bytes"

	"github.com/go-pdf/fpdf"
	"github.com/jonathan/smart-ats/internal/analysis"
)

// Layout of the exported changes document.
const (
	ExportFilename    = "updated_resume.pdf"
	ExportContentType = "application/pdf"

	exportFont       = "Arial"
	exportFontSize   = 12
	exportLineHeight = 10
)

// ExportChangesPDF renders the suggested changes as a single-column PDF.
// Only the changes are included; the original resume is not reproduced.
// Text is encoded as cp1252, the encoding of the core fonts, so the bullet
// marker survives.
func ExportChangesPDF(c analysis.Changes) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	translate := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle("Updated Resume", true)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()
	doc.SetFont(exportFont, "", exportFontSize)
	doc.MultiCell(0, exportLineHeight, translate(ChangesText(c)), "", "L", false)

	if err := doc.Error(); err != nil {
		return nil, &RenderError{Message: "failed to lay out PDF", Cause: err}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return buf.Bytes(), nil
}
