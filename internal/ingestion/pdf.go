package ingestion

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// pdfSource adapts a ledongthuc/pdf reader to PageSource.
type pdfSource struct {
	reader *pdf.Reader
}

func (s pdfSource) NumPage() int {
	return s.reader.NumPage()
}

func (s pdfSource) PageText(page int) (string, error) {
	p := s.reader.Page(page)
	if p.V.IsNull() {
		return "", ErrEmptyPage
	}
	return p.GetPlainText(nil)
}

// OpenPDF opens a PDF document for page-wise extraction.
func OpenPDF(r io.ReaderAt, size int64) (PageSource, error) {
	if size <= 0 {
		return nil, &DocumentError{Message: "document is empty"}
	}
	reader, err := openReader(r, size)
	if err != nil {
		return nil, &DocumentError{Message: "not a readable PDF", Cause: err}
	}
	return pdfSource{reader: reader}, nil
}

// openReader guards pdf.NewReader, which panics on some truncated inputs.
func openReader(r io.ReaderAt, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reader = nil
			err = fmt.Errorf("panic while opening pdf: %v", rec)
		}
	}()
	return pdf.NewReader(r, size)
}

// ExtractPDF opens the document and extracts every page under the extractor's policy.
func (e Extractor) ExtractPDF(r io.ReaderAt, size int64) (string, error) {
	src, err := OpenPDF(r, size)
	if err != nil {
		return "", err
	}
	return e.Extract(src)
}

// ExtractPDFText extracts a PDF with the default SkipUnreadablePages policy.
func ExtractPDFText(r io.ReaderAt, size int64) (string, error) {
	return Extractor{Policy: SkipUnreadablePages}.ExtractPDF(r, size)
}

// ExtractPDFBytes is ExtractPDFText for an in-memory document.
func ExtractPDFBytes(data []byte) (string, error) {
	return ExtractPDFText(bytes.NewReader(data), int64(len(data)))
}
