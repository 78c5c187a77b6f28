package ingestion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPage marks a page that exists but carries no content stream.
var ErrEmptyPage = errors.New("page has no content")

// PagePolicy decides what happens when a single page cannot be read.
type PagePolicy int

const (
	// SkipUnreadablePages contributes an empty segment for the page and continues.
	SkipUnreadablePages PagePolicy = iota
	// FailOnUnreadablePage aborts extraction with a *PageError.
	FailOnUnreadablePage
)

func (p PagePolicy) String() string {
	switch p {
	case SkipUnreadablePages:
		return "skip"
	case FailOnUnreadablePage:
		return "fail"
	default:
		return fmt.Sprintf("PagePolicy(%d)", int(p))
	}
}

// PageSource is a paged document. Page numbers are 1-based.
type PageSource interface {
	NumPage() int
	PageText(page int) (string, error)
}

// Extractor concatenates page text in document order.
type Extractor struct {
	Policy PagePolicy
	// OnSkip, when set, is called for every page skipped under SkipUnreadablePages.
	OnSkip func(page int, err error)
}

// Extract returns the ordered concatenation of every page's text. No separator
// is inserted between pages and no layout is preserved.
func (e Extractor) Extract(src PageSource) (string, error) {
	text, _, err := e.extract(src)
	return text, err
}

func (e Extractor) extract(src PageSource) (string, []int, error) {
	var sb strings.Builder
	var skipped []int
	for i := 1; i <= src.NumPage(); i++ {
		text, err := readPage(src, i)
		if err != nil {
			if e.Policy == FailOnUnreadablePage {
				return "", nil, &PageError{Page: i, Cause: err}
			}
			skipped = append(skipped, i)
			if e.OnSkip != nil {
				e.OnSkip(i, err)
			}
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), skipped, nil
}

// readPage isolates library panics on malformed page content so they count as
// an unreadable page rather than taking down the request.
func readPage(src PageSource, page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("panic while reading page: %v", r)
		}
	}()
	return src.PageText(page)
}
