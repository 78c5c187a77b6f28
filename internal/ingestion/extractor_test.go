package ingestion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	text  string
	err   error
	panic bool
}

type fakeSource []fakePage

func (s fakeSource) NumPage() int { return len(s) }

func (s fakeSource) PageText(page int) (string, error) {
	p := s[page-1]
	if p.panic {
		panic("malformed content stream")
	}
	return p.text, p.err
}

func TestExtract_ConcatenatesInOrder(t *testing.T) {
	src := fakeSource{{text: "A"}, {text: "B"}, {text: "C"}}

	text, err := Extractor{}.Extract(src)
	require.NoError(t, err)
	assert.Equal(t, "ABC", text)
}

func TestExtract_EmptyPagesContributeNothing(t *testing.T) {
	src := fakeSource{{text: "A"}, {text: ""}, {text: "C"}}

	text, err := Extractor{}.Extract(src)
	require.NoError(t, err)
	assert.Equal(t, "AC", text)
}

func TestExtract_ZeroPages(t *testing.T) {
	text, err := Extractor{}.Extract(fakeSource{})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtract_SkipUnreadablePages(t *testing.T) {
	src := fakeSource{
		{text: "first "},
		{err: ErrEmptyPage},
		{panic: true},
		{text: "last"},
	}

	var skipped []int
	e := Extractor{
		Policy: SkipUnreadablePages,
		OnSkip: func(page int, _ error) { skipped = append(skipped, page) },
	}

	text, err := e.Extract(src)
	require.NoError(t, err)
	assert.Equal(t, "first last", text)
	assert.Equal(t, []int{2, 3}, skipped)
}

func TestExtract_FailOnUnreadablePage(t *testing.T) {
	cause := errors.New("bad xref")
	src := fakeSource{{text: "ok"}, {err: cause}}

	text, err := Extractor{Policy: FailOnUnreadablePage}.Extract(src)
	require.Error(t, err)
	assert.Empty(t, text)

	var pageErr *PageError
	require.True(t, errors.As(err, &pageErr))
	assert.Equal(t, 2, pageErr.Page)
	assert.ErrorIs(t, err, cause)
}

func TestExtract_FailOnPanickingPage(t *testing.T) {
	src := fakeSource{{panic: true}}

	_, err := Extractor{Policy: FailOnUnreadablePage}.Extract(src)
	var pageErr *PageError
	require.True(t, errors.As(err, &pageErr))
	assert.Equal(t, 1, pageErr.Page)
	assert.Contains(t, err.Error(), "panic")
}

func TestPagePolicy_String(t *testing.T) {
	assert.Equal(t, "skip", SkipUnreadablePages.String())
	assert.Equal(t, "fail", FailOnUnreadablePage.String())
	assert.Equal(t, "PagePolicy(7)", PagePolicy(7).String())
}
