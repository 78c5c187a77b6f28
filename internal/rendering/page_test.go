package rendering

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPage(t *testing.T, data PageData) *goquery.Document {
	t.Helper()
	renderer, err := NewPageRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, data))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestPage_NoResult(t *testing.T) {
	doc := renderPage(t, NewPageData(nil, "", ""))

	assert.Contains(t, doc.Find("title").Text(), "Smart ATS")
	assert.Equal(t, 1, doc.Find("#analyze-form").Length())
	assert.Equal(t, 0, doc.Find("#match").Length())
	assert.Equal(t, 0, doc.Find("#download").Length())
	assert.Contains(t, doc.Find(".footer").Text(), "Developed with")
}

func TestPage_MatchShownWithoutPanels(t *testing.T) {
	doc := renderPage(t, NewPageData(canonicalResult(), "Need Go", ""))

	assert.Contains(t, doc.Find("#match").Text(), "JD Match: 75%")
	assert.Equal(t, "Need Go", doc.Find("#job_description").Text())
	assert.Equal(t, 0, doc.Find("#keywords, #summary, #changes").Length())
	assert.Equal(t, 1, doc.Find("#download").Length())
}

func TestPage_OnePanelAtATime(t *testing.T) {
	tests := []struct {
		panel Panel
		want  string
	}{
		{panel: PanelKeywords, want: "#keywords"},
		{panel: PanelSummary, want: "#summary"},
		{panel: PanelChanges, want: "#changes"},
	}

	for _, tt := range tests {
		t.Run(string(tt.panel), func(t *testing.T) {
			doc := renderPage(t, NewPageData(canonicalResult(), "", tt.panel))
			assert.Equal(t, 1, doc.Find("#keywords, #summary, #changes").Length())
			assert.Equal(t, 1, doc.Find(tt.want).Length())
		})
	}
}

func TestPage_ChangesBullets(t *testing.T) {
	doc := renderPage(t, NewPageData(canonicalResult(), "", PanelChanges))

	bullets := doc.Find("#changes .bullet")
	require.Equal(t, 2, bullets.Length())
	assert.Equal(t, "• Add Docker experience", bullets.Eq(0).Text())
	assert.Equal(t, "• Quantify achievements", bullets.Eq(1).Text())
}

func TestPage_EmptyKeywordsNotice(t *testing.T) {
	r := canonicalResult()
	r.MissingKeywords = nil

	doc := renderPage(t, NewPageData(r, "", PanelKeywords))
	assert.True(t, doc.Find("#keywords").HasClass("success"))
	assert.Contains(t, doc.Find("#keywords").Text(), NoMissingKeywordsNotice)
}

func TestPage_EscapesModelOutput(t *testing.T) {
	r := canonicalResult()
	r.ProfileSummary = "<script>alert(1)</script>"

	renderer, err := NewPageRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, NewPageData(r, "", PanelSummary)))

	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.True(t, strings.Contains(buf.String(), "&lt;script&gt;"))
}

func TestPage_NoticesAndCSRFField(t *testing.T) {
	data := NewPageData(nil, "", "")
	data.CredentialNotice = "API Key is missing."
	data.Error = "Failed to fetch response from the language model."
	data.CSRFField = template.HTML(`<input type="hidden" name="gorilla.csrf.Token" value="tok">`)

	doc := renderPage(t, data)
	assert.Equal(t, "API Key is missing.", doc.Find("#credential-notice").Text())
	assert.Equal(t, "Failed to fetch response from the language model.", doc.Find("#error").Text())
	val, ok := doc.Find(`#analyze-form input[name="gorilla.csrf.Token"]`).Attr("value")
	assert.True(t, ok)
	assert.Equal(t, "tok", val)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPage_WriteFailure(t *testing.T) {
	renderer, err := NewPageRenderer()
	require.NoError(t, err)

	err = renderer.Render(failingWriter{}, NewPageData(nil, "", ""))
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}
