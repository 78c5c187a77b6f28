package rendering

import (
	"testing"

	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalResult() *analysis.Result {
	return &analysis.Result{
		MatchPercentage: "75%",
		MissingKeywords: []string{"Docker", "Kubernetes"},
		ProfileSummary:  "Solid backend engineer.",
		ChangesNeeded:   analysis.ListChanges("Add Docker experience", "Quantify achievements"),
	}
}

func TestPresentMatch(t *testing.T) {
	view := PresentMatch(canonicalResult())
	assert.Equal(t, "75%", view.Percentage)
	assert.Equal(t, "JD Match: 75%", view.Headline)
}

func TestPresentKeywords(t *testing.T) {
	view := PresentKeywords(canonicalResult())
	assert.False(t, view.Empty)
	assert.Equal(t, "Docker, Kubernetes", view.Joined)
	assert.Empty(t, view.Notice)
}

func TestPresentKeywords_EmptyShowsNotice(t *testing.T) {
	r := canonicalResult()
	r.MissingKeywords = []string{}

	view := PresentKeywords(r)
	assert.True(t, view.Empty)
	assert.Equal(t, "No missing keywords found.", view.Notice)
	assert.Empty(t, view.Joined)
}

func TestPresentSummary(t *testing.T) {
	assert.Equal(t, "Solid backend engineer.", PresentSummary(canonicalResult()).Text)
}

func TestPresentChanges_ListHasOneBulletPerItem(t *testing.T) {
	view := PresentChanges(canonicalResult())

	require.True(t, view.IsList)
	assert.Equal(t, []string{"• Add Docker experience", "• Quantify achievements"}, view.Bullets)
}

func TestPresentChanges_TextIsVerbatim(t *testing.T) {
	r := canonicalResult()
	r.ChangesNeeded = analysis.TextChanges("Rewrite the summary.\n- keep it short")

	view := PresentChanges(r)
	assert.False(t, view.IsList)
	assert.Equal(t, "Rewrite the summary.\n- keep it short", view.Text)
	assert.Empty(t, view.Bullets)
}

func TestChangesText(t *testing.T) {
	tests := []struct {
		name    string
		changes analysis.Changes
		want    string
	}{
		{name: "list", changes: analysis.ListChanges("a", "b"), want: "• a\n• b"},
		{name: "empty list", changes: analysis.ListChanges(), want: ""},
		{name: "text", changes: analysis.TextChanges("as is"), want: "as is"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangesText(tt.changes))
		})
	}
}

func TestParsePanel(t *testing.T) {
	for _, name := range []string{"keywords", "summary", "changes", "Summary"} {
		_, err := ParsePanel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParsePanel("match")
	assert.Error(t, err)
}
