package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/smart-ats/internal/analysis"
)

// NoMissingKeywordsNotice is shown when the model reports no missing keywords.
const NoMissingKeywordsNotice = "No missing keywords found."

// BulletMarker prefixes each item of a list of changes.
const BulletMarker = "• "

// Panel names one of the result panels revealed on demand.
type Panel string

// Panels that can be revealed individually.
const (
	PanelKeywords Panel = "keywords"
	PanelSummary  Panel = "summary"
	PanelChanges  Panel = "changes"
)

// ParsePanel validates a panel name from a request.
func ParsePanel(name string) (Panel, error) {
	switch p := Panel(strings.ToLower(name)); p {
	case PanelKeywords, PanelSummary, PanelChanges:
		return p, nil
	default:
		return "", fmt.Errorf("unknown panel %q", name)
	}
}

// MatchView is the always-visible match headline.
type MatchView struct {
	Percentage string
	Headline   string
}

// KeywordsView lists missing keywords, or carries a success notice when none are missing.
type KeywordsView struct {
	Keywords []string
	Joined   string
	Empty    bool
	Notice   string
}

// SummaryView is the free-text profile summary.
type SummaryView struct {
	Text string
}

// ChangesView holds bullet lines for list-form changes or the verbatim text otherwise.
type ChangesView struct {
	IsList  bool
	Bullets []string
	Text    string
}

// PresentMatch builds the match headline.
func PresentMatch(r *analysis.Result) MatchView {
	return MatchView{
		Percentage: r.MatchPercentage,
		Headline:   "JD Match: " + r.MatchPercentage,
	}
}

// PresentKeywords builds the missing keywords panel.
func PresentKeywords(r *analysis.Result) KeywordsView {
	if len(r.MissingKeywords) == 0 {
		return KeywordsView{Empty: true, Notice: NoMissingKeywordsNotice}
	}
	return KeywordsView{
		Keywords: r.MissingKeywords,
		Joined:   strings.Join(r.MissingKeywords, ", "),
	}
}

// PresentSummary builds the profile summary panel.
func PresentSummary(r *analysis.Result) SummaryView {
	return SummaryView{Text: r.ProfileSummary}
}

// PresentChanges builds the changes panel.
func PresentChanges(r *analysis.Result) ChangesView {
	c := r.ChangesNeeded
	if !c.IsList() {
		return ChangesView{Text: c.Text}
	}
	return ChangesView{IsList: true, Bullets: bullets(c.Items)}
}

// ChangesText flattens changes for export: one bulleted line per item for
// list form, the text unchanged otherwise.
func ChangesText(c analysis.Changes) string {
	if !c.IsList() {
		return c.Text
	}
	return strings.Join(bullets(c.Items), "\n")
}

func bullets(items []string) []string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = BulletMarker + item
	}
	return lines
}
