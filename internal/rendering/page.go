package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/jonathan/smart-ats/internal/analysis"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Fixed page copy.
const (
	PageTitle   = "Smart ATS"
	PageTagline = "Optimize your resume for ATS and maximize your chances of landing your dream job!"
	PageFooter  = "Developed with 💻 by Harshit Jain 🚀"
)

// PageData is everything the page template needs for one render.
type PageData struct {
	Title   string
	Tagline string
	Footer  string

	CSRFField        template.HTML
	CredentialNotice string
	Error            string

	JobDescription string
	Match          *MatchView
	Keywords       *KeywordsView
	Summary        *SummaryView
	Changes        *ChangesView
	CanDownload    bool
}

// NewPageData builds page data for the current result, revealing at most one panel.
func NewPageData(result *analysis.Result, jobDescription string, panel Panel) PageData {
	data := PageData{
		Title:          PageTitle,
		Tagline:        PageTagline,
		Footer:         PageFooter,
		JobDescription: jobDescription,
	}
	if result == nil {
		return data
	}

	match := PresentMatch(result)
	data.Match = &match
	data.CanDownload = true

	switch panel {
	case PanelKeywords:
		v := PresentKeywords(result)
		data.Keywords = &v
	case PanelSummary:
		v := PresentSummary(result)
		data.Summary = &v
	case PanelChanges:
		v := PresentChanges(result)
		data.Changes = &v
	}
	return data
}

// PageRenderer renders the single application page.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the embedded page templates.
func NewPageRenderer() (*PageRenderer, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse page templates", Cause: err}
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render executes the page into w. Output is buffered, so nothing is written
// when execution fails.
func (p *PageRenderer) Render(w io.Writer, data PageData) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return &RenderError{Message: "failed to write page", Cause: err}
	}
	return nil
}
