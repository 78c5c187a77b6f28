package prompts

import "strconv"

// Location of the ATS analysis template.
const (
	AnalysisFile = "analysis.json"
	AnalysisKey  = "ats-analysis"
)

// BuildAnalysisPrompt fills the ATS analysis template with the resume text and
// job description. Inputs are used exactly as given. Each input is preceded by
// its character count, so two different pairs always yield different prompts
// even when one input's text could be read as part of the other.
func BuildAnalysisPrompt(resumeText, jobDescription string) (string, error) {
	template, err := Get(AnalysisFile, AnalysisKey)
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{
		"Resume":               resumeText,
		"ResumeLength":         strconv.Itoa(len([]rune(resumeText))),
		"JobDescription":       jobDescription,
		"JobDescriptionLength": strconv.Itoa(len([]rune(jobDescription))),
	}), nil
}
