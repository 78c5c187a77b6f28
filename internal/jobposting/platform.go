package jobposting

import (
	"net/url"
	"strings"
)

// Platform is a job board whose page layout we know.
type Platform string

// Known platforms.
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformGeneric    Platform = "generic"
)

// layout lists where a platform keeps the description and what to strip first.
type layout struct {
	hosts   []string
	content []string
	noise   []string
}

var layouts = map[Platform]layout{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformGeneric: {
		content: []string{
			".job-description", ".job-content", "#job-description", "#job-content",
			".posting-content", ".job-details", "[data-testid='job-description']",
			"main", "article", ".content", "#content",
		},
	},
}

// commonNoise is removed on every platform before looking for content.
var commonNoise = []string{
	"nav", "footer", "header", "script", "style", "noscript",
	"form", ".application-form", ".apply-button-container",
	".eeo-statement", ".eeo-section", ".voluntary-disclosure", ".legal-disclosure",
	".social-share", ".share-buttons",
	".cookie-banner", ".cookie-consent", ".gdpr-notice",
	".sidebar", ".ad", ".advertisement",
}

// DetectPlatform identifies the job board from a posting URL.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformGeneric
	}
	host := strings.ToLower(parsed.Hostname())

	for _, p := range []Platform{PlatformGreenhouse, PlatformLever, PlatformWorkday} {
		for _, h := range layouts[p].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p
			}
		}
	}
	return PlatformGeneric
}

// contentSelectors returns the platform's selectors followed by the generic ones.
func contentSelectors(p Platform) []string {
	if p == PlatformGeneric {
		return layouts[PlatformGeneric].content
	}
	return append(append([]string{}, layouts[p].content...), layouts[PlatformGeneric].content...)
}

func noiseSelectors(p Platform) []string {
	return append(append([]string{}, commonNoise...), layouts[p].noise...)
}
