package jobposting

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Defaults for Options.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; SmartATS/1.0)"
	DefaultMaxBytes  = 5 << 20
)

// Options configures page retrieval.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Client    *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// Posting is the job description text extracted from a page.
type Posting struct {
	URL      string
	Platform Platform
	Text     string
}

// Fetch retrieves a job posting page and extracts its description text.
func Fetch(ctx context.Context, rawURL string, opts *Options) (*Posting, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	html, err := get(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}

	platform := DetectPlatform(rawURL)
	text, err := ExtractText(html, platform)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "failed to parse page", Cause: err}
	}
	if text == "" {
		return nil, &EmptyPostingError{URL: rawURL}
	}

	return &Posting{URL: rawURL, Platform: platform, Text: text}, nil
}

func get(ctx context.Context, rawURL string, opts *Options) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", &FetchError{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > maxBytes {
		return "", &FetchError{URL: rawURL, Message: fmt.Sprintf("page larger than %d bytes", maxBytes)}
	}
	return string(body), nil
}

// ExtractText strips page chrome and returns the description text, one
// non-blank line per line. It falls back to the body when no selector matches.
func ExtractText(html string, platform Platform) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(strings.Join(noiseSelectors(platform), ", ")).Remove()

	var content *goquery.Selection
	for _, selector := range contentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return collapseLines(content.Text()), nil
}

func collapseLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
