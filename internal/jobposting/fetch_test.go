package jobposting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `
<html>
	<body>
		<nav>Careers Home</nav>
		<div class="sidebar">Similar jobs</div>
		<div class="job-description">
			<h2>Backend Engineer</h2>
			<p>5 years   experience in Go</p>
			<p>Docker and Kubernetes</p>
		</div>
		<form class="application-form"><label>Upload CV</label></form>
		<footer>© Acme</footer>
	</body>
</html>`

func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Success(t *testing.T) {
	srv := servePage(t, http.StatusOK, postingHTML)

	posting, err := Fetch(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, posting.URL)
	assert.Equal(t, PlatformGeneric, posting.Platform)
	assert.Equal(t, "Backend Engineer\n5 years experience in Go\nDocker and Kubernetes", posting.Text)
}

func TestFetch_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", ""} {
		_, err := Fetch(context.Background(), raw, nil)
		require.Error(t, err)

		var fetchErr *FetchError
		assert.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := servePage(t, http.StatusNotFound, "gone")

	_, err := Fetch(context.Background(), srv.URL, nil)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_TooLarge(t *testing.T) {
	srv := servePage(t, http.StatusOK, strings.Repeat("a", 2048))

	opts := DefaultOptions()
	opts.MaxBytes = 1024
	_, err := Fetch(context.Background(), srv.URL, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than 1024 bytes")
}

func TestFetch_EmptyPage(t *testing.T) {
	srv := servePage(t, http.StatusOK, "<html><body><nav>Only navigation</nav></body></html>")

	_, err := Fetch(context.Background(), srv.URL, nil)
	require.Error(t, err)

	var emptyErr *EmptyPostingError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := servePage(t, http.StatusOK, postingHTML)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fetch(ctx, srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		platform    Platform
		contains    []string
		notContains []string
	}{
		{
			name:        "main element",
			html:        `<html><body><nav>Navigation</nav><main><h1>Main Content</h1><p>Important text.</p></main><footer>Footer</footer></body></html>`,
			platform:    PlatformGeneric,
			contains:    []string{"Main Content", "Important text."},
			notContains: []string{"Navigation", "Footer"},
		},
		{
			name:     "fallback to body",
			html:     `<html><body><div>Some content here.</div></body></html>`,
			platform: PlatformGeneric,
			contains: []string{"Some content here."},
		},
		{
			name: "greenhouse layout",
			html: `<html><body>
				<div class="job__description body"><p>Build APIs in Go</p></div>
				<div class="voluntary-self-id">Self identification</div>
				<main>Other listings</main>
			</body></html>`,
			platform:    PlatformGreenhouse,
			contains:    []string{"Build APIs in Go"},
			notContains: []string{"Self identification", "Other listings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractText(tt.html, tt.platform)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestCollapseLines(t *testing.T) {
	assert.Equal(t, "a b\nc", collapseLines("  a \t b \n\n   \n c  "))
	assert.Equal(t, "", collapseLines(" \n\t\n"))
}
