package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pdf/fpdf"
	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/llm"
	"github.com/stretchr/testify/require"
)

const canonicalResponse = `{"JD Match":"75%","MissingKeywords":["Docker","Kubernetes"],"Profile Summary":"Solid backend engineer.","ChangesNeeded":["Add Docker experience","Quantify achievements"]}`

// fakeClient is a scripted llm.Client
type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (f *fakeClient) Generate(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.response, f.err
}

func (f *fakeClient) Model() string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

// gatedClient holds any prompt that mentions JOB-A until release is closed
// and answers everything else at once.
type gatedClient struct {
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func newGatedClient() *gatedClient {
	return &gatedClient{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedClient) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if !strings.Contains(prompt, "JOB-A") {
		return `{"JD Match":"90%","MissingKeywords":[],"Profile Summary":"for B","ChangesNeeded":[]}`, nil
	}
	close(g.entered)
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return `{"JD Match":"10%","MissingKeywords":[],"Profile Summary":"for A","ChangesNeeded":[]}`, nil
}

func (g *gatedClient) Model() string { return "fake-model" }

func (g *gatedClient) Close() error { return nil }

func (f *fakeClient) set(response string, err error) {
	f.mu.Lock()
	f.response, f.err = response, err
	f.mu.Unlock()
}

func newTestServer(t *testing.T, client llm.Client, mutate ...func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		Analyzer:   analysis.NewAnalyzer(client, nil),
		SessionTTL: time.Hour,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.store.Close)
	return s
}

// browser replays cookies between requests against one handler
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, s *Server) *browser {
	return &browser{t: t, handler: s.Handler(), cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(path, jobDescription, filename string, data []byte, fields ...string) *httptest.ResponseRecorder {
	return b.do(newUploadRequest(b.t, path, jobDescription, filename, data, fields...))
}

// newUploadRequest builds the analyze form. fields are extra name/value pairs
// written ahead of the job description, the way the page orders its inputs.
func newUploadRequest(t *testing.T, path, jobDescription, filename string, data []byte, fields ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for i := 0; i+1 < len(fields); i += 2 {
		require.NoError(t, mw.WriteField(fields[i], fields[i+1]))
	}
	require.NoError(t, mw.WriteField("job_description", jobDescription))
	if filename != "" {
		part, err := mw.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (b *browser) page(path string) *goquery.Document {
	w := b.get(path)
	return parseHTML(b.t, w)
}

func parseHTML(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	return doc
}

func resumePDF(t *testing.T, text string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	doc.AddPage()
	doc.Cell(0, 10, text)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}
