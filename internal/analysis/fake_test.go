package analysis

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Model() string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

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
