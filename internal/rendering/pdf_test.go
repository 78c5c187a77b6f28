package rendering

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportChangesPDF_ListItemsAreBulleted(t *testing.T) {
	items := []string{"Add Docker experience", "Quantify achievements", "Mention CI/CD"}

	data, err := ExportChangesPDF(analysis.ListChanges(items...))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	text, err := ingestion.ExtractPDFBytes(data)
	require.NoError(t, err)

	for _, item := range items {
		assert.Contains(t, text, item)
	}
	assert.Equal(t, len(items), strings.Count(text, "•"))
}

func TestExportChangesPDF_Text(t *testing.T) {
	data, err := ExportChangesPDF(analysis.TextChanges("Rewrite the summary"))
	require.NoError(t, err)

	text, err := ingestion.ExtractPDFBytes(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Rewrite the summary")
	assert.NotContains(t, text, "•")
}

func TestExportChangesPDF_EmptyListIsValidDocument(t *testing.T) {
	data, err := ExportChangesPDF(analysis.ListChanges())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	src, err := ingestion.OpenPDF(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, src.NumPage())
}

func TestExportChangesPDF_LongListBreaksPages(t *testing.T) {
	items := make([]string, 60)
	for i := range items {
		items[i] = "Tighten the wording of bullet"
	}

	data, err := ExportChangesPDF(analysis.ListChanges(items...))
	require.NoError(t, err)

	src, err := ingestion.OpenPDF(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Greater(t, src.NumPage(), 1)
}
