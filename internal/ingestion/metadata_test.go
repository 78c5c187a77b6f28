package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_JSONMarshaling(t *testing.T) {
	metadata := &Metadata{
		Filename:     "resume.pdf",
		Timestamp:    "2024-01-01T00:00:00Z",
		Hash:         "abcd1234",
		Pages:        2,
		SkippedPages: []int{2},
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var unmarshaled Metadata
	require.NoError(t, json.Unmarshal(jsonBytes, &unmarshaled))
	assert.Equal(t, metadata.Filename, unmarshaled.Filename)
	assert.Equal(t, metadata.Hash, unmarshaled.Hash)
	assert.Equal(t, []int{2}, unmarshaled.SkippedPages)
}

func TestComputeHash(t *testing.T) {
	hash1 := computeHash([]byte("test content"))
	hash2 := computeHash([]byte("different content"))

	assert.Len(t, hash1, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, computeHash([]byte("test content")))
}

func TestNewMetadata(t *testing.T) {
	raw := []byte("%PDF-1.4 ...")
	metadata := NewMetadata(raw, "cv.pdf")

	assert.Equal(t, "cv.pdf", metadata.Filename)
	assert.Equal(t, computeHash(raw), metadata.Hash)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}

func TestExtractUpload(t *testing.T) {
	data := buildPDF(t, "Go", "")

	doc, err := Extractor{}.ExtractUpload("resume.pdf", data)
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "Go")
	assert.Equal(t, "resume.pdf", doc.Metadata.Filename)
	assert.Equal(t, 2, doc.Metadata.Pages)
	assert.Equal(t, len([]rune(doc.Text)), doc.Metadata.Characters)
}

func TestExtractUpload_InvalidDocument(t *testing.T) {
	_, err := Extractor{}.ExtractUpload("resume.pdf", []byte("nope"))
	var docErr *DocumentError
	assert.ErrorAs(t, err, &docErr)
}
