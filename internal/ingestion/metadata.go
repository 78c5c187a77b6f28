package ingestion

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an uploaded resume after extraction
type Metadata struct {
	Filename     string `json:"filename,omitempty"`
	Timestamp    string `json:"timestamp"` // RFC3339 format
	Hash         string `json:"hash"`      // SHA256 hex digest of the raw upload
	Pages        int    `json:"pages"`
	SkippedPages []int  `json:"skipped_pages,omitempty"`
	Characters   int    `json:"characters"`
}

// Document is the extracted text of an upload together with its metadata.
type Document struct {
	Text     string
	Metadata *Metadata
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(raw []byte, filename string) *Metadata {
	return &Metadata{
		Filename:  filename,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(raw),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}

// ExtractUpload extracts an in-memory PDF upload and records its metadata.
func (e Extractor) ExtractUpload(filename string, data []byte) (*Document, error) {
	src, err := OpenPDF(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	text, skipped, err := e.extract(src)
	if err != nil {
		return nil, err
	}

	meta := NewMetadata(data, filename)
	meta.Pages = src.NumPage()
	meta.SkippedPages = skipped
	meta.Characters = len([]rune(text))
	return &Document{Text: text, Metadata: meta}, nil
}
