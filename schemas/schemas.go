// Package schemas embeds the JSON Schema files describing model output.
package schemas

import (
	"embed"
	"fmt"
)

// AnalysisResult is the schema for the ATS analysis response.
const AnalysisResult = "analysis_result.schema.json"

//go:embed *.schema.json
var files embed.FS

// Get returns the content of an embedded schema file.
func Get(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not found: %w", name, err)
	}
	return string(data), nil
}
