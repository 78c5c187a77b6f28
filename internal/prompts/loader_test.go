package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}

func TestGet_ValidPrompt(t *testing.T) {
	resetCache()

	prompt, err := Get("analysis.json", "ats-analysis")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "ATS (Application Tracking System) expert")
}

func TestGet_InvalidFile(t *testing.T) {
	resetCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	resetCache()

	_, err := Get("analysis.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	template := "A={{.A}} B={{.B}}"
	data := map[string]string{
		"A": "{{.B}}",
		"B": "x",
	}

	assert.Equal(t, "A={{.B}} B=x", Format(template, data))
}

func TestCaching(t *testing.T) {
	resetCache()

	// First call loads from file
	prompt1, err := Get("analysis.json", "ats-analysis")
	require.NoError(t, err)

	cacheMu.RLock()
	_, cached := cache["analysis.json"]
	cacheMu.RUnlock()
	assert.True(t, cached)

	// Second call should use cache
	prompt2, err := Get("analysis.json", "ats-analysis")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
