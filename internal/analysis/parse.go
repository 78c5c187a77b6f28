package analysis

import (
	"encoding/json"
	"errors"

	"github.com/jonathan/smart-ats/internal/llm"
	"github.com/jonathan/smart-ats/internal/schemas"
	rootschemas "github.com/jonathan/smart-ats/schemas"
)

// Parse converts a raw model response into a Result. Parsing is all or
// nothing: on any failure it returns a *MalformedResponseError and no Result.
func Parse(raw string) (*Result, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if err := schemas.Validate(rootschemas.AnalysisResult, cleaned); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &MalformedResponseError{Message: validationErr.Summary(), Raw: raw, Cause: err}
		}
		return nil, &MalformedResponseError{Message: "response is not valid JSON", Raw: raw, Cause: err}
	}

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &MalformedResponseError{Message: "response does not match the expected shape", Raw: raw, Cause: err}
	}
	return &result, nil
}
