// Package analysis parses model responses into ATS results and runs the
// extract, prompt, generate, parse sequence for one Analyze action.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Result is one complete ATS assessment. A Result is either absent or has
// every field populated; partial results are never produced.
type Result struct {
	MatchPercentage string   `json:"JD Match"`
	MissingKeywords []string `json:"MissingKeywords"`
	ProfileSummary  string   `json:"Profile Summary"`
	ChangesNeeded   Changes  `json:"ChangesNeeded"`
}

// Changes holds the suggested changes, which the model may send either as one
// block of text or as an ordered list of items.
type Changes struct {
	Text  string
	Items []string
	list  bool
}

// TextChanges builds a Changes in text form.
func TextChanges(text string) Changes {
	return Changes{Text: text}
}

// ListChanges builds a Changes in list form.
func ListChanges(items ...string) Changes {
	if items == nil {
		items = []string{}
	}
	return Changes{Items: items, list: true}
}

// IsList reports whether the changes arrived as a list.
func (c Changes) IsList() bool {
	return c.list
}

// UnmarshalJSON accepts a JSON string or a JSON array of strings.
func (c *Changes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("ChangesNeeded list: %w", err)
		}
		*c = ListChanges(items...)
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return fmt.Errorf("ChangesNeeded must be a string or a list of strings: %w", err)
	}
	*c = TextChanges(text)
	return nil
}

// MarshalJSON writes the changes back in the form they arrived in.
func (c Changes) MarshalJSON() ([]byte, error) {
	if c.list {
		items := c.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(c.Text)
}

// matchValue decodes "JD Match", normalising bare numbers to "<n>%".
type matchValue string

func (m *matchValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = matchValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("JD Match must be a string or a number: %w", err)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("JD Match: %w", err)
	}
	*m = matchValue(strconv.FormatFloat(f, 'f', -1, 64) + "%")
	return nil
}

// UnmarshalJSON decodes the model contract. Extra keys are ignored.
func (r *Result) UnmarshalJSON(data []byte) error {
	var wire struct {
		MatchPercentage *matchValue `json:"JD Match"`
		MissingKeywords *[]string   `json:"MissingKeywords"`
		ProfileSummary  *string     `json:"Profile Summary"`
		ChangesNeeded   *Changes    `json:"ChangesNeeded"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch {
	case wire.MatchPercentage == nil:
		return fmt.Errorf("missing key %q", "JD Match")
	case wire.MissingKeywords == nil:
		return fmt.Errorf("missing key %q", "MissingKeywords")
	case wire.ProfileSummary == nil:
		return fmt.Errorf("missing key %q", "Profile Summary")
	case wire.ChangesNeeded == nil:
		return fmt.Errorf("missing key %q", "ChangesNeeded")
	}

	*r = Result{
		MatchPercentage: string(*wire.MatchPercentage),
		MissingKeywords: *wire.MissingKeywords,
		ProfileSummary:  *wire.ProfileSummary,
		ChangesNeeded:   *wire.ChangesNeeded,
	}
	return nil
}
