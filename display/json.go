package display

import (
	json "github.com/goccy/go-json"
)

// MarshalJSON marshals v with two-space indentation and without HTML
// escaping, so generated code in envelopes stays readable.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndentWithOption(v, "", "  ", json.DisableHTMLEscape())
}
