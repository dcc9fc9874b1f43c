// Package parser recovers a single JSON payload from free-form model
// output. Model responses frequently wrap the payload in markdown fences
// or surround it with prose; every component that parses model output
// goes through this package.
package parser

import (
	"encoding/json"
	"strings"

	"quizcraft/internal/domain"
)

const fence = "```"

// Parse extracts the JSON document from raw and unmarshals it into v.
// A fenced block tagged json takes priority, then any fenced block, then
// the raw text itself. On failure it returns a MALFORMED_RESPONSE domain
// error carrying the original text for diagnostics.
func Parse(raw string, v interface{}) error {
	candidate := Extract(raw)
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return domain.NewMalformedResponseError(err, raw)
	}
	return nil
}

// Extract returns the best JSON candidate substring without parsing it.
func Extract(raw string) string {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, fence+"json"); idx != -1 {
		return fencedInterior(text[idx+len(fence+"json"):])
	}
	if idx := strings.Index(text, fence); idx != -1 {
		return fencedInterior(text[idx+len(fence):])
	}
	return text
}

func fencedInterior(after string) string {
	if end := strings.Index(after, fence); end != -1 {
		after = after[:end]
	}
	return strings.TrimSpace(after)
}
