// Package analysis splits a structured LLM completion into its named
// sections using the markers defined in internal/prompt.
package analysis

import (
	"strings"

	"github.com/lectura-ai/lectura/internal/prompt"
)

// Sections is the parsed completion. Every field is whitespace-trimmed.
type Sections struct {
	Summary     string
	Notes       string
	Suggestions string
}

// Parse locates each marker by first occurrence. A section runs from just
// after its marker to the start of the next marker (in SUMMARY → NOTES →
// SUGGESTIONS order) that occurs later in the text, or to end-of-text.
//
// Degraded mode: if all three sections come out empty (no markers, or
// markers with empty bodies) the whole trimmed completion lands in Notes
// so nothing the model produced is ever dropped. That fallback is the
// documented contract, not a bug.
func Parse(raw string) Sections {
	s := Sections{
		Summary:     section(raw, prompt.MarkerSummary, prompt.MarkerNotes, prompt.MarkerSuggestions),
		Notes:       section(raw, prompt.MarkerNotes, prompt.MarkerSuggestions),
		Suggestions: section(raw, prompt.MarkerSuggestions),
	}

	if s.Summary == "" && s.Notes == "" && s.Suggestions == "" {
		s.Notes = strings.TrimSpace(raw)
	}
	return s
}

func section(raw, marker string, followers ...string) string {
	i := strings.Index(raw, marker)
	if i < 0 {
		return ""
	}
	start := i + len(marker)

	end := len(raw)
	for _, f := range followers {
		if j := strings.Index(raw[start:], f); j >= 0 {
			end = start + j
			break
		}
	}
	return strings.TrimSpace(raw[start:end])
}
