package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseThreeSections(t *testing.T) {
	raw := "### SUMMARY\nA\n### DETAILED NOTES\nB\n### SUGGESTIONS AND RESOURCES\nC"

	got := Parse(raw)

	assert.Equal(t, "A", got.Summary)
	assert.Equal(t, "B", got.Notes)
	assert.Equal(t, "C", got.Suggestions)
}

func TestParseTrimsSectionBodies(t *testing.T) {
	raw := "### SUMMARY\n\n  summary body  \n\n### DETAILED NOTES\n\nnotes body\n\n### SUGGESTIONS AND RESOURCES\n\nsuggestions body\n"

	got := Parse(raw)

	assert.Equal(t, "summary body", got.Summary)
	assert.Equal(t, "notes body", got.Notes)
	assert.Equal(t, "suggestions body", got.Suggestions)
}

func TestParseNoMarkersFallsBackToNotes(t *testing.T) {
	got := Parse("  no markers here  ")

	assert.Empty(t, got.Summary)
	assert.Empty(t, got.Suggestions)
	assert.Equal(t, "no markers here", got.Notes)
}

func TestParseMissingMiddleSection(t *testing.T) {
	raw := "### SUMMARY\nonly a summary\n### SUGGESTIONS AND RESOURCES\nread more"

	got := Parse(raw)

	assert.Equal(t, "only a summary", got.Summary)
	assert.Empty(t, got.Notes)
	assert.Equal(t, "read more", got.Suggestions)
}

func TestParseLeadingPreambleIgnored(t *testing.T) {
	raw := "Sure, here is the material you asked for.\n### SUMMARY\nS\n### DETAILED NOTES\nN\n### SUGGESTIONS AND RESOURCES\nR"

	got := Parse(raw)

	assert.Equal(t, "S", got.Summary)
	assert.Equal(t, "N", got.Notes)
	assert.Equal(t, "R", got.Suggestions)
}

func TestParseEmptyInput(t *testing.T) {
	got := Parse("")

	assert.Empty(t, got.Summary)
	assert.Empty(t, got.Notes)
	assert.Empty(t, got.Suggestions)
}

func TestParseMarkerWithEmptyBody(t *testing.T) {
	raw := "### SUMMARY\n### DETAILED NOTES\nthe notes\n### SUGGESTIONS AND RESOURCES\n"

	got := Parse(raw)

	assert.Empty(t, got.Summary)
	assert.Equal(t, "the notes", got.Notes)
	assert.Empty(t, got.Suggestions)
}
