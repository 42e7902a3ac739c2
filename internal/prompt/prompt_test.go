package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lectura-ai/lectura/internal/models"
)

func TestAnalysisContainsMarkersAndTranscript(t *testing.T) {
	p := Analysis("the transcript body", models.ModeLecture)

	assert.Contains(t, p, MarkerSummary)
	assert.Contains(t, p, MarkerNotes)
	assert.Contains(t, p, MarkerSuggestions)
	assert.Contains(t, p, "the transcript body")
	assert.Contains(t, p, "lecture")
}

func TestAnalysisMeetingNoun(t *testing.T) {
	p := Analysis("x", models.ModeMeeting)

	assert.Contains(t, p, "meeting")
	assert.NotContains(t, p, "lecture")
}

func TestAnalysisMarkerOrder(t *testing.T) {
	p := Analysis("x", models.ModeLecture)

	i := strings.Index(p, MarkerSummary)
	j := strings.Index(p, MarkerNotes)
	k := strings.Index(p, MarkerSuggestions)
	assert.True(t, i < j && j < k)
}

func TestQAWithUserContext(t *testing.T) {
	p := QA(QAContext{
		UserContext:   "focus on chapter 3",
		Summary:       "stored summary",
		Notes:         "stored notes",
		Transcription: "full text",
	}, "what is covered?")

	assert.Contains(t, p, "focus on chapter 3")
	assert.Contains(t, p, "full text")
	assert.Contains(t, p, "what is covered?")

	// User context replaces the stored summary and notes.
	assert.NotContains(t, p, "stored summary")
	assert.NotContains(t, p, "stored notes")
}

func TestQAWithoutUserContext(t *testing.T) {
	p := QA(QAContext{
		Summary:       "stored summary",
		Notes:         "stored notes",
		Transcription: "full text",
	}, "what is covered?")

	assert.Contains(t, p, "stored summary")
	assert.Contains(t, p, "stored notes")
	assert.Contains(t, p, "full text")
}

func TestQABlankUserContextIgnored(t *testing.T) {
	p := QA(QAContext{
		UserContext:   "   ",
		Summary:       "stored summary",
		Transcription: "full text",
	}, "q")

	assert.Contains(t, p, "stored summary")
}
