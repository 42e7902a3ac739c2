package stt

import (
	"strings"
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
)

func TestSegmentsFromResults(t *testing.T) {
	results := []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{
			{Transcript: "First sentence. ", Confidence: 0.9},
			{Transcript: "worse alternative", Confidence: 0.4},
		}},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{}},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{
			{Transcript: ""},
		}},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{
			{Transcript: "Second sentence."},
		}},
	}

	segs := segmentsFromResults(results)

	assert.Equal(t, []Segment{
		{Text: "First sentence. "},
		{Text: "Second sentence."},
	}, segs)
}

func TestSegmentsFromResultsEmpty(t *testing.T) {
	assert.Empty(t, segmentsFromResults(nil))
}

func TestStagingKeyUniquePerCall(t *testing.T) {
	a := stagingKey("/scratch/session-abc.wav")
	b := stagingKey("/scratch/session-abc.wav")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "stt-staging/"))
	assert.True(t, strings.HasSuffix(a, "-session-abc.wav"))
}
