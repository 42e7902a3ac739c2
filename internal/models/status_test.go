package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	assert.True(t, StatusPending.Retryable())
	assert.True(t, StatusFailed.Retryable())
	assert.True(t, StatusTranscribing.Retryable())

	// ANALYZING and COMPLETED reject retries.
	assert.False(t, StatusAnalyzing.Retryable())
	assert.False(t, StatusCompleted.Retryable())
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusTranscribing.Terminal())
	assert.False(t, StatusAnalyzing.Terminal())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusTranscribing, true},
		{StatusTranscribing, StatusAnalyzing, true},
		{StatusTranscribing, StatusFailed, true},
		{StatusTranscribing, StatusPending, true},
		{StatusAnalyzing, StatusCompleted, true},
		{StatusAnalyzing, StatusFailed, true},
		{StatusFailed, StatusPending, true},

		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusTranscribing, false},
		{StatusAnalyzing, StatusPending, false},
		{StatusPending, StatusCompleted, false},
		{StatusFailed, StatusTranscribing, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionSameState(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusTranscribing, StatusAnalyzing, StatusCompleted, StatusFailed} {
		assert.Truef(t, CanTransition(s, s), "%s -> %s", s, s)
	}
	assert.False(t, CanTransition(Status("BOGUS"), Status("BOGUS")))
}

func TestValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("bogus").Valid())
	assert.False(t, Status("").Valid())
}
