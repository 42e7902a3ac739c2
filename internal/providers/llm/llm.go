package llm

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the generation endpoint could not be reached at
	// the transport level.
	ErrUnavailable = errors.New("generation service unreachable")

	// ErrRequestFailed means the service answered with a non-success status.
	ErrRequestFailed = errors.New("generation request failed")
)

// Provider issues a synchronous, non-streaming generation request and
// returns the full completion trimmed of surrounding whitespace.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Model identifies the configured model, recorded on analysis results.
	Model() string
	Close() error
}
