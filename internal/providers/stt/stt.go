package stt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable means the speech engine was never initialized (or has
	// been closed). Distinct from a transcription error so callers can tell
	// a misconfigured worker from a bad run.
	ErrUnavailable = errors.New("transcription engine unavailable")

	// ErrTranscription wraps engine-internal failures.
	ErrTranscription = errors.New("transcription failed")
)

// Segment is one recognized chunk of speech, in recording order.
type Segment struct {
	Text string
}

// Engine converts normalized audio (mono 16kHz 16-bit PCM) into ordered
// segments. Implementations must be safe for concurrent use: one engine
// instance is shared by every worker slot in the process.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
	Close() error
}

// JoinSegments assembles the full transcript: segment texts joined with a
// single space, surrounding whitespace trimmed. Inner whitespace is kept
// as the engine produced it.
func JoinSegments(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Transcriber wraps an Engine with the join-then-trim transcript contract.
type Transcriber struct {
	engine Engine
}

func NewTranscriber(engine Engine) *Transcriber {
	return &Transcriber{engine: engine}
}

func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if t == nil || t.engine == nil {
		return "", ErrUnavailable
	}
	segs, err := t.engine.Transcribe(ctx, audioPath)
	if err != nil {
		if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTranscription) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	return JoinSegments(segs), nil
}
