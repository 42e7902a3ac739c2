package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrExtraction is returned when the source media cannot be converted to
// the normalized PCM stream the transcriber expects.
var ErrExtraction = errors.New("media extraction failed")

// FFmpeg shells out to ffmpeg/ffprobe on PATH.
type FFmpeg struct{}

// Extract converts src into single-channel 16kHz 16-bit PCM WAV at dst,
// overwriting any existing file there. Works for both audio and video
// inputs; -vn drops any video stream.
func (FFmpeg) Extract(ctx context.Context, src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: source %s: %v", ErrExtraction, src, err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", src,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-acodec", "pcm_s16le",
		dst,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := lastLine(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: ffmpeg: %s", ErrExtraction, msg)
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
