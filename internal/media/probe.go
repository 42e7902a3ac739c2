package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration returns the media duration in whole seconds via ffprobe.
// Callers treat a probe failure as non-fatal; the pipeline runs fine with
// an unknown duration.
func (FFmpeg) ProbeDuration(ctx context.Context, src string) (int64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		src,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return 0, fmt.Errorf("ffprobe output: %w", err)
	}
	if probed.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe: no duration for %s", src)
	}
	secs, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", probed.Format.Duration, err)
	}
	return int64(secs), nil
}
