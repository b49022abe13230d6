package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpegCommand is the default ffmpeg binary name.
const FFmpegCommand = "ffmpeg"

// Resampler converts audio files into the mono PCM WAV form downstream
// speech tools accept.
type Resampler struct {
	ffmpegBinary  string
	sampleRate    int
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewResampler creates a Resampler targeting the given sample rate.
func NewResampler(ffmpegBinary string, sampleRate int) *Resampler {
	if ffmpegBinary == "" {
		ffmpegBinary = FFmpegCommand
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Resampler{ffmpegBinary: ffmpegBinary, sampleRate: sampleRate}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Resampler) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.commandRunner = runner
}

// FixedPath derives the destination path for a converted copy of source:
// the same directory and stem with a "_fixed.wav" suffix.
func FixedPath(source string) string {
	stem := strings.TrimSuffix(source, filepath.Ext(source))
	return stem + "_fixed.wav"
}

// Convert rewrites source as a mono WAV at the configured sample rate and
// returns the destination path.
func (r *Resampler) Convert(ctx context.Context, source string) (string, error) {
	dest := FixedPath(source)
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", r.sampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := r.run(ctx, r.ffmpegBinary, args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert: %w", err)
	}
	return dest, nil
}

func (r *Resampler) run(ctx context.Context, name string, args ...string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
