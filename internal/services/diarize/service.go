package diarize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scrutiny/internal/services"
)

// UVXCommand is the uv tool runner used to launch Senko.
const UVXCommand = "uvx"

// DefaultModel is the Senko diarization model used when none is configured.
const DefaultModel = "senko"

// Turn is one speaker-homogeneous span of audio.
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// senkoPayload is the JSON structure Senko writes.
type senkoPayload struct {
	MergedSegments []Turn `json:"merged_segments"`
}

// Config captures runtime settings for diarization.
type Config struct {
	// Model is the Senko package spec passed to uvx.
	Model string
	// CUDAEnabled selects the cuda device instead of cpu.
	CUDAEnabled bool
}

// Service provides speaker diarization via Senko.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a diarization service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Diarize segments the source audio by speaker. A rejection caused by the
// audio's container or sample format is returned as
// services.ErrUnsupportedFormat so callers can convert and retry.
func (s *Service) Diarize(ctx context.Context, source string) ([]Turn, error) {
	if source == "" {
		return nil, fmt.Errorf("diarize: source path required")
	}

	outputPath := derivedOutputPath(source)
	args := s.buildArgs(source, outputPath)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		if isFormatError(err) {
			return nil, services.Wrap(services.ErrUnsupportedFormat, "diarize", "senko", "audio format rejected", err)
		}
		return nil, fmt.Errorf("senko: %w", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("senko: read output: %w", err)
	}
	var payload senkoPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("senko: parse output: %w", err)
	}
	return payload.MergedSegments, nil
}

func (s *Service) buildArgs(source, outputPath string) []string {
	model := s.cfg.Model
	if model == "" {
		model = DefaultModel
	}
	args := []string{
		model,
		source,
		"--output", outputPath,
		"--output-format", "json",
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", "cuda")
	} else {
		args = append(args, "--device", "cpu")
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func derivedOutputPath(source string) string {
	stem := strings.TrimSuffix(source, filepath.Ext(source))
	return stem + ".diarization.json"
}

// formatErrorFragments are the substrings Senko emits when it rejects audio
// for format reasons rather than failing outright.
var formatErrorFragments = []string{"riff", "header", "correct format", "16khz"}

func isFormatError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, fragment := range formatErrorFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
