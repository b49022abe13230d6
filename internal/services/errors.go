package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the failure classes the pipeline distinguishes.
var (
	// ErrBadInput marks precondition failures: missing artifact, missing
	// policy document, unusable arguments. Nothing external was invoked.
	ErrBadInput = errors.New("bad input")
	// ErrUnsupportedFormat marks audio the diarizer rejected for format
	// reasons. It is the only error class the aligner recovers from.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrExternalTool marks transcription, diarization, embedding, or audit
	// call failures. Per-artifact, never process-fatal.
	ErrExternalTool = errors.New("external tool error")
	// ErrEmptyResult marks a stage that succeeded but produced nothing
	// usable (e.g. zero utterances).
	ErrEmptyResult = errors.New("empty result")
	// ErrConfiguration marks unusable configuration discovered at run time.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureKind labels an error with the reporting category surfaced to
// operators: bad input, empty result, or processing failure.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBadInput), errors.Is(err, ErrConfiguration):
		return "bad input"
	case errors.Is(err, ErrEmptyResult):
		return "empty result"
	default:
		return "processing failure"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
