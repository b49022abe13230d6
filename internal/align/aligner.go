package align

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"scrutiny/internal/logging"
	"scrutiny/internal/services"
	"scrutiny/internal/services/diarize"
	"scrutiny/internal/services/whisperx"
	"scrutiny/internal/transcript"
)

// Transcriber produces timed transcription segments for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, source, outputDir string) ([]whisperx.Segment, error)
}

// Diarizer segments an audio file by speaker.
type Diarizer interface {
	Diarize(ctx context.Context, source string) ([]diarize.Turn, error)
}

// Resampler converts audio into the form the diarizer accepts.
type Resampler interface {
	Convert(ctx context.Context, source string) (string, error)
}

// Aligner runs transcription and diarization and merges their outputs.
type Aligner struct {
	transcriber Transcriber
	diarizer    Diarizer
	resampler   Resampler
	logger      *slog.Logger
}

// New creates an Aligner. A nil logger disables logging.
func New(transcriber Transcriber, diarizer Diarizer, resampler Resampler, logger *slog.Logger) *Aligner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Aligner{
		transcriber: transcriber,
		diarizer:    diarizer,
		resampler:   resampler,
		logger:      logging.NewComponentLogger(logger, "align"),
	}
}

// Process transcribes and diarizes the audio at path and returns the merged
// speaker-attributed utterances.
func (a *Aligner) Process(ctx context.Context, path string) ([]transcript.Utterance, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrBadInput, "align", "intake", "audio path required", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrBadInput, "align", "intake", fmt.Sprintf("audio file not found: %s", path), err)
	}

	turns, workPath, err := a.diarizeWithRecovery(ctx, logging.WithContext(ctx, a.logger), path)
	if err != nil {
		return nil, err
	}

	segments, err := a.transcriber.Transcribe(ctx, workPath, "")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "align", "transcribe", "transcription failed", err)
	}

	return Merge(segments, turns), nil
}

// diarizeWithRecovery diarizes path, converting the audio and retrying once
// when the diarizer rejects its format. It returns the turns and the path the
// rest of the stage should use, which is the converted copy after a recovery.
func (a *Aligner) diarizeWithRecovery(ctx context.Context, logger *slog.Logger, path string) ([]diarize.Turn, string, error) {
	turns, err := a.diarizer.Diarize(ctx, path)
	if err == nil {
		return turns, path, nil
	}
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		return nil, "", services.Wrap(services.ErrExternalTool, "align", "diarize", "diarization failed", err)
	}

	logger.Warn("audio format rejected, converting",
		logging.String(logging.FieldArtifact, path),
		logging.Error(err))
	fixed, convErr := a.resampler.Convert(ctx, path)
	if convErr != nil {
		return nil, "", services.Wrap(services.ErrExternalTool, "align", "convert", "audio conversion failed", convErr)
	}

	turns, retryErr := a.diarizer.Diarize(ctx, fixed)
	if retryErr != nil {
		return nil, "", services.Wrap(services.ErrExternalTool, "align", "diarize", "diarization failed after conversion", retryErr)
	}
	return turns, fixed, nil
}

// Merge attributes each transcription segment to the first diarization turn
// whose inclusive bounds contain the segment's midpoint. Segments no turn
// covers get the Unknown speaker. Segment order is preserved.
func Merge(segments []whisperx.Segment, turns []diarize.Turn) []transcript.Utterance {
	utterances := make([]transcript.Utterance, 0, len(segments))
	for _, seg := range segments {
		mid := (seg.Start + seg.End) / 2
		speaker := transcript.SpeakerUnknown
		for _, turn := range turns {
			if turn.Start <= mid && mid <= turn.End {
				speaker = turn.Speaker
				break
			}
		}
		start, end := seg.Start, seg.End
		utterances = append(utterances, transcript.Utterance{
			Start:   &start,
			End:     &end,
			Speaker: speaker,
			Text:    strings.TrimSpace(seg.Text),
		})
	}
	return utterances
}
