package diarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrutiny/internal/services"
)

func TestDiarizeParsesTurns(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "call.wav")

	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if name != UVXCommand {
			t.Fatalf("command = %q, want %q", name, UVXCommand)
		}
		payload := `{"merged_segments":[{"start":0,"end":4.5,"speaker":"SPEAKER_00"},{"start":4.5,"end":9.0,"speaker":"SPEAKER_01"}]}`
		if err := os.WriteFile(filepath.Join(dir, "call.diarization.json"), []byte(payload), 0o644); err != nil {
			t.Fatal(err)
		}
		return nil
	})

	turns, err := svc.Diarize(context.Background(), source)
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[1].Speaker != "SPEAKER_01" || turns[1].Start != 4.5 {
		t.Errorf("unexpected turn: %+v", turns[1])
	}
}

func TestDiarizeClassifiesFormatErrors(t *testing.T) {
	for _, msg := range []string{
		"missing RIFF id at offset 0",
		"invalid WAV header",
		"audio is not in the correct format",
		"expected 16kHz mono input",
	} {
		svc := NewService(Config{})
		svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			return fmt.Errorf("senko: %s", msg)
		})
		_, err := svc.Diarize(context.Background(), "/work/call.wav")
		if !errors.Is(err, services.ErrUnsupportedFormat) {
			t.Errorf("message %q should classify as format error, got %v", msg, err)
		}
	}
}

func TestDiarizeLeavesOtherErrorsUntyped(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("CUDA out of memory")
	})
	_, err := svc.Diarize(context.Background(), "/work/call.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("non-format failure must not be retryable: %v", err)
	}
}

func TestDiarizeBuildsDeviceArgs(t *testing.T) {
	svc := NewService(Config{Model: "senko==0.3", CUDAEnabled: true})
	joined := strings.Join(svc.buildArgs("in.wav", "in.diarization.json"), " ")
	for _, fragment := range []string{"senko==0.3 in.wav", "--output in.diarization.json", "--device cuda"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("args missing %q: %s", fragment, joined)
		}
	}
}

func TestDiarizeRequiresSource(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Diarize(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty source")
	}
}
