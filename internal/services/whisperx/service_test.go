package whisperx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeOutput(t *testing.T, dir, base, payload string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, base+".json"), []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTranscribeParsesSegments(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "call.wav")
	if err := os.WriteFile(source, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(Config{Model: "large-v3-turbo"})
	var gotArgs []string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if name != UVXCommand {
			t.Fatalf("command = %q, want %q", name, UVXCommand)
		}
		gotArgs = args
		writeOutput(t, dir, "call", `{"segments":[{"text":" hello","start":0.5,"end":2.1},{"text":"bye","start":3.0,"end":4.0}]}`)
		return nil
	})

	segments, err := svc.Transcribe(context.Background(), source, "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Start != 0.5 || segments[0].End != 2.1 {
		t.Errorf("segment timing: %+v", segments[0])
	}

	joined := strings.Join(gotArgs, " ")
	for _, fragment := range []string{"whisperx " + source, "--model large-v3-turbo", "--vad_method silero", "--device cpu"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("args missing %q: %s", fragment, joined)
		}
	}
}

func TestTranscribeRequiresSource(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Transcribe(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestTranscribeMissingOutputFails(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "call.wav")
	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil
	})
	if _, err := svc.Transcribe(context.Background(), source, ""); err == nil {
		t.Fatal("expected error when whisperx wrote no JSON")
	}
}

func TestBuildArgsCUDA(t *testing.T) {
	svc := NewService(Config{CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "tok"})
	joined := strings.Join(svc.buildArgs("in.wav", "out"), " ")
	for _, fragment := range []string{"--index-url " + CUDAIndexURL, "--device cuda", "--hf_token tok"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("args missing %q: %s", fragment, joined)
		}
	}
	if strings.Contains(joined, "--compute_type") {
		t.Errorf("cuda args should not force compute type: %s", joined)
	}
}
