package transcript

import (
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestLineTimed(t *testing.T) {
	u := Utterance{Start: ptr(12.34), End: ptr(14.0), Speaker: "SPEAKER_00", Text: "hello"}
	if got := u.Line(); got != "[12.3s] SPEAKER_00: hello" {
		t.Fatalf("line = %q", got)
	}
	if !u.Timed() {
		t.Fatal("expected Timed() true")
	}
}

func TestLineChatTimestamp(t *testing.T) {
	u := Utterance{Timestamp: "10:02", Speaker: "Alice", Text: "hi"}
	if got := u.Line(); got != "[10:02] Alice: hi" {
		t.Fatalf("line = %q", got)
	}
}

func TestLinePlain(t *testing.T) {
	u := Utterance{Speaker: SpeakerSystem, Text: "session ended"}
	if got := u.Line(); got != "System: session ended" {
		t.Fatalf("line = %q", got)
	}
}

func TestRenderJoinsLines(t *testing.T) {
	out := Render([]Utterance{
		{Start: ptr(0), End: ptr(1.5), Speaker: "SPEAKER_00", Text: "welcome"},
		{Start: ptr(2.0), End: ptr(3.0), Speaker: "SPEAKER_01", Text: "thanks"},
	})
	want := "[0.0s] SPEAKER_00: welcome\n[2.0s] SPEAKER_01: thanks"
	if out != want {
		t.Fatalf("render = %q, want %q", out, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}

func TestPrefixRespectsRuneBoundary(t *testing.T) {
	text := "héllo wörld"
	if got := Prefix(text, 4); got != "héll" {
		t.Fatalf("prefix = %q", got)
	}
	if got := Prefix(text, 100); got != text {
		t.Fatalf("prefix should return full text, got %q", got)
	}
	if got := Prefix(text, 0); got != "" {
		t.Fatalf("zero limit should return empty, got %q", got)
	}
}

func TestSpeakersOrderedDistinct(t *testing.T) {
	got := Speakers([]Utterance{
		{Speaker: "Alice"}, {Speaker: "Bob"}, {Speaker: "Alice"}, {Speaker: SpeakerSystem},
	})
	if strings.Join(got, ",") != "Alice,Bob,System" {
		t.Fatalf("speakers = %v", got)
	}
}
