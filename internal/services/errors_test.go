package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := Wrap(ErrExternalTool, "align", "diarize", "senko failed", base)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive: %v", err)
	}
	for _, fragment := range []string{"align", "diarize", "senko failed"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("missing %q in %v", fragment, err)
		}
	}
}

func TestWrapNilMarkerDefaultsToExternal(t *testing.T) {
	err := Wrap(nil, "stage", "op", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("nil marker should default to ErrExternalTool: %v", err)
	}
}

func TestFailureKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{Wrap(ErrBadInput, "intake", "stat", "missing file", nil), "bad input"},
		{Wrap(ErrConfiguration, "policy", "open", "no document", nil), "bad input"},
		{Wrap(ErrEmptyResult, "normalize", "parse", "no utterances", nil), "empty result"},
		{Wrap(ErrExternalTool, "audit", "llm", "timeout", nil), "processing failure"},
		{Wrap(ErrUnsupportedFormat, "align", "diarize", "bad header", nil), "processing failure"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := FailureKind(tc.err); got != tc.want {
			t.Fatalf("FailureKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestUnsupportedFormatIsDistinguishable(t *testing.T) {
	err := Wrap(ErrUnsupportedFormat, "align", "diarize", "16khz mono required", nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected typed format error: %v", err)
	}
	if errors.Is(err, ErrBadInput) || errors.Is(err, ErrEmptyResult) {
		t.Fatalf("format error should not satisfy other markers: %v", err)
	}
}
