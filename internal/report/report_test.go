package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"scrutiny/internal/auditor"
)

func sampleInput() Input {
	score := 45.0
	return Input{
		SourceFile: "/data/uploads/call.wav",
		SourceType: "audio",
		RunID:      "run-123",
		CreatedAt:  time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
		Result: auditor.Result{
			Score: &score,
			Breakdown: map[string]float64{
				"policy_adherence": 40,
				"professionalism":  55,
			},
			Summary:    "Agent promised an unapproved refund.",
			Violations: []string{"Promised refund without approval"},
		},
	}
}

func TestRenderSections(t *testing.T) {
	out := Render(sampleInput())
	for _, fragment := range []string{
		"# Customer Support Audit Report",
		"## Overall Score: 45/100",
		"- Policy Adherence: 40",
		"- Professionalism: 55",
		"## Summary",
		"Agent promised an unapproved refund.",
		"## Violations Detected",
		"- Promised refund without approval",
		"run-123",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("report missing %q:\n%s", fragment, out)
		}
	}
}

func TestRenderCompliantAndScoreless(t *testing.T) {
	in := sampleInput()
	in.Result.Score = nil
	in.Result.Violations = nil
	in.Result.Summary = ""
	out := Render(in)
	if !strings.Contains(out, "## Overall Score: N/A") {
		t.Errorf("missing N/A score:\n%s", out)
	}
	if !strings.Contains(out, "None\n") {
		t.Errorf("missing None for violations:\n%s", out)
	}
	if !strings.Contains(out, "No summary provided.") {
		t.Errorf("missing summary fallback:\n%s", out)
	}
}

func TestWriteDerivesFilename(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, sampleInput())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasSuffix(path, "report_call.md") {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "Audit Report") {
		t.Fatal("report content missing")
	}
}
