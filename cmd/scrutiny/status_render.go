package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scrutiny/internal/history"
	"scrutiny/internal/pipeline"
)

var breakdownCaser = cases.Title(language.English)

// renderOutcome prints the audit verdict for terminal consumption.
func renderOutcome(w io.Writer, outcome *pipeline.Outcome) {
	fmt.Fprintf(w, "Audited %s (%s)\n", outcome.SourceFile, outcome.SourceType)
	fmt.Fprintf(w, "Run: %s\n\n", outcome.RunID)

	rows := [][]string{
		{"Score", formatScore(outcome.Result.Score)},
		{"Status", statusLabel(outcome.Status)},
		{"Violations", fmt.Sprintf("%d", len(outcome.Result.Violations))},
		{"Utterances", fmt.Sprintf("%d", len(outcome.Utterances))},
	}
	if len(outcome.Result.Breakdown) > 0 {
		keys := make([]string, 0, len(outcome.Result.Breakdown))
		for key := range outcome.Result.Breakdown {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			label := breakdownCaser.String(strings.ReplaceAll(key, "_", " "))
			rows = append(rows, []string{label, fmt.Sprintf("%.0f", outcome.Result.Breakdown[key])})
		}
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, 2))

	if summary := strings.TrimSpace(outcome.Result.Summary); summary != "" {
		fmt.Fprintf(w, "\nSummary: %s\n", summary)
	}
	if len(outcome.Result.Violations) > 0 {
		fmt.Fprintln(w, "\nViolations:")
		for _, v := range outcome.Result.Violations {
			fmt.Fprintf(w, "  - %s\n", v)
		}
	}
	if outcome.ReportPath != "" {
		fmt.Fprintf(w, "\nReport: %s\n", outcome.ReportPath)
	}
}

func statusLabel(status string) string {
	switch status {
	case history.StatusFlagged:
		return "FLAGGED"
	case history.StatusCompliant:
		return "Compliant"
	default:
		return status
	}
}
