package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scrutiny/internal/auditor"
)

var titleCaser = cases.Title(language.English)

// Input bundles everything a report needs.
type Input struct {
	SourceFile string
	SourceType string
	RunID      string
	Result     auditor.Result
	CreatedAt  time.Time
}

// Render produces the markdown report body.
func Render(in Input) string {
	var b strings.Builder
	b.WriteString("# Customer Support Audit Report\n\n")

	fmt.Fprintf(&b, "- Source: `%s` (%s)\n", in.SourceFile, in.SourceType)
	if in.RunID != "" {
		fmt.Fprintf(&b, "- Run: %s\n", in.RunID)
	}
	if !in.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Audited: %s\n", in.CreatedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")

	if in.Result.Score != nil {
		fmt.Fprintf(&b, "## Overall Score: %.0f/100\n\n", *in.Result.Score)
	} else {
		b.WriteString("## Overall Score: N/A\n\n")
	}

	if len(in.Result.Breakdown) > 0 {
		keys := make([]string, 0, len(in.Result.Breakdown))
		for key := range in.Result.Breakdown {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			label := titleCaser.String(strings.ReplaceAll(key, "_", " "))
			fmt.Fprintf(&b, "- %s: %.0f\n", label, in.Result.Breakdown[key])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Summary\n\n")
	summary := strings.TrimSpace(in.Result.Summary)
	if summary == "" {
		summary = "No summary provided."
	}
	b.WriteString(summary)
	b.WriteString("\n\n")

	b.WriteString("## Violations Detected\n\n")
	if len(in.Result.Violations) == 0 {
		b.WriteString("None\n")
	} else {
		for _, v := range in.Result.Violations {
			fmt.Fprintf(&b, "- %s\n", v)
		}
	}
	return b.String()
}

// Write renders the report and stores it under dir, returning the file path.
// The filename is derived from the source file name.
func Write(dir string, in Input) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure reports directory: %w", err)
	}
	base := filepath.Base(in.SourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	path := filepath.Join(dir, fmt.Sprintf("report_%s.md", stem))
	if err := os.WriteFile(path, []byte(Render(in)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
