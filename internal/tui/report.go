package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/penzero00/Panel-Zero/internal/annotate"
	"github.com/penzero00/Panel-Zero/internal/locate"
)

// Report renders a review session as a markdown document: the pass
// summary followed by every finding grouped by outcome.
func Report(entries []entry, result *annotate.Result) string {
	var b strings.Builder

	b.WriteString("# Review Report\n\n")
	fmt.Fprintf(&b, "Annotated document: `%s`\n\n", result.OutputPath)
	fmt.Fprintf(&b, "%s\n\n", result.Summary.Message)

	sections := []struct {
		title   string
		outcome locate.Outcome
	}{
		{"Highlighted Findings", locate.Matched},
		{"Not Located", locate.NotFound},
		{"Skipped", locate.Skipped},
	}

	for _, sec := range sections {
		var rows []entry
		for _, e := range entries {
			if e.outcome == sec.outcome {
				rows = append(rows, e)
			}
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %s\n\n", sec.title)
		for _, e := range rows {
			writeFinding(&b, e)
		}
	}

	return b.String()
}

func writeFinding(b *strings.Builder, e entry) {
	label := e.issue.Type
	if label == "" {
		label = "general"
	}
	fmt.Fprintf(b, "- **[%s] %s** — %s\n", strings.ToUpper(e.issue.Bucket.String()), label, e.issue.Issue)

	if quote, ok := e.issue.LocationText(); ok {
		fmt.Fprintf(b, "  - Quote: %q\n", quote)
	}
	if e.issue.Suggestion != "" {
		fmt.Fprintf(b, "  - Suggestion: %s\n", e.issue.Suggestion)
	}
	if e.outcome == locate.Matched {
		fmt.Fprintf(b, "  - Paragraph %d (%s match)\n", e.match.ParaIndex, e.match.Strategy)
	}
}

// reportPath derives the report filename from the annotated output.
func reportPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + "_report.md"
}
