package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/penzero00/Panel-Zero/internal/annotate"
	"github.com/penzero00/Panel-Zero/internal/model"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <pattern>",
	Short: "Apply an external issue list to documents (non-interactive)",
	Long: `Annotate one or more documents with a prepared issue list. The
pattern may be a single path or a doublestar glob like "papers/**/*.docx".
Useful for CI and for replaying reviewer output.

Exit codes:
  0 — all located issues were highlighted
  1 — some issue text could not be located
  2 — a document could not be read or written`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringP("issues", "i", "", "JSON file of reviewer issues (required)")
	annotateCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	annotateCmd.Flags().Int("max-issues", 0, "cap on issues processed per document")
	annotateCmd.MarkFlagRequired("issues") //nolint:errcheck // flag exists
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	issuesPath, _ := cmd.Flags().GetString("issues")
	f, err := os.Open(issuesPath)
	if err != nil {
		return fmt.Errorf("opening issues file: %w", err)
	}
	issues, err := model.DecodeIssues(f)
	f.Close()
	if err != nil {
		return err
	}

	docs, err := expandPattern(args[0])
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents matched.")
		return nil
	}

	maxIssues, _ := cmd.Flags().GetInt("max-issues")
	if maxIssues <= 0 {
		maxIssues = cfg.MaxIssues
	}
	pipeline := annotate.NewPipeline(annotate.Options{
		MaxIssues: maxIssues,
		Threshold: cfg.FuzzyThreshold,
	})

	format, _ := cmd.Flags().GetString("format")
	anyMissed := false
	results := make(map[string]*annotate.Result, len(docs))

	for _, doc := range docs {
		result, err := pipeline.Run(doc, "", issues)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", doc, err)
			os.Exit(2)
		}
		results[doc] = result
		if result.Summary.NotFound > 0 {
			anyMissed = true
		}
	}

	if err := printAnnotateResults(docs, results, format); err != nil {
		return err
	}
	if anyMissed {
		os.Exit(1)
	}
	return nil
}

// expandPattern resolves a literal path or a doublestar glob.
func expandPattern(pattern string) ([]string, error) {
	if !hasGlobMeta(pattern) {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
	}
	return matches, nil
}

func hasGlobMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func printAnnotateResults(docs []string, results map[string]*annotate.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "markdown":
		fmt.Println("| Document | Applied | Not found | Skipped | Output |")
		fmt.Println("|----------|---------|-----------|---------|--------|")
		for _, doc := range docs {
			r := results[doc]
			fmt.Printf("| `%s` | %d | %d | %d | `%s` |\n",
				doc, r.Summary.HighlightsApplied, r.Summary.NotFound,
				r.Summary.Skipped, r.OutputPath)
		}
		return nil
	default:
		for _, doc := range docs {
			r := results[doc]
			fmt.Printf("%s: %s → %s\n", doc, r.Summary.Message, r.OutputPath)
		}
		return nil
	}
}
