package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/penzero00/Panel-Zero/internal/annotate"
	"github.com/penzero00/Panel-Zero/internal/config"
	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/model"
	"github.com/penzero00/Panel-Zero/internal/review"
	"github.com/penzero00/Panel-Zero/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review <document.docx>",
	Short: "Run the reviewer panel and highlight findings in the document",
	Long: `Run the built-in reviewer panel over a document, highlight every
located finding, and write the annotated copy next to the original.

Examples:
  panelzero review thesis.docx                 # panel review, text summary
  panelzero review thesis.docx --tui           # browse findings interactively
  panelzero review thesis.docx -i issues.json  # annotate external findings`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("issues", "i", "", "JSON file of reviewer issues (bypasses the panel)")
	reviewCmd.Flags().StringP("out", "o", "", "output path (default <name>_REVIEWED.docx)")
	reviewCmd.Flags().StringSlice("skip", nil, "reviewer passes to skip")
	reviewCmd.Flags().Bool("tui", false, "browse the findings in a terminal UI")
	reviewCmd.Flags().StringP("format", "f", "text", "summary format: text, json")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	original := args[0]
	doc, err := docx.Open(original)
	if err != nil {
		return err
	}

	if pages := doc.PageEstimate(); pages > cfg.MaxPages {
		return fmt.Errorf("document is ~%d pages, over the %d page ceiling", pages, cfg.MaxPages)
	}

	issues, source, err := gatherIssues(cmd, cfg, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Collected %d issue(s) from %s\n", len(issues), source)

	out, _ := cmd.Flags().GetString("out")
	pipeline := annotate.NewPipeline(annotate.Options{
		MaxIssues: cfg.MaxIssues,
		Threshold: cfg.FuzzyThreshold,
	})
	result, err := pipeline.Run(original, out, issues)
	if err != nil {
		return err
	}

	if useTUI, _ := cmd.Flags().GetBool("tui"); useTUI {
		return tui.Run(doc, issues, result)
	}

	format, _ := cmd.Flags().GetString("format")
	return printResult(result, format)
}

func gatherIssues(cmd *cobra.Command, cfg config.Config, doc *docx.Document) ([]model.Issue, string, error) {
	path, _ := cmd.Flags().GetString("issues")
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("opening issues file: %w", err)
		}
		defer f.Close()
		issues, err := model.DecodeIssues(f)
		if err != nil {
			return nil, "", err
		}
		return issues, path, nil
	}

	skip, _ := cmd.Flags().GetStringSlice("skip")
	skip = append(skip, cfg.Skip...)
	panel := review.NewPanel(skip, nil)
	issues := panel.ReviewDocument(cmd.Context(), doc, cfg.ChunkTokens)
	return issues, "built-in panel", nil
}

func printResult(result *annotate.Result, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	s := result.Summary
	fmt.Printf("%s\n", s.Message)
	fmt.Printf("  applied:    %d\n", s.HighlightsApplied)
	fmt.Printf("  not found:  %d\n", s.NotFound)
	fmt.Printf("  skipped:    %d\n", s.Skipped)
	fmt.Printf("  processed:  %d of %d\n", s.TotalProcessed, s.TotalIssues)
	fmt.Printf("Annotated document: %s\n", result.OutputPath)
	return nil
}
