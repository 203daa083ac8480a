package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/penzero00/Panel-Zero/internal/docx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <document.docx>",
	Short: "Print a document's extracted structure",
	Long: `Parse a document and print its addressable structure: paragraphs
with their indexes and heading levels, tables, core metadata, and the
size estimate used for admission control.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringP("format", "f", "text", "output format: text, json")
}

type inspectJSON struct {
	Path         string         `json:"path"`
	Title        string         `json:"title,omitempty"`
	Author       string         `json:"author,omitempty"`
	Paragraphs   map[int]string `json:"paragraphs"`
	Tables       [][][]string   `json:"tables,omitempty"`
	Chapters     []string       `json:"chapters,omitempty"`
	WordCount    int            `json:"word_count"`
	PageEstimate int            `json:"page_estimate"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := docx.Open(args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		out := inspectJSON{
			Path:         args[0],
			Title:        doc.Meta().Title,
			Author:       doc.Meta().Author,
			Paragraphs:   doc.ParagraphTexts(),
			Tables:       doc.TableData(),
			WordCount:    doc.WordCount(),
			PageEstimate: doc.PageEstimate(),
		}
		for _, ch := range doc.Chapters() {
			out.Chapters = append(out.Chapters, ch.Title)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	meta := doc.Meta()
	if meta.Title != "" {
		fmt.Printf("Title:  %s\n", meta.Title)
	}
	if meta.Author != "" {
		fmt.Printf("Author: %s\n", meta.Author)
	}
	fmt.Printf("~%d page(s), %d word(s), %d paragraph(s), %d table(s)\n\n",
		doc.PageEstimate(), doc.WordCount(), len(doc.Paragraphs()), len(doc.Tables()))

	for _, p := range doc.Paragraphs() {
		marker := " "
		if lvl := p.HeadingLevel(); lvl > 0 {
			marker = fmt.Sprintf("H%d", lvl)
		}
		fmt.Printf("%4d %-2s %s\n", p.Index, marker, p.Text())
	}

	for ti, rows := range doc.TableData() {
		fmt.Printf("\nTable %d:\n", ti)
		for _, row := range rows {
			fmt.Printf("  %v\n", row)
		}
	}
	return nil
}
