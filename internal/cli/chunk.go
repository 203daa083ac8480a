package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penzero00/Panel-Zero/internal/chunk"
	"github.com/penzero00/Panel-Zero/internal/docx"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk <document.docx>",
	Short: "Show how a document would be batched for size-limited reviewers",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunk,
}

func init() {
	chunkCmd.Flags().IntP("budget", "b", chunk.DefaultBudget, "token budget per chunk")
}

func runChunk(cmd *cobra.Command, args []string) error {
	doc, err := docx.Open(args[0])
	if err != nil {
		return err
	}

	budget, _ := cmd.Flags().GetInt("budget")
	texts := make([]string, 0, len(doc.Paragraphs()))
	for _, p := range doc.Paragraphs() {
		texts = append(texts, p.Text())
	}

	n := 0
	for c := range chunk.New(budget).Split(texts) {
		fmt.Printf("chunk %d: paragraphs [%d,%d), ~%d tokens, %d bytes\n",
			n, c.Start, c.End, c.TokenEstimate, len(c.Text))
		n++
	}
	if n == 0 {
		fmt.Println("Document is empty.")
	}
	return nil
}
