package annotate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/model"
)

// Result is what one annotation pass hands back to collaborators: the output
// document reference, the pass summary, and the extracted structure used by
// admission control and result display.
type Result struct {
	OutputPath     string         `json:"output_path"`
	Summary        model.Summary  `json:"summary"`
	ParagraphTexts map[int]string `json:"paragraph_texts,omitempty"`
	PageEstimate   int            `json:"page_estimate"`
	WordCount      int            `json:"word_count"`
}

// Pipeline sequences one full annotation pass. A Pipeline may be reused, but
// each Run owns its document exclusively from working copy to output; no two
// passes share a working copy.
type Pipeline struct {
	ann *Annotator
	log *slog.Logger
}

// NewPipeline returns a Pipeline built from the same options as New.
func NewPipeline(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{ann: New(opts), log: opts.Logger}
}

// OutputPath returns the default annotated output path for an original, e.g.
// thesis.docx → thesis_REVIEWED.docx.
func OutputPath(original string) string {
	ext := filepath.Ext(original)
	stem := strings.TrimSuffix(original, ext)
	return stem + "_REVIEWED" + ext
}

// Run executes one annotation pass: duplicate the original into a working
// copy, parse it, locate and highlight every issue, persist the mutated
// structure to outputPath, and discard the working copy. The original is
// never opened for writing. If outputPath is empty, OutputPath(original) is
// used.
//
// A zero-length issue list is valid and produces an unmodified copy with a
// successful summary.
func (p *Pipeline) Run(original, outputPath string, issues []model.Issue) (*Result, error) {
	if outputPath == "" {
		outputPath = OutputPath(original)
	}
	if outputPath == original {
		return nil, fmt.Errorf("%w: output path must differ from the original", docx.ErrPersistence)
	}

	wc, err := docx.CreateWorkingCopy(original)
	if err != nil {
		return nil, err
	}
	p.log.Debug("working copy created", "path", wc)
	defer func() {
		if rmErr := os.Remove(wc); rmErr != nil {
			p.log.Warn("removing working copy", "path", wc, "error", rmErr)
		}
	}()

	doc, err := docx.Open(wc)
	if err != nil {
		return nil, err
	}

	summary := p.ann.Apply(doc, issues)

	if err := doc.Save(outputPath); err != nil {
		return nil, err
	}
	p.log.Info("annotated document saved",
		"path", outputPath, "applied", summary.HighlightsApplied,
		"not_found", summary.NotFound, "skipped", summary.Skipped)

	return &Result{
		OutputPath:     outputPath,
		Summary:        summary,
		ParagraphTexts: doc.ParagraphTexts(),
		PageEstimate:   doc.PageEstimate(),
		WordCount:      doc.WordCount(),
	}, nil
}
