// Package annotate applies severity-coded highlights to located runs and
// orchestrates the extract → locate → mutate → save pass over one document.
package annotate

import (
	"log/slog"

	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/locate"
	"github.com/penzero00/Panel-Zero/internal/model"
)

// Highlight colors. Major-class severities get the strong marker, everything
// else the weak one.
const (
	ColorStrong = "red"
	ColorWeak   = "yellow"
)

// DefaultMaxIssues is the default per-pass issue cap. High enough to be
// effectively unbounded.
const DefaultMaxIssues = 10000

// ColorFor maps a severity bucket to its highlight color. Total: every
// severity selects exactly one of the two markers.
func ColorFor(s model.Severity) string {
	if s == model.SeverityMajor {
		return ColorStrong
	}
	return ColorWeak
}

// Options configures an Annotator.
type Options struct {
	MaxIssues  int              // 0 means DefaultMaxIssues
	Threshold  float64          // 0 means locate.DefaultThreshold
	Similarity locate.Similarity // nil means the default similarity
	Logger     *slog.Logger     // nil means slog.Default
}

// Annotator locates issues in a document and marks the matched runs.
type Annotator struct {
	loc       *locate.Locator
	log       *slog.Logger
	maxIssues int
}

// New returns an Annotator.
func New(opts Options) *Annotator {
	if opts.MaxIssues <= 0 {
		opts.MaxIssues = DefaultMaxIssues
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var loc *locate.Locator
	if opts.Similarity != nil || opts.Threshold != 0 {
		sim := opts.Similarity
		if sim == nil {
			sim = locate.DefaultSimilarity()
		}
		loc = locate.NewWithSimilarity(sim, opts.Threshold)
	} else {
		loc = locate.New()
	}

	return &Annotator{loc: loc, log: opts.Logger, maxIssues: opts.MaxIssues}
}

// Apply runs the locate+mutate loop for every issue against doc and returns
// the pass summary. Issues beyond the cap are counted in TotalIssues but not
// processed. Individual misses are counted, never raised: the summary is
// always produced.
func (a *Annotator) Apply(doc *docx.Document, issues []model.Issue) model.Summary {
	toProcess := issues
	if len(toProcess) > a.maxIssues {
		a.log.Info("issue cap applied", "cap", a.maxIssues, "total", len(issues))
		toProcess = toProcess[:a.maxIssues]
	}

	var summary model.Summary
	paras := doc.Paragraphs()

	for i := range toProcess {
		issue := &toProcess[i]
		match, outcome := a.loc.Locate(issue, paras)

		switch outcome {
		case locate.Matched:
			match.Run.SetHighlight(ColorFor(issue.Bucket))
			summary.Record(model.OutcomeApplied)
			a.log.Debug("highlight applied",
				"paragraph", match.ParaIndex, "run", match.RunIndex,
				"strategy", match.Strategy, "severity", issue.Bucket.String())
		case locate.NotFound:
			summary.Record(model.OutcomeNotFound)
			a.log.Debug("issue text not found", "type", issue.Type)
		case locate.Skipped:
			summary.Record(model.OutcomeSkipped)
		}
	}

	summary.TotalProcessed = len(toProcess)
	summary.TotalIssues = len(issues)
	summary.Finalize()
	return summary
}
