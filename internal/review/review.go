// Package review implements the built-in reviewer panel: rule-based passes
// over extracted document text that produce issues for the annotation
// engine. Every reviewer is opaque to the engine — text in, issues out — so
// external reviewers plug in at the same interface.
package review

import (
	"context"
	"log/slog"

	"github.com/penzero00/Panel-Zero/internal/chunk"
	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/model"
)

// Reviewer analyzes a span of document text and reports issues. Issue
// location text must quote the document verbatim wherever possible; the
// locator degrades gracefully when it does not.
type Reviewer interface {
	Name() string
	Review(ctx context.Context, text string) ([]model.Issue, error)
}

// Pass is a single built-in analysis function over text.
type Pass func(text string) []model.Issue

// passOrder fixes the execution order of the built-in passes.
var passOrder = []string{"statistics", "grammar", "formatting"}

// PassNames maps pass names to their functions (for --skip flags).
var PassNames = map[string]Pass{
	"statistics": StatisticsPass,
	"grammar":    GrammarPass,
	"formatting": FormattingPass,
}

// passReviewer adapts a Pass to the Reviewer interface.
type passReviewer struct {
	name string
	fn   Pass
}

func (p passReviewer) Name() string { return p.name }

func (p passReviewer) Review(_ context.Context, text string) ([]model.Issue, error) {
	return p.fn(text), nil
}

// Panel runs an ordered list of reviewers and aggregates their issues.
type Panel struct {
	reviewers []Reviewer
	log       *slog.Logger
}

// NewPanel builds a panel of the built-in passes, minus the skipped ones.
func NewPanel(skip []string, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}
	skipSet := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}

	p := &Panel{log: logger}
	for _, name := range passOrder {
		if skipSet[name] {
			continue
		}
		p.reviewers = append(p.reviewers, passReviewer{name: name, fn: PassNames[name]})
	}
	return p
}

// Add appends an external reviewer to the panel.
func (p *Panel) Add(r Reviewer) {
	p.reviewers = append(p.reviewers, r)
}

// Review runs every reviewer over the text. A failing reviewer is logged
// and contributes nothing; the panel never fails as a whole.
func (p *Panel) Review(ctx context.Context, text string) []model.Issue {
	var issues []model.Issue
	for _, r := range p.reviewers {
		if ctx.Err() != nil {
			return issues
		}
		found, err := r.Review(ctx, text)
		if err != nil {
			p.log.Warn("reviewer failed", "reviewer", r.Name(), "error", err)
			continue
		}
		for i := range found {
			found[i].Normalize()
		}
		issues = append(issues, found...)
	}
	return issues
}

// ReviewDocument reviews a whole document, chunking it when its estimated
// token cost exceeds budget. All issues are collected before the locator
// runs; chunk boundaries are not retained.
func (p *Panel) ReviewDocument(ctx context.Context, doc *docx.Document, budget int) []model.Issue {
	if budget < 1 {
		budget = chunk.DefaultBudget
	}

	full := doc.FullText()
	if chunk.Estimate(full) <= budget {
		return p.Review(ctx, full)
	}

	texts := make([]string, 0, len(doc.Paragraphs()))
	for _, para := range doc.Paragraphs() {
		texts = append(texts, para.Text())
	}

	var issues []model.Issue
	for c := range chunk.New(budget).Split(texts) {
		issues = append(issues, p.Review(ctx, c.Text)...)
	}
	return issues
}
