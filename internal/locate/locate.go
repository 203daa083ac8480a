// Package locate resolves free-text issue snippets to specific runs inside
// a document. Reviewer-provided snippets are unreliable — truncated,
// paraphrased, or re-cased — so location runs a fixed cascade of strategies
// from exact to fuzzy and stops at the first success. For a given document
// and issue the result is fully deterministic: within every strategy the
// first paragraph in document order wins, then the first qualifying run
// inside it.
package locate

import (
	"strings"
	"unicode/utf8"

	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/model"
)

// DefaultThreshold is the similarity ratio above which the fuzzy strategy
// accepts a paragraph.
const DefaultThreshold = 0.6

const (
	prefixLen        = 25 // characters of the snippet tried by the prefix strategy
	minPrefixSource  = 5  // snippet must be longer than this for the prefix strategy
	minKeywordSource = 10 // snippet must be longer than this for the keyword strategy
	keywordMinLen    = 3  // keywords must be longer than this
	maxKeywords      = 3
)

// Outcome is the tri-state result of locating one issue.
type Outcome int

const (
	// Matched: a run was found and can be annotated.
	Matched Outcome = iota
	// NotFound: every strategy failed. Expected and counted, never an error.
	NotFound
	// Skipped: the issue carried no usable location text; no strategy ran.
	Skipped
)

// Match points at the run selected for one issue. It is transient: consumed
// immediately by the mutator, never persisted.
type Match struct {
	ParaIndex int
	RunIndex  int
	Run       *docx.Run
	Strategy  string
}

// Locator runs the matching cascade over a document's paragraphs.
type Locator struct {
	sim       Similarity
	threshold float64
}

// New returns a Locator with the default similarity and threshold.
func New() *Locator {
	return &Locator{sim: DefaultSimilarity(), threshold: DefaultThreshold}
}

// NewWithSimilarity returns a Locator using a custom similarity and
// threshold. A threshold outside (0, 1] falls back to the default.
func NewWithSimilarity(sim Similarity, threshold float64) *Locator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Locator{sim: sim, threshold: threshold}
}

// strategy is one cascade step. ok reports whether the step matched.
type strategy struct {
	name string
	fn   func(l *Locator, text string, paras []*docx.Paragraph) (Match, bool)
}

// cascade is the fixed strategy order. Reordering it changes observable
// output, so it is append-only.
var cascade = []strategy{
	{"exact", (*Locator).exact},
	{"exact-fold", (*Locator).exactFold},
	{"prefix", (*Locator).prefix},
	{"similarity", (*Locator).similarity},
	{"keywords", (*Locator).keywords},
}

// Locate resolves one issue against the document's paragraphs. Table cells
// are not scanned; issues whose text appears only inside a table report
// NotFound.
func (l *Locator) Locate(issue *model.Issue, paras []*docx.Paragraph) (Match, Outcome) {
	text, ok := issue.LocationText()
	if !ok {
		return Match{}, Skipped
	}

	for _, s := range cascade {
		if m, ok := s.fn(l, text, paras); ok {
			m.Strategy = s.name
			return m, Matched
		}
	}
	return Match{}, NotFound
}

// exact: case-sensitive substring containment, paragraph first, then run.
// A snippet split across two runs by an inline style change matches the
// paragraph but no single run; the scan then moves on to later paragraphs
// rather than marking a partial run.
func (l *Locator) exact(text string, paras []*docx.Paragraph) (Match, bool) {
	return scan(paras, func(p string) bool { return strings.Contains(p, text) },
		func(r string) bool { return strings.Contains(r, text) })
}

// exactFold: same containment on lower-cased forms.
func (l *Locator) exactFold(text string, paras []*docx.Paragraph) (Match, bool) {
	lower := strings.ToLower(text)
	return scan(paras, func(p string) bool { return strings.Contains(strings.ToLower(p), lower) },
		func(r string) bool { return strings.Contains(strings.ToLower(r), lower) })
}

// prefix: reviewers frequently truncate or reword a quote after its opening,
// so try only the first 25 characters, case-sensitive.
func (l *Locator) prefix(text string, paras []*docx.Paragraph) (Match, bool) {
	runes := []rune(text)
	if len(runes) <= minPrefixSource {
		return Match{}, false
	}
	partial := text
	if len(runes) > prefixLen {
		partial = string(runes[:prefixLen])
	}
	partial = strings.TrimSpace(partial)
	return scan(paras, func(p string) bool { return strings.Contains(p, partial) },
		func(r string) bool { return strings.Contains(r, partial) })
}

// similarity: pick the paragraph whose full text is most similar to the
// snippet, if the ratio clears the threshold, and mark its first run. The
// match is paragraph-granularity here: marking the first run rather than the
// most similar one is a known precision limitation, preserved because
// changing it would change observable output.
func (l *Locator) similarity(text string, paras []*docx.Paragraph) (Match, bool) {
	lower := strings.ToLower(text)
	best := -1
	bestRatio := 0.0

	for i, p := range paras {
		ratio := l.sim.Ratio(lower, strings.ToLower(p.Text()))
		if ratio > l.threshold && ratio > bestRatio {
			bestRatio = ratio
			best = i
		}
	}

	if best < 0 || len(paras[best].Runs) == 0 {
		return Match{}, false
	}
	return Match{ParaIndex: paras[best].Index, RunIndex: 0, Run: paras[best].Runs[0]}, true
}

// keywords: extract up to three meaningful words from the snippet, find a
// paragraph containing them as a phrase, and mark the first run containing
// any one of them.
func (l *Locator) keywords(text string, paras []*docx.Paragraph) (Match, bool) {
	if utf8.RuneCountInString(text) <= minKeywordSource {
		return Match{}, false
	}

	var words []string
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > keywordMinLen {
			words = append(words, w)
			if len(words) == maxKeywords {
				break
			}
		}
	}
	if len(words) == 0 {
		return Match{}, false
	}

	phrase := strings.ToLower(strings.Join(words, " "))
	for _, p := range paras {
		if !strings.Contains(strings.ToLower(p.Text()), phrase) {
			continue
		}
		for ri, r := range p.Runs {
			runLower := strings.ToLower(r.Text())
			for _, w := range words {
				if strings.Contains(runLower, strings.ToLower(w)) {
					return Match{ParaIndex: p.Index, RunIndex: ri, Run: r}, true
				}
			}
		}
	}
	return Match{}, false
}

// scan walks paragraphs in document order and returns the first run
// satisfying runMatch inside a paragraph satisfying paraMatch.
func scan(paras []*docx.Paragraph, paraMatch, runMatch func(string) bool) (Match, bool) {
	for _, p := range paras {
		if !paraMatch(p.Text()) {
			continue
		}
		for ri, r := range p.Runs {
			if runMatch(r.Text()) {
				return Match{ParaIndex: p.Index, RunIndex: ri, Run: r}, true
			}
		}
	}
	return Match{}, false
}
