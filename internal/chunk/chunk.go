// Package chunk splits extracted paragraph text into token-budgeted segments
// for size-limited downstream reviewers. Chunk boundaries respect paragraph
// boundaries and carry no semantic meaning.
package chunk

import (
	"iter"
	"strings"
)

// TokensPerWord is the fixed language-expansion factor used for the token
// estimate: one word costs roughly 1.3 tokens.
const TokensPerWord = 1.3

// DefaultBudget is the default per-chunk token budget.
const DefaultBudget = 4000

// Chunk is one segment of consecutive paragraphs.
type Chunk struct {
	Text          string
	TokenEstimate int
	Start         int // index of the first paragraph in the chunk
	End           int // index one past the last paragraph
}

// Estimate returns the token cost estimate for a piece of text.
func Estimate(text string) int {
	return int(float64(len(strings.Fields(text))) * TokensPerWord)
}

// Chunker batches paragraphs under a token budget.
type Chunker struct {
	budget int
}

// New returns a Chunker with the given per-chunk token budget. Budgets below
// one fall back to DefaultBudget.
func New(budget int) *Chunker {
	if budget < 1 {
		budget = DefaultBudget
	}
	return &Chunker{budget: budget}
}

// Budget returns the chunker's token budget.
func (c *Chunker) Budget() int { return c.budget }

// Split returns a lazy, restartable sequence of chunks over the paragraphs.
// A paragraph is never split across chunks; a chunk is emitted once adding
// the next paragraph would exceed the budget, so a single oversized
// paragraph still forms a chunk of its own. The last chunk may be
// under-full.
func (c *Chunker) Split(paragraphs []string) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		var b strings.Builder
		tokens := 0
		start := 0

		for i, text := range paragraphs {
			cost := Estimate(text)
			if tokens+cost > c.budget && b.Len() > 0 {
				if !yield(Chunk{Text: b.String(), TokenEstimate: tokens, Start: start, End: i}) {
					return
				}
				b.Reset()
				tokens = 0
				start = i
			}
			b.WriteString(text)
			b.WriteByte('\n')
			tokens += cost
		}

		if b.Len() > 0 {
			yield(Chunk{Text: b.String(), TokenEstimate: tokens, Start: start, End: len(paragraphs)})
		}
	}
}
