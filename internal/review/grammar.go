package review

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/penzero00/Panel-Zero/internal/model"
)

var (
	wordPattern    = regexp.MustCompile(`[A-Za-z']+`)
	multiSpace     = regexp.MustCompile(`\S {2,}\S`)
	modalOfPattern = regexp.MustCompile(`(?i)\b(could|should|would|must) of\b`)
)

// GrammarPass flags mechanical writing errors: doubled words, runs of
// spaces, and "could of"-style modal errors.
func GrammarPass(text string) []model.Issue {
	var issues []model.Issue

	issues = append(issues, doubledWords(text)...)

	for _, m := range multiSpace.FindAllStringIndex(text, -1) {
		issues = append(issues, model.Issue{
			Type:       "grammar",
			Severity:   "minor",
			Location:   &model.Location{Text: window(text, m[0], m[1])},
			Issue:      "Multiple consecutive spaces",
			Suggestion: "Collapse to a single space",
		})
	}

	for _, m := range modalOfPattern.FindAllStringIndex(text, -1) {
		quote := text[m[0]:m[1]]
		issues = append(issues, model.Issue{
			Type:       "grammar",
			Severity:   "major",
			Location:   &model.Location{Text: quote},
			Issue:      fmt.Sprintf("%q is not standard English", quote),
			Suggestion: strings.Replace(quote, " of", " have", 1),
		})
	}

	return issues
}

// doubledWords finds immediately repeated words ("the the"). RE2 has no
// backreferences, so this walks word boundaries directly.
func doubledWords(text string) []model.Issue {
	var issues []model.Issue
	words := wordPattern.FindAllStringIndex(text, -1)

	for i := 1; i < len(words); i++ {
		prev, cur := words[i-1], words[i]
		gap := text[prev[1]:cur[0]]
		if strings.TrimLeft(gap, " ") != "" {
			continue // separated by more than spaces, e.g. a newline or punctuation
		}
		a := text[prev[0]:prev[1]]
		b := text[cur[0]:cur[1]]
		if !strings.EqualFold(a, b) {
			continue
		}
		issues = append(issues, model.Issue{
			Type:       "grammar",
			Severity:   "minor",
			Location:   &model.Location{Text: text[prev[0]:cur[1]]},
			Issue:      fmt.Sprintf("Doubled word %q", b),
			Suggestion: fmt.Sprintf("Remove the repeated %q", b),
		})
	}
	return issues
}

// window widens [start, end) to nearby word boundaries without crossing a
// line break, so the quote stays inside one paragraph.
func window(text string, start, end int) string {
	const radius = 20

	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	if nl := strings.LastIndexByte(text[lo:start], '\n'); nl >= 0 {
		lo += nl + 1
	}

	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	if nl := strings.IndexByte(text[end:hi], '\n'); nl >= 0 {
		hi = end + nl
	}

	return text[lo:hi]
}
