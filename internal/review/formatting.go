package review

import (
	"regexp"

	"github.com/penzero00/Panel-Zero/internal/model"
)

var (
	placeholderPattern = regexp.MustCompile(`(?i)\b(TODO|TBD|FIXME|lorem ipsum)\b[^.\n]*`)
	straightQuotes     = regexp.MustCompile(`"[^"\n]{2,80}"`)
	shoutingPattern    = regexp.MustCompile(`\b[A-Z]{6,}\b`)
)

// FormattingPass flags presentation problems: leftover placeholders,
// straight quotation marks, and all-caps emphasis.
func FormattingPass(text string) []model.Issue {
	var issues []model.Issue

	for _, m := range placeholderPattern.FindAllStringIndex(text, -1) {
		issues = append(issues, model.Issue{
			Type:       "formatting",
			Severity:   "major",
			Location:   &model.Location{Text: text[m[0]:m[1]]},
			Issue:      "Unresolved placeholder left in the manuscript",
			Suggestion: "Complete or remove the placeholder before submission",
		})
	}

	for _, m := range straightQuotes.FindAllStringIndex(text, -1) {
		issues = append(issues, model.Issue{
			Type:       "formatting",
			Severity:   "minor",
			Location:   &model.Location{Text: text[m[0]:m[1]]},
			Issue:      "Straight quotation marks",
			Suggestion: "Use typographic (curly) quotation marks",
		})
	}

	for _, m := range shoutingPattern.FindAllStringIndex(text, -1) {
		issues = append(issues, model.Issue{
			Type:       "formatting",
			Severity:   "minor",
			Location:   &model.Location{Text: window(text, m[0], m[1])},
			Issue:      "All-caps emphasis",
			Suggestion: "Use italics for emphasis instead of capital letters",
		})
	}

	return issues
}
