package review

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/penzero00/Panel-Zero/internal/model"
)

var (
	pValuePattern      = regexp.MustCompile(`[pP]\s*[=<>]\s*(0?\.\d+)`)
	proofClaimPattern  = regexp.MustCompile(`(?i)\bthis (study|research|thesis|experiment) (proves|proved|definitively shows)\b[^.\n]*`)
	causalClaimPattern = regexp.MustCompile(`(?i)\bcorrelat\w+ (shows|proves|demonstrates|confirms) that\b[^.\n]*`)
)

// StatisticsPass flags statistical red flags: marginal p-values reported
// near the conventional threshold, and overclaimed conclusions.
func StatisticsPass(text string) []model.Issue {
	var issues []model.Issue

	for _, m := range pValuePattern.FindAllStringSubmatchIndex(text, -1) {
		quote := text[m[0]:m[1]]
		value, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil {
			continue
		}
		if value > 0.05 && value <= 0.10 {
			issues = append(issues, model.Issue{
				Type:       "statistics",
				Severity:   "major",
				Location:   &model.Location{Text: quote},
				Issue:      fmt.Sprintf("Marginal p-value (%s) reported near the significance threshold", quote),
				Suggestion: "Report the result as non-significant or justify the chosen alpha level",
			})
		}
	}

	for _, m := range proofClaimPattern.FindAllStringIndex(text, -1) {
		issues = append(issues, model.Issue{
			Type:       "statistics",
			Severity:   "major",
			Location:   &model.Location{Text: text[m[0]:m[1]]},
			Issue:      "Empirical work is described as proof",
			Suggestion: "Use 'suggests' or 'provides evidence for' instead of 'proves'",
		})
	}

	for _, m := range causalClaimPattern.FindAllStringIndex(text, -1) {
		issues = append(issues, model.Issue{
			Type:       "statistics",
			Severity:   "major",
			Location:   &model.Location{Text: text[m[0]:m[1]]},
			Issue:      "Correlational result stated as a causal claim",
			Suggestion: "Rephrase to describe association, not causation",
		})
	}

	return issues
}
