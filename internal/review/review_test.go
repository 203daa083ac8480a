package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/docx/docxtest"
	"github.com/penzero00/Panel-Zero/internal/model"
)

func findType(issues []model.Issue, typ string) []model.Issue {
	var out []model.Issue
	for _, i := range issues {
		if i.Type == typ {
			out = append(out, i)
		}
	}
	return out
}

func TestStatisticsPassMarginalPValue(t *testing.T) {
	text := "The results show p=0.06 which is not significant.\nA solid effect had p=0.001 here."

	issues := StatisticsPass(text)

	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(issues), issues)
	}
	if issues[0].Location.Text != "p=0.06" {
		t.Errorf("location = %q, want p=0.06", issues[0].Location.Text)
	}
	if model.ParseSeverity(issues[0].Severity) != model.SeverityMajor {
		t.Error("marginal p-value should be major")
	}
}

func TestStatisticsPassClaims(t *testing.T) {
	text := "This study proves the hypothesis beyond doubt. " +
		"The correlation demonstrates that screen time causes poor sleep."

	issues := StatisticsPass(text)

	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(issues), issues)
	}
	for _, i := range issues {
		if !strings.Contains(text, i.Location.Text) {
			t.Errorf("location %q is not a verbatim quote", i.Location.Text)
		}
	}
}

func TestGrammarPassDoubledWord(t *testing.T) {
	issues := findType(GrammarPass("We analyzed the the data carefully."), "grammar")

	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(issues), issues)
	}
	if issues[0].Location.Text != "the the" {
		t.Errorf("location = %q, want \"the the\"", issues[0].Location.Text)
	}
}

func TestGrammarPassDoubledWordNotAcrossLines(t *testing.T) {
	// A paragraph ending with a word the next paragraph starts with is not
	// a doubled word.
	if issues := GrammarPass("results were clear\nclear skies ahead"); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestGrammarPassModalOf(t *testing.T) {
	issues := GrammarPass("The sample could of been larger.")

	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(issues), issues)
	}
	if issues[0].Suggestion != "could have" {
		t.Errorf("suggestion = %q, want \"could have\"", issues[0].Suggestion)
	}
}

func TestGrammarPassDoubleSpaceQuoteStaysOnLine(t *testing.T) {
	text := "first line here\nbroken  spacing sentence\nlast line"

	issues := GrammarPass(text)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(issues), issues)
	}
	quote := issues[0].Location.Text
	if strings.Contains(quote, "\n") {
		t.Errorf("quote %q crosses a line break", quote)
	}
	if !strings.Contains("broken  spacing sentence", quote) {
		t.Errorf("quote %q not within the offending paragraph", quote)
	}
}

func TestFormattingPass(t *testing.T) {
	text := `The TODO finish this section. She said "results were mixed" loudly.`

	issues := FormattingPass(text)

	if len(findType(issues, "formatting")) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(issues), issues)
	}
	for _, i := range issues {
		if !strings.Contains(text, i.Location.Text) {
			t.Errorf("location %q is not a verbatim quote", i.Location.Text)
		}
	}
}

func TestPanelAggregatesAndNormalizes(t *testing.T) {
	text := "This study proves everything. We saw the the results."

	issues := NewPanel(nil, nil).Review(context.Background(), text)

	if len(issues) < 2 {
		t.Fatalf("expected issues from multiple passes, got %v", issues)
	}
	for _, i := range issues {
		if i.Severity != "" && model.ParseSeverity(i.Severity) != i.Bucket {
			t.Errorf("issue %q not normalized", i.Issue)
		}
	}
}

func TestPanelSkip(t *testing.T) {
	text := "We saw the the results."

	issues := NewPanel([]string{"grammar"}, nil).Review(context.Background(), text)
	if len(issues) != 0 {
		t.Errorf("expected grammar pass to be skipped, got %v", issues)
	}
}

type failingReviewer struct{}

func (failingReviewer) Name() string { return "flaky" }
func (failingReviewer) Review(context.Context, string) ([]model.Issue, error) {
	return nil, errors.New("upstream unavailable")
}

func TestPanelToleratesReviewerFailure(t *testing.T) {
	p := NewPanel([]string{"statistics", "grammar", "formatting"}, nil)
	p.Add(failingReviewer{})

	issues := p.Review(context.Background(), "any text")
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestReviewDocumentChunked(t *testing.T) {
	filler := strings.Repeat("lengthy filler sentence with many words inside it. ", 5)
	data := docxtest.Bytes(t,
		docxtest.Text(filler),
		docxtest.Text("The results show p=0.06 which is not significant."),
		docxtest.Text(filler),
	)
	doc, err := docx.OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	panel := NewPanel([]string{"grammar", "formatting"}, nil)

	// Budget far below the document's estimate forces per-chunk review.
	chunked := panel.ReviewDocument(context.Background(), doc, 20)
	whole := panel.ReviewDocument(context.Background(), doc, 1_000_000)

	if len(chunked) != 1 || len(whole) != 1 {
		t.Fatalf("expected the marginal p-value either way, got %d and %d", len(chunked), len(whole))
	}
	if chunked[0].Location.Text != whole[0].Location.Text {
		t.Error("chunking changed the reported quote")
	}
}
