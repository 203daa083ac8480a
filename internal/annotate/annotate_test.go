package annotate_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penzero00/Panel-Zero/internal/annotate"
	"github.com/penzero00/Panel-Zero/internal/docx"
	"github.com/penzero00/Panel-Zero/internal/docx/docxtest"
	"github.com/penzero00/Panel-Zero/internal/model"
)

func issueWith(severity, locText string) model.Issue {
	i := model.Issue{Type: "test", Severity: severity}
	if locText != "" {
		i.Location = &model.Location{Text: locText}
	}
	i.Normalize()
	return i
}

func runPipeline(t *testing.T, original string, issues []model.Issue) *annotate.Result {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.docx")
	res, err := annotate.NewPipeline(annotate.Options{}).Run(original, out, issues)
	require.NoError(t, err)
	return res
}

func highlights(t *testing.T, path string) map[string]string {
	t.Helper()
	doc, err := docx.Open(path)
	require.NoError(t, err)
	m := make(map[string]string)
	for _, p := range doc.Paragraphs() {
		for ri, r := range p.Runs {
			if hl := r.Highlight(); hl != "" {
				m[fmt.Sprintf("%d/%d", p.Index, ri)] = hl
			}
		}
	}
	return m
}

func TestExactMatchAppliesStrongMarker(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("The results show p=0.06 which is not significant."))

	res := runPipeline(t, original, []model.Issue{issueWith("major", "p=0.06")})

	assert.True(t, res.Summary.Success)
	assert.Equal(t, 1, res.Summary.HighlightsApplied)
	assert.Equal(t, 0, res.Summary.NotFound)
	assert.Equal(t, 0, res.Summary.Skipped)
	assert.Equal(t, map[string]string{"0/0": "red"}, highlights(t, res.OutputPath))
}

func TestCaseInsensitiveMatchSameCounts(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("The results show p=0.06 which is not significant."))

	res := runPipeline(t, original, []model.Issue{issueWith("major", "P=0.06")})

	assert.Equal(t, 1, res.Summary.HighlightsApplied)
	assert.Equal(t, 0, res.Summary.NotFound)
	assert.Equal(t, 0, res.Summary.Skipped)
}

func TestEmptyLocationIsSkipped(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("Some paragraph."))

	res := runPipeline(t, original, []model.Issue{issueWith("major", "")})

	assert.Equal(t, 1, res.Summary.Skipped)
	assert.Equal(t, 0, res.Summary.HighlightsApplied)
	assert.Empty(t, highlights(t, res.OutputPath))
}

func TestUnlocatableIsNotFound(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("The quick brown fox jumps over the lazy dog."))

	res := runPipeline(t, original, []model.Issue{
		issueWith("minor", "zzz qqq www eee rrr ttt yyy uuu iii ooo"),
	})

	assert.Equal(t, 1, res.Summary.NotFound)
	assert.Equal(t, 0, res.Summary.HighlightsApplied)
	assert.True(t, res.Summary.Success, "misses are counted, not failed")
}

func TestTwoSeveritiesTwoMarkers(t *testing.T) {
	original := docxtest.File(t,
		docxtest.Text("First finding about sample size lives here."),
		docxtest.Text("Second finding about citations lives here."),
		docxtest.Text("An untouched third paragraph."),
	)

	res := runPipeline(t, original, []model.Issue{
		issueWith("high", "sample size"),
		issueWith("Low", "citations"),
	})

	assert.Equal(t, 2, res.Summary.HighlightsApplied)
	assert.Equal(t, map[string]string{
		"0/0": "red",
		"1/0": "yellow",
	}, highlights(t, res.OutputPath))
}

func TestTableOnlyTextReportsNotFound(t *testing.T) {
	original := docxtest.File(t,
		docxtest.Text("Prose that does not contain the cell value."),
		docxtest.Table{{"unique-cell-value-9000"}},
	)

	res := runPipeline(t, original, []model.Issue{issueWith("major", "unique-cell-value-9000")})

	assert.Equal(t, 1, res.Summary.NotFound)
}

func TestSeverityMappingTotality(t *testing.T) {
	for _, raw := range []string{"major", "High", "CRITICAL", "minor", "Medium", "low", ""} {
		color := annotate.ColorFor(model.ParseSeverity(raw))
		if raw == "major" || raw == "High" || raw == "CRITICAL" {
			assert.Equal(t, annotate.ColorStrong, color, "severity %q", raw)
		} else {
			assert.Equal(t, annotate.ColorWeak, color, "severity %q", raw)
		}
	}
}

func TestOriginalIsNeverMutated(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("The results show p=0.06 which is not significant."))

	before, err := os.ReadFile(original)
	require.NoError(t, err)
	beforeDoc, err := docx.OpenBytes(before)
	require.NoError(t, err)
	beforeTexts := beforeDoc.ParagraphTexts()

	runPipeline(t, original, []model.Issue{issueWith("major", "p=0.06")})

	after, err := os.ReadFile(original)
	require.NoError(t, err)
	assert.Equal(t, before, after, "original bytes changed")

	afterDoc, err := docx.OpenBytes(after)
	require.NoError(t, err)
	assert.Equal(t, beforeTexts, afterDoc.ParagraphTexts())
}

func TestWorkingCopyIsRemoved(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("body text"))

	runPipeline(t, original, nil)

	_, err := os.Stat(docx.WorkingCopyPath(original))
	assert.True(t, os.IsNotExist(err), "working copy should be deleted after the pass")
}

func TestZeroIssuesProducesCleanCopy(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("untouched content"))

	res := runPipeline(t, original, nil)

	assert.True(t, res.Summary.Success)
	assert.Equal(t, 0, res.Summary.TotalIssues)
	assert.Empty(t, highlights(t, res.OutputPath))

	doc, err := docx.Open(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "untouched content", doc.FullText())
}

func TestIssueCap(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("alpha beta gamma delta"))

	issues := []model.Issue{
		issueWith("minor", "alpha"),
		issueWith("minor", "beta"),
		issueWith("minor", "gamma"),
	}
	out := filepath.Join(t.TempDir(), "capped.docx")
	res, err := annotate.NewPipeline(annotate.Options{MaxIssues: 2}).Run(original, out, issues)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Summary.TotalProcessed)
	assert.Equal(t, 3, res.Summary.TotalIssues)
	assert.Equal(t, 2, res.Summary.HighlightsApplied)
}

func TestMalformedOriginalIsFatal(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.docx")
	require.NoError(t, os.WriteFile(bad, []byte("not a container"), 0644))

	_, err := annotate.NewPipeline(annotate.Options{}).Run(bad, filepath.Join(t.TempDir(), "out.docx"), nil)
	require.ErrorIs(t, err, docx.ErrMalformed)

	// The working copy is cleaned up even on failure.
	_, statErr := os.Stat(docx.WorkingCopyPath(bad))
	assert.True(t, os.IsNotExist(statErr))
}

func TestOutputMustDifferFromOriginal(t *testing.T) {
	original := docxtest.File(t, docxtest.Text("body"))

	_, err := annotate.NewPipeline(annotate.Options{}).Run(original, original, nil)
	require.ErrorIs(t, err, docx.ErrPersistence)
}

func TestResultCarriesExtraction(t *testing.T) {
	original := docxtest.File(t,
		docxtest.Text("first paragraph"),
		docxtest.Text("second paragraph"),
	)

	res := runPipeline(t, original, nil)

	assert.Equal(t, map[int]string{0: "first paragraph", 1: "second paragraph"}, res.ParagraphTexts)
	assert.Equal(t, 4, res.WordCount)
	assert.Equal(t, 1, res.PageEstimate)
}
