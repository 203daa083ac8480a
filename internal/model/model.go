// Package model defines the core data types shared across panelzero.
package model

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Severity buckets an issue's raw severity string into one of two marker
// classes. Reviewers emit free-form severity labels; everything that is not
// recognizably major lands in the minor bucket so annotation never fails on
// an unknown label.
type Severity int

const (
	SeverityMinor Severity = iota
	SeverityMajor
)

func (s Severity) String() string {
	if s == SeverityMajor {
		return "major"
	}
	return "minor"
}

// ParseSeverity maps a raw severity label to a bucket. Comparison is done on
// the lower-cased value; major, high and critical are the major bucket.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(raw) {
	case "major", "high", "critical":
		return SeverityMajor
	default:
		return SeverityMinor
	}
}

// Location is the optional hint telling the locator where an issue lives.
// Text is ideally an exact quote from the document but may be truncated,
// paraphrased, or missing entirely.
type Location struct {
	Text string `json:"text"`
}

// Issue is a single finding produced by a reviewer. Issues are immutable
// once received; the locator only decides where (if anywhere) to mark them.
type Issue struct {
	Type       string    `json:"type"`
	Severity   string    `json:"severity"`
	Location   *Location `json:"location,omitempty"`
	Text       string    `json:"text,omitempty"`
	Issue      string    `json:"issue"`
	Suggestion string    `json:"suggestion,omitempty"`

	// Bucket is the normalized severity, computed once at ingestion.
	Bucket Severity `json:"-"`
}

// Normalize computes the severity bucket. Call once after decoding.
func (i *Issue) Normalize() {
	i.Bucket = ParseSeverity(i.Severity)
}

// LocationText returns the best available text hint for locating this issue:
// the location field, then the bare text field, then the leading 80
// characters of the issue description. The second return is false when no
// usable hint exists (missing, or under 2 characters after trimming).
func (i *Issue) LocationText() (string, bool) {
	var text string
	if i.Location != nil && i.Location.Text != "" {
		text = i.Location.Text
	} else if i.Text != "" {
		text = i.Text
	} else if i.Issue != "" {
		text = i.Issue
		if runes := []rune(text); len(runes) > 80 {
			text = string(runes[:80])
		}
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < 2 {
		return "", false
	}
	return text, true
}

// DecodeIssues reads a JSON array of issues and normalizes each one.
func DecodeIssues(r io.Reader) ([]Issue, error) {
	var issues []Issue
	dec := json.NewDecoder(r)
	if err := dec.Decode(&issues); err != nil {
		return nil, fmt.Errorf("decoding issues: %w", err)
	}
	for idx := range issues {
		issues[idx].Normalize()
	}
	return issues, nil
}

// Outcome records what happened to one issue during an annotation pass.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeNotFound
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Summary aggregates the outcome of one annotation pass. It is always
// produced, even when some issues could not be located; only container-level
// read/write failures abort a pass without one.
type Summary struct {
	Success           bool   `json:"success"`
	HighlightsApplied int    `json:"highlights_applied"`
	Skipped           int    `json:"skipped"`
	NotFound          int    `json:"not_found"`
	TotalProcessed    int    `json:"total_processed"`
	TotalIssues       int    `json:"total_issues"`
	Message           string `json:"message"`
}

// Record counts one outcome.
func (s *Summary) Record(o Outcome) {
	switch o {
	case OutcomeApplied:
		s.HighlightsApplied++
	case OutcomeNotFound:
		s.NotFound++
	case OutcomeSkipped:
		s.Skipped++
	}
}

// Finalize fills the derived fields after all issues are counted.
func (s *Summary) Finalize() {
	s.Success = true
	s.Message = fmt.Sprintf("Applied %d highlights (%d text not found, %d skipped)",
		s.HighlightsApplied, s.NotFound, s.Skipped)
}
