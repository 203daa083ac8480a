package docx

import "strings"

// wordsPerPage is the coarse density used for the page estimate. It is an
// admission-control signal, not a layout computation.
const wordsPerPage = 300

// ParagraphTexts returns the addressable paragraph_index → text map. Calling
// it twice on an unmodified document yields identical maps.
func (d *Document) ParagraphTexts() map[int]string {
	m := make(map[int]string, len(d.paragraphs))
	for _, p := range d.paragraphs {
		m[p.Index] = p.Text()
	}
	return m
}

// FullText returns all paragraph text joined with newlines.
func (d *Document) FullText() string {
	texts := make([]string, len(d.paragraphs))
	for i, p := range d.paragraphs {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// TableData returns all tables as row-major cell text.
func (d *Document) TableData() [][][]string {
	out := make([][][]string, len(d.tables))
	for i, t := range d.tables {
		out[i] = t.Rows()
	}
	return out
}

// WordCount returns the number of whitespace-separated words in the document
// body, table cells included.
func (d *Document) WordCount() int {
	n := len(strings.Fields(d.FullText()))
	for _, t := range d.tables {
		for _, row := range t.Rows() {
			for _, cell := range row {
				n += len(strings.Fields(cell))
			}
		}
	}
	return n
}

// PageEstimate returns a coarse page count derived from the word count,
// used by upstream admission control.
func (d *Document) PageEstimate() int {
	words := d.WordCount()
	if words == 0 {
		return 0
	}
	return (words + wordsPerPage - 1) / wordsPerPage
}

// Chapter groups the paragraphs under one top-level heading.
type Chapter struct {
	Title      string
	Paragraphs []string
}

// Chapters splits the paragraph sequence at Heading 1 boundaries. Paragraphs
// before the first heading belong to no chapter and are not returned.
func (d *Document) Chapters() []Chapter {
	var chapters []Chapter
	var current *Chapter

	for _, p := range d.paragraphs {
		if p.HeadingLevel() == 1 {
			if current != nil {
				chapters = append(chapters, *current)
			}
			current = &Chapter{Title: p.Text()}
			continue
		}
		if current != nil {
			current.Paragraphs = append(current.Paragraphs, p.Text())
		}
	}
	if current != nil {
		chapters = append(chapters, *current)
	}
	return chapters
}
