package docx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Document is one parsed DOCX file. Blocks appear in body order; paragraph
// indexes are zero-based and stable for the lifetime of one analysis pass.
//
// A Document is owned by exactly one annotation pass at a time. Runs are
// mutated in place, so nothing here is safe for concurrent use.
type Document struct {
	path  string
	parts []part
	tree  *etree.Document

	blocks     []Block
	paragraphs []*Paragraph
	tables     []*Table

	meta Metadata
}

// Block is a paragraph or table in document body order.
type Block interface {
	isBlock()
}

// Paragraph is an ordered sequence of runs sharing one block of text.
// Concatenating its runs in order reproduces the visible text exactly.
type Paragraph struct {
	Index int
	Style string
	Runs  []*Run

	text string
}

func (p *Paragraph) isBlock() {}

// Text returns the paragraph's full visible text.
func (p *Paragraph) Text() string { return p.text }

// HeadingLevel returns the heading level of the paragraph's style, or 0 for
// body text. Styles follow the "HeadingN" id convention.
func (p *Paragraph) HeadingLevel() int {
	rest, ok := strings.CutPrefix(p.Style, "Heading")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// Run is the smallest style-homogeneous text span within a paragraph. Runs
// are never merged, reordered, split, or re-texted by this package; the only
// permitted mutation is the highlight attribute.
type Run struct {
	el   *etree.Element
	text string
}

// Text returns the run's text content.
func (r *Run) Text() string { return r.text }

// Highlight returns the run's current highlight color, or "" if none.
func (r *Run) Highlight() string {
	rpr := r.el.SelectElement("w:rPr")
	if rpr == nil {
		return ""
	}
	hl := rpr.SelectElement("w:highlight")
	if hl == nil {
		return ""
	}
	return hl.SelectAttrValue("w:val", "")
}

// SetHighlight sets the run's highlight color, touching no other attribute.
func (r *Run) SetHighlight(color string) {
	rpr := r.el.SelectElement("w:rPr")
	if rpr == nil {
		// Run properties must be the first child of the run.
		rpr = etree.NewElement("w:rPr")
		r.el.InsertChildAt(0, rpr)
	}
	hl := rpr.SelectElement("w:highlight")
	if hl == nil {
		hl = rpr.CreateElement("w:highlight")
	}
	hl.CreateAttr("w:val", color)
}

// XML returns the run's serialized form. Used by tests to verify that
// annotation leaves untouched runs attribute-for-attribute identical.
func (r *Run) XML() string {
	d := etree.NewDocument()
	d.SetRoot(r.el.Copy())
	s, err := d.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Table is a table block. Cell text is flattened for display and admission
// control; the issue locator does not scan it.
type Table struct {
	rows [][]string
}

func (t *Table) isBlock() {}

// Rows returns the table's cell text, row-major.
func (t *Table) Rows() [][]string { return t.rows }

// Metadata holds the document's core properties.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Created  time.Time
	Modified time.Time
}

func (d *Document) parseBody() error {
	data, ok := d.partData(documentPart)
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrMalformed, documentPart)
	}

	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrMalformed, documentPart, err)
	}

	root := tree.Root()
	if root == nil || root.Tag != "document" {
		return fmt.Errorf("%w: %s is not a wordprocessing document", ErrMalformed, documentPart)
	}
	body := root.SelectElement("w:body")
	if body == nil {
		return fmt.Errorf("%w: document has no body", ErrMalformed)
	}

	d.tree = tree
	for _, el := range body.ChildElements() {
		if el.Space != "w" {
			continue
		}
		switch el.Tag {
		case "p":
			p := parseParagraph(el, len(d.paragraphs))
			d.paragraphs = append(d.paragraphs, p)
			d.blocks = append(d.blocks, p)
		case "tbl":
			t := parseTable(el)
			d.tables = append(d.tables, t)
			d.blocks = append(d.blocks, t)
		}
	}
	return nil
}

func parseParagraph(el *etree.Element, index int) *Paragraph {
	p := &Paragraph{Index: index}

	if ppr := el.SelectElement("w:pPr"); ppr != nil {
		if style := ppr.SelectElement("w:pStyle"); style != nil {
			p.Style = style.SelectAttrValue("w:val", "")
		}
	}

	var b strings.Builder
	for _, child := range el.ChildElements() {
		if child.Space != "w" || child.Tag != "r" {
			continue
		}
		run := &Run{el: child, text: runText(child)}
		p.Runs = append(p.Runs, run)
		b.WriteString(run.text)
	}
	p.text = b.String()
	return p
}

func runText(el *etree.Element) string {
	var b strings.Builder
	for _, child := range el.ChildElements() {
		if child.Space != "w" {
			continue
		}
		switch child.Tag {
		case "t":
			b.WriteString(child.Text())
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func parseTable(el *etree.Element) *Table {
	t := &Table{}
	for _, tr := range el.SelectElements("w:tr") {
		var row []string
		for _, tc := range tr.SelectElements("w:tc") {
			var texts []string
			for _, p := range tc.SelectElements("w:p") {
				texts = append(texts, parseParagraph(p, 0).Text())
			}
			row = append(row, strings.Join(texts, "\n"))
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func (d *Document) parseCore() {
	data, ok := d.partData(corePart)
	if !ok {
		return
	}
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return
	}
	root := tree.Root()
	if root == nil {
		return
	}

	text := func(tag string) string {
		if el := root.SelectElement(tag); el != nil {
			return strings.TrimSpace(el.Text())
		}
		return ""
	}
	stamp := func(tag string) time.Time {
		ts, _ := time.Parse(time.RFC3339, text(tag))
		return ts
	}

	d.meta = Metadata{
		Title:    text("dc:title"),
		Author:   text("dc:creator"),
		Subject:  text("dc:subject"),
		Created:  stamp("dcterms:created"),
		Modified: stamp("dcterms:modified"),
	}
}

// Path returns the file path the document was opened from, if any.
func (d *Document) Path() string { return d.path }

// Blocks returns paragraphs and tables in body order.
func (d *Document) Blocks() []Block { return d.blocks }

// Paragraphs returns the document's body paragraphs in order. Paragraphs
// nested inside table cells are not included.
func (d *Document) Paragraphs() []*Paragraph { return d.paragraphs }

// Tables returns the document's tables in order.
func (d *Document) Tables() []*Table { return d.tables }

// Meta returns the document's core properties.
func (d *Document) Meta() Metadata { return d.meta }
