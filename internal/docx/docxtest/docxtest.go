// Package docxtest builds minimal, valid DOCX containers for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Run is one styled text span in a test paragraph.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Highlight string // pre-existing highlight color, "" for none
}

// Para is one test paragraph.
type Para struct {
	Style string // e.g. "Heading1", "" for body text
	Runs  []Run
}

// Table is test table cell text, row-major.
type Table [][]string

// Text is shorthand for a single-run body paragraph.
func Text(s string) Para {
	return Para{Runs: []Run{{Text: s}}}
}

// Bytes builds a DOCX container holding the given blocks in order.
// Blocks must be Para or Table values.
func Bytes(t testing.TB, blocks ...any) []byte {
	t.Helper()

	var body strings.Builder
	for _, b := range blocks {
		switch b := b.(type) {
		case Para:
			writePara(&body, b)
		case Table:
			writeTable(&body, b)
		default:
			t.Fatalf("docxtest: unsupported block type %T", b)
		}
	}

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`</w:body></w:document>`

	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rels},
		{"word/document.xml", document},
		{"docProps/core.xml", core},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("docxtest: %v", err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			t.Fatalf("docxtest: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("docxtest: %v", err)
	}
	return buf.Bytes()
}

// File writes a built container to a temp file and returns its path.
func File(t testing.TB, blocks ...any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")
	if err := os.WriteFile(path, Bytes(t, blocks...), 0644); err != nil {
		t.Fatalf("docxtest: %v", err)
	}
	return path
}

func writePara(b *strings.Builder, p Para) {
	b.WriteString("<w:p>")
	if p.Style != "" {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, p.Style)
	}
	for _, r := range p.Runs {
		b.WriteString("<w:r>")
		var props strings.Builder
		if r.Bold {
			props.WriteString("<w:b/>")
		}
		if r.Italic {
			props.WriteString("<w:i/>")
		}
		if r.Highlight != "" {
			fmt.Fprintf(&props, `<w:highlight w:val="%s"/>`, r.Highlight)
		}
		if props.Len() > 0 {
			b.WriteString("<w:rPr>" + props.String() + "</w:rPr>")
		}
		fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escape(r.Text))
		b.WriteString("</w:r>")
	}
	b.WriteString("</w:p>")
}

func writeTable(b *strings.Builder, tbl Table) {
	b.WriteString("<w:tbl>")
	for _, row := range tbl {
		b.WriteString("<w:tr>")
		for _, cell := range row {
			fmt.Fprintf(b, `<w:tc><w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p></w:tc>`, escape(cell))
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s)) //nolint:errcheck // bytes.Buffer never errors
	return buf.String()
}

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const core = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>Test Document</dc:title>
<dc:creator>docxtest</dc:creator>
<dc:subject>fixture</dc:subject>
<dcterms:created xsi:type="dcterms:W3CDTF">2024-01-02T03:04:05Z</dcterms:created>
<dcterms:modified xsi:type="dcterms:W3CDTF">2024-01-03T03:04:05Z</dcterms:modified>
</cp:coreProperties>`
