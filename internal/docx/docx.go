// Package docx handles parsing DOCX containers into structured, addressable
// documents and writing surgically mutated copies back out.
//
// A document is a zip archive; the text lives in word/document.xml. Parsing
// keeps every archive entry byte-for-byte and holds the document part as an
// XML tree, so a save only re-serializes the one part that was touched and
// copies everything else through unchanged.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMalformed indicates the input could not be parsed as a DOCX container.
// Fatal for the whole pipeline; no partial extraction is attempted.
var ErrMalformed = errors.New("malformed document")

// ErrPersistence indicates the mutated document could not be written out.
// The original and the working copy are unaffected.
var ErrPersistence = errors.New("persistence failure")

const documentPart = "word/document.xml"
const corePart = "docProps/core.xml"

// part is one archive entry, preserved in original order.
type part struct {
	name string
	data []byte
}

// Open reads and parses the DOCX file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.path = path
	return doc, nil
}

// OpenBytes parses DOCX container bytes.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip container: %v", ErrMalformed, err)
	}

	doc := &Document{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformed, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformed, f.Name, err)
		}
		doc.parts = append(doc.parts, part{name: f.Name, data: content})
	}

	if err := doc.parseBody(); err != nil {
		return nil, err
	}
	doc.parseCore()
	return doc, nil
}

func (d *Document) partData(name string) ([]byte, bool) {
	for _, p := range d.parts {
		if p.name == name {
			return p.data, true
		}
	}
	return nil, false
}
