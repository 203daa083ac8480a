package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
)

// Bytes serializes the document back into a DOCX container. Only
// word/document.xml is re-serialized; every other archive entry is copied
// through byte-for-byte.
func (d *Document) Bytes() ([]byte, error) {
	body, err := d.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serializing document body: %v", ErrPersistence, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range d.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("%w: writing %s: %v", ErrPersistence, p.name, err)
		}
		data := p.data
		if p.name == documentPart {
			data = body
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %v", ErrPersistence, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing container: %v", ErrPersistence, err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to path. path must be distinct from the original;
// the original bytes are never opened for writing.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
