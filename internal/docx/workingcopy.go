package docx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorkingCopyPath returns the disposable sibling path for original, e.g.
// thesis.docx → thesis_working.docx.
func WorkingCopyPath(original string) string {
	ext := filepath.Ext(original)
	stem := strings.TrimSuffix(original, ext)
	return stem + "_working" + ext
}

// CreateWorkingCopy duplicates the original's bytes to the working copy path
// and returns that path. All structural reads and mutations for an
// annotation pass happen against this copy; the original is never written.
func CreateWorkingCopy(original string) (string, error) {
	data, err := os.ReadFile(original)
	if err != nil {
		return "", fmt.Errorf("reading original %s: %w", original, err)
	}
	dst := WorkingCopyPath(original)
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", fmt.Errorf("creating working copy %s: %w", dst, err)
	}
	return dst, nil
}
