// Package report writes rendered documents to disk and verifies the links
// between them.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shibukawa/erdump/erdiagram"
)

// Writer writes rendered documents into a directory
type Writer struct {
	OutputDir string

	// Logger receives one line per written file. Optional.
	Logger func(format string, args ...any)
}

// NewWriter creates a writer for the given directory
func NewWriter(outputDir string) *Writer {
	return &Writer{OutputDir: outputDir}
}

// Write creates the output directory when needed and writes every document.
// It returns the written paths in document order.
func (w *Writer) Write(docs []erdiagram.Document) ([]string, error) {
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", w.OutputDir, err)
	}

	paths := make([]string, 0, len(docs))

	for _, doc := range docs {
		path := filepath.Join(w.OutputDir, doc.Name)

		if err := os.WriteFile(path, []byte(doc.Content), 0o644); err != nil {
			return paths, fmt.Errorf("%w %s: %w", ErrWriteDocument, path, err)
		}

		w.logf("wrote %s (%d bytes)", path, len(doc.Content))

		paths = append(paths, path)
	}

	return paths, nil
}

func (w *Writer) logf(format string, args ...any) {
	if w.Logger != nil {
		w.Logger(format, args...)
	}
}
