// Package pdftext adapts the text-extraction collaborator: it loads
// already-extractable text (vector PDF text or pre-OCRed plain text) into
// the document model, including per-fragment vertical coordinates when the
// PDF provides them. OCR execution itself is out of scope; scanned pages
// without vector text surface as low-volume pages for the quality evaluator
// to judge.
package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/certex/internal/document"
)

// Load reads a document from a .pdf or pre-extracted .txt file.
func Load(path string) (*document.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return LoadPDF(path)
	case ".txt", ".text":
		return LoadText(path)
	default:
		return nil, fmt.Errorf("unsupported document type: %s", path)
	}
}

// IsSupported reports whether the file extension is a loadable document.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".text":
		return true
	}
	return false
}

// LoadText wraps a pre-extracted text file as a document. Form feeds mark
// page boundaries, matching how OCR tooling commonly concatenates pages.
func LoadText(path string) (*document.Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied input path
	if err != nil {
		return nil, fmt.Errorf("failed to read text document %s: %w", path, err)
	}

	doc := &document.Document{Source: path}
	for i, pageText := range strings.Split(string(data), "\f") {
		doc.Pages = append(doc.Pages, document.Page{
			Number: i + 1,
			Text:   strings.TrimRight(pageText, "\n"),
		})
	}
	return doc, nil
}
