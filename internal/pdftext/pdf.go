package pdftext

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/MeKo-Tech/certex/internal/document"
)

// PageQuality summarizes how much usable vector text one page carried.
type PageQuality struct {
	PageNumber int     `json:"page_number"`
	HasText    bool    `json:"has_text"`
	WordCount  int     `json:"word_count"`
	CharCount  int     `json:"char_count"`
	Searchable bool    `json:"searchable"`
	Score      float64 `json:"score"`
}

// LoadPDF extracts vector text and positions from every page of a PDF.
func LoadPDF(path string) (*document.Document, error) {
	doc, _, err := LoadPDFWithQuality(path)
	return doc, err
}

// LoadPDFWithQuality additionally reports per-page text quality so callers
// can decide whether OCR (an external collaborator) is needed.
func LoadPDFWithQuality(path string) (*document.Document, []PageQuality, error) {
	if err := ValidatePDF(path); err != nil {
		return nil, nil, err
	}

	reader, err := pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}

	doc := &document.Document{Source: path}
	qualities := make([]PageQuality, 0, reader.NumPage())

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page, err := extractPage(reader, pageNum)
		if err != nil {
			// A single unreadable page does not abort the document.
			slog.Warn("Failed to extract page text", "file", path, "page", pageNum, "error", err)
			page = document.Page{Number: pageNum}
		}
		doc.Pages = append(doc.Pages, page)
		qualities = append(qualities, assessPage(&page))
	}
	return doc, qualities, nil
}

// ValidatePDF checks that the file is a structurally sound PDF and reports
// its page count at debug level.
func ValidatePDF(path string) error {
	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("invalid PDF %s: %w", path, err)
	}
	count, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("failed to count PDF pages %s: %w", path, err)
	}
	slog.Debug("Validated PDF", "file", path, "pages", count)
	return nil
}

// extractPage pulls one page's text rows and positioned fragments.
func extractPage(reader *pdf.Reader, pageNum int) (document.Page, error) {
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return document.Page{}, fmt.Errorf("page %d is null", pageNum)
	}

	out := document.Page{Number: pageNum}

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var text strings.Builder
		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				if line.Len() > 0 {
					line.WriteByte(' ')
				}
				line.WriteString(word.S)
				// PDF user space runs bottom-up; flip Y so fragments sort in
				// reading order like line indices do.
				out.Fragments = append(out.Fragments, document.Fragment{
					Text: word.S,
					X:    word.X,
					Y:    -word.Y,
				})
			}
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString(line.String())
		}
		out.Text = text.String()
		return out, nil
	}

	// Row extraction failed; fall back to plain text without positions.
	fonts := make(map[string]*pdf.Font)
	plain, err := page.GetPlainText(fonts)
	if err != nil {
		return document.Page{}, err
	}
	out.Text = plain
	return out, nil
}

// assessPage scores one page's text volume, the raw signal behind the OCR
// fallback decision in the surrounding pipeline.
func assessPage(page *document.Page) PageQuality {
	trimmed := strings.TrimSpace(page.Text)
	q := PageQuality{
		PageNumber: page.Number,
		HasText:    trimmed != "",
		WordCount:  len(strings.Fields(trimmed)),
		CharCount:  len(trimmed),
		Searchable: page.HasPositions(),
	}

	if q.HasText {
		q.Score += 0.4
		if q.WordCount > 5 {
			q.Score += 0.3
		}
		if q.CharCount > 200 {
			q.Score += 0.2
		}
		if q.Searchable {
			q.Score += 0.1
		}
	}
	return q
}
