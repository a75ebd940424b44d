// Package document models the already-extracted text of a certificate
// document: pages, optional positioned fragments, and the normalization
// applied before pattern matching.
package document

import "strings"

// Fragment is one positioned run of text on a page. Y grows downward in
// reading order; fragments from the same physical table row share (nearly)
// the same Y.
type Fragment struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Page holds one page's text and, when the text-extraction collaborator
// provides it, per-fragment position metadata.
type Page struct {
	Number    int        `json:"number"`
	Text      string     `json:"text"`
	Fragments []Fragment `json:"fragments,omitempty"`
}

// Lines splits the page text into lines, preserving order. Order matters:
// when no coordinate data exists, line order substitutes for vertical order
// in downstream pairing.
func (p *Page) Lines() []string {
	if p.Text == "" {
		return nil
	}
	return strings.Split(p.Text, "\n")
}

// HasPositions reports whether the page carries usable coordinate metadata.
func (p *Page) HasPositions() bool {
	return len(p.Fragments) > 0
}

// Document is the full input to one extraction run.
type Document struct {
	Source string `json:"source"`
	Pages  []Page `json:"pages"`
}

// Text returns the concatenated text of all pages.
func (d *Document) Text() string {
	if len(d.Pages) == 1 {
		return d.Pages[0].Text
	}
	var b strings.Builder
	for i := range d.Pages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.Pages[i].Text)
	}
	return b.String()
}

// TextLength returns the total extracted character count across pages,
// the raw volume signal consumed by the quality evaluator.
func (d *Document) TextLength() int {
	n := 0
	for i := range d.Pages {
		n += len(strings.TrimSpace(d.Pages[i].Text))
	}
	return n
}

// FromText wraps a single pre-extracted text blob as a one-page document.
func FromText(source, text string) *Document {
	return &Document{
		Source: source,
		Pages:  []Page{{Number: 1, Text: text}},
	}
}
