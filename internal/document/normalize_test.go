package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Defaults(t *testing.T) {
	// Leading BOM and an embedded zero-width space, written as escapes.
	in := "\uFEFF  Heat\tNo:\u200B SU12345  "
	out := Normalize(in, DefaultCleanOptions())
	assert.Equal(t, "Heat No: SU12345", out)
}

func TestNormalize_PreservesNewlines(t *testing.T) {
	in := "Heat No:   SU123\n  Thickness:\t12.5 mm  \nGrade: SS400"
	out := Normalize(in, DefaultCleanOptions())
	assert.Equal(t, "Heat No: SU123\nThickness: 12.5 mm\nGrade: SS400", out)
}

func TestNormalize_RemovesControlChars(t *testing.T) {
	in := "Grade\x00: SS\x07400"
	out := Normalize(in, DefaultCleanOptions())
	assert.Equal(t, "Grade: SS400", out)
}

func TestNormalize_BilingualFoldsFullWidth(t *testing.T) {
	// Full-width digits and latin letters as emitted by CJK OCR engines.
	in := "厚さ　１２．５ｍｍ"
	out := Normalize(in, BilingualCleanOptions())
	assert.Equal(t, "厚さ 12.5mm", out)
}

func TestNormalize_DefaultKeepsFullWidth(t *testing.T) {
	in := "１２３"
	out := Normalize(in, DefaultCleanOptions())
	assert.Equal(t, "１２３", out)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize("", DefaultCleanOptions()))
}

func TestPageLines(t *testing.T) {
	p := Page{Text: "a\nb\nc"}
	assert.Equal(t, []string{"a", "b", "c"}, p.Lines())

	empty := Page{}
	assert.Nil(t, empty.Lines())
}

func TestDocumentText(t *testing.T) {
	doc := Document{Pages: []Page{{Text: "one"}, {Text: "two"}}}
	assert.Equal(t, "one\ntwo", doc.Text())
	assert.Equal(t, 6, doc.TextLength())
}

func TestFromText(t *testing.T) {
	doc := FromText("cert.txt", "Heat No: SU1")
	assert.Equal(t, "cert.txt", doc.Source)
	assert.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.False(t, doc.Pages[0].HasPositions())
}
