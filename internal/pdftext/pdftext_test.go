package pdftext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/certex/internal/document"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadText_SinglePage(t *testing.T) {
	path := writeTemp(t, "cert.txt", "Heat No: SU12345\nGrade: SS400\n")

	doc, err := LoadText(path)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, path, doc.Source)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "Heat No: SU12345\nGrade: SS400", doc.Pages[0].Text)
	assert.False(t, doc.Pages[0].HasPositions())
}

func TestLoadText_FormFeedSplitsPages(t *testing.T) {
	path := writeTemp(t, "cert.txt", "page one\n\fpage two\n\fpage three")

	doc, err := LoadText(path)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 3)
	assert.Equal(t, "page one", doc.Pages[0].Text)
	assert.Equal(t, "page two", doc.Pages[1].Text)
	assert.Equal(t, 3, doc.Pages[2].Number)
}

func TestLoadText_MissingFile(t *testing.T) {
	_, err := LoadText(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestLoad_DispatchesByExtension(t *testing.T) {
	path := writeTemp(t, "cert.TXT", "hello")
	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Pages, 1)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("cert.docx")
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.pdf"))
	assert.True(t, IsSupported("a.PDF"))
	assert.True(t, IsSupported("a.txt"))
	assert.True(t, IsSupported("a.text"))
	assert.False(t, IsSupported("a.png"))
	assert.False(t, IsSupported("a"))
}

func TestValidatePDF_RejectsNonPDF(t *testing.T) {
	path := writeTemp(t, "fake.pdf", "not a pdf at all")
	assert.Error(t, ValidatePDF(path))
}

func TestAssessPage(t *testing.T) {
	long := document.Page{Number: 1, Text: "The quick brown fox jumps over the lazy dog and keeps going until the page has well over two hundred characters of searchable vector text, which is what a healthy certificate body looks like after extraction. Padding padding padding."}
	q := assessPage(&long)
	assert.True(t, q.HasText)
	assert.Greater(t, q.WordCount, 5)
	assert.False(t, q.Searchable)
	assert.InDelta(t, 0.9, q.Score, 1e-9)

	empty := document.Page{Number: 2}
	eq := assessPage(&empty)
	assert.False(t, eq.HasText)
	assert.Zero(t, eq.Score)
}
