package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestDiscoverDocumentFiles_FiltersUnsupported(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "b.txt"))
	touch(t, filepath.Join(dir, "c.png"))
	touch(t, filepath.Join(dir, "d.csv"))

	files, err := discoverDocumentFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverDocumentFiles_NonRecursiveSkipsSubdirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "sub", "b.pdf"))

	files, err := discoverDocumentFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = discoverDocumentFiles([]string{dir}, true, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverDocumentFiles_IncludeExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cert_1.pdf"))
	touch(t, filepath.Join(dir, "cert_2.pdf"))
	touch(t, filepath.Join(dir, "draft.pdf"))

	files, err := discoverDocumentFiles([]string{dir}, false, []string{"cert_*.pdf"}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = discoverDocumentFiles([]string{dir}, false, nil, []string{"draft*"})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscoverDocumentFiles_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	touch(t, path)

	files, err := discoverDocumentFiles([]string{path}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscoverDocumentFiles_MissingPath(t *testing.T) {
	_, err := discoverDocumentFiles([]string{filepath.Join(t.TempDir(), "nope")}, false, nil, nil)
	assert.Error(t, err)
}

func TestShouldIncludeFile_ExcludeWins(t *testing.T) {
	assert.False(t, shouldIncludeFile("cert.pdf", []string{"cert*"}, []string{"cert*"}))
	assert.True(t, shouldIncludeFile("cert.pdf", nil, nil))
	assert.False(t, shouldIncludeFile("cert.exe", nil, nil))
}
