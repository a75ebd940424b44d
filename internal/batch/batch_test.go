package batch

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/certex/internal/vendor"
)

func batchVendors(t *testing.T) map[string]*vendor.Config {
	t.Helper()
	cfg := &vendor.Config{
		VendorID:   "posco",
		VendorName: "POSCO",
		Fields: []vendor.FieldRule{
			{Key: "heat_number", Patterns: []string{`Heat\s*No[.:]?\s*([A-Z0-9-]+)`}, Required: true},
			{Key: "grade", Patterns: []string{`Grade[.:]?\s*([A-Z0-9]+)`}},
		},
		Detection: []vendor.DetectionKeyword{{Pattern: "POSCO", Weight: 1.0}},
	}
	require.NoError(t, cfg.Validate())
	return map[string]*vendor.Config{"posco": cfg}
}

func writeCert(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestProcessBatch_FixedVendor(t *testing.T) {
	dir := t.TempDir()
	writeCert(t, dir, "a.txt", "Heat No: SU1\nGrade: SS400")
	writeCert(t, dir, "b.txt", "Heat No: SU2\nGrade: SM490")

	cfg := &Config{VendorID: "posco", Workers: 2, ContinueOnError: true}
	result, err := ProcessBatch([]string{dir}, batchVendors(t), cfg)
	require.NoError(t, err)
	require.Len(t, result.Documents, 2)
	assert.Zero(t, result.Failed())

	heats := []string{}
	for _, doc := range result.Documents {
		require.NotNil(t, doc.Result)
		require.Len(t, doc.Result.Records, 1)
		assert.Positive(t, doc.Duration)
		heats = append(heats, doc.Result.Records[0].Fields["heat_number"])
	}
	sort.Strings(heats)
	assert.Equal(t, []string{"SU1", "SU2"}, heats)
}

func TestProcessBatch_AutoDetectsVendor(t *testing.T) {
	dir := t.TempDir()
	writeCert(t, dir, "a.txt", "POSCO Mill Certificate\nHeat No: SU1")

	cfg := &Config{AutoDetect: true, Workers: 1, ContinueOnError: true}
	result, err := ProcessBatch([]string{dir}, batchVendors(t), cfg)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "posco", result.Documents[0].VendorID)
}

func TestProcessBatch_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	writeCert(t, dir, "good.txt", "POSCO\nHeat No: SU1")
	writeCert(t, dir, "bad.txt", "no vendor markers here")

	cfg := &Config{AutoDetect: true, Workers: 2, ContinueOnError: true}
	result, err := ProcessBatch([]string{dir}, batchVendors(t), cfg)
	require.NoError(t, err)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, 1, result.Failed())
}

func TestProcessBatch_UnknownFixedVendor(t *testing.T) {
	dir := t.TempDir()
	writeCert(t, dir, "a.txt", "Heat No: SU1")

	cfg := &Config{VendorID: "nippon", Workers: 1}
	_, err := ProcessBatch([]string{dir}, batchVendors(t), cfg)
	assert.Error(t, err)
}

func TestProcessBatch_NoFiles(t *testing.T) {
	cfg := &Config{VendorID: "posco", Workers: 1}
	_, err := ProcessBatch([]string{t.TempDir()}, batchVendors(t), cfg)
	assert.Error(t, err)
}

func TestProcessBatch_NoVendors(t *testing.T) {
	_, err := ProcessBatch([]string{t.TempDir()}, nil, &Config{})
	assert.Error(t, err)
}

func TestProcessBatch_InsufficientExtractionKeepsResult(t *testing.T) {
	dir := t.TempDir()
	writeCert(t, dir, "a.txt", "POSCO certificate with Grade: SS400 but no heat")

	cfg := &Config{VendorID: "posco", Workers: 1, ContinueOnError: true}
	result, err := ProcessBatch([]string{dir}, batchVendors(t), cfg)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Error(t, result.Documents[0].Err)
	assert.NotNil(t, result.Documents[0].Result)
}
