package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/certex/internal/vendor"
)

func fallbackVendor(entries []map[string]string, count int) *vendor.Config {
	return &vendor.Config{
		VendorID: "test",
		Fallback: vendor.FallbackStrategy{
			Enabled: true,
			Entries: entries,
			Count:   count,
		},
	}
}

func TestResolveFallback_Disabled(t *testing.T) {
	cfg := fallbackVendor([]map[string]string{{"a": "1"}}, 0)
	cfg.Fallback.Enabled = false
	assert.Nil(t, resolveFallback(cfg, 0))
}

func TestResolveFallback_EntriesInDeclaredOrder(t *testing.T) {
	cfg := fallbackVendor([]map[string]string{
		{"heat_number": "H1"},
		{"heat_number": "H2"},
	}, 0)

	records := resolveFallback(cfg, 0)
	require.Len(t, records, 2)
	assert.Equal(t, "H1", records[0].Fields["heat_number"])
	assert.Equal(t, "H2", records[1].Fields["heat_number"])
	assert.Equal(t, QualityFallback, records[0].Quality)
	assert.Equal(t, 1, records[0].PageNumber)
}

func TestResolveFallback_CyclesWhenCountExceedsEntries(t *testing.T) {
	cfg := fallbackVendor([]map[string]string{
		{"heat_number": "H1"},
		{"heat_number": "H2"},
	}, 5)

	records := resolveFallback(cfg, 0)
	require.Len(t, records, 5)
	assert.Equal(t, "H1", records[0].Fields["heat_number"])
	assert.Equal(t, "H2", records[1].Fields["heat_number"])
	assert.Equal(t, "H1", records[2].Fields["heat_number"])
	assert.Equal(t, "H2", records[3].Fields["heat_number"])
	assert.Equal(t, "H1", records[4].Fields["heat_number"])
}

func TestResolveFallback_TruncatesWhenCountBelowEntries(t *testing.T) {
	cfg := fallbackVendor([]map[string]string{
		{"heat_number": "H1"},
		{"heat_number": "H2"},
		{"heat_number": "H3"},
	}, 1)

	records := resolveFallback(cfg, 0)
	require.Len(t, records, 1)
	assert.Equal(t, "H1", records[0].Fields["heat_number"])
}

func TestResolveFallback_TopsUpExistingRecords(t *testing.T) {
	cfg := fallbackVendor([]map[string]string{
		{"heat_number": "H1"},
		{"heat_number": "H2"},
	}, 0)

	records := resolveFallback(cfg, 1)
	require.Len(t, records, 1)
}

func TestResolveFallback_NothingMissing(t *testing.T) {
	cfg := fallbackVendor([]map[string]string{{"heat_number": "H1"}}, 0)
	assert.Nil(t, resolveFallback(cfg, 1))
	assert.Nil(t, resolveFallback(cfg, 5))
}

func TestResolveFallback_CopiesEntryMaps(t *testing.T) {
	entry := map[string]string{"heat_number": "H1"}
	cfg := fallbackVendor([]map[string]string{entry}, 0)

	records := resolveFallback(cfg, 0)
	require.Len(t, records, 1)
	records[0].Fields["heat_number"] = "mutated"
	assert.Equal(t, "H1", entry["heat_number"])
}
