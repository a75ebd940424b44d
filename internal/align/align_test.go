package align

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/certex/internal/matcher"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

func alignCfg() vendor.AlignmentConfig {
	return vendor.DefaultAlignment()
}

func positioned(key, value string, y float64) matcher.RawMatch {
	return matcher.RawMatch{FieldKey: key, Value: value, Position: &matcher.Position{Y: y}}
}

func lineMatch(key, value string, line int) matcher.RawMatch {
	return matcher.RawMatch{FieldKey: key, Value: value, Unit: line}
}

func TestAlign_PositionedPairsByProximity(t *testing.T) {
	pm := &PageMatches{
		PageNumber: 1,
		Fields: map[string][]matcher.RawMatch{
			"thickness": {positioned("thickness", "12.5", 50.0), positioned("thickness", "8.0", 72.0)},
			"quantity":  {positioned("quantity", "3", 51.5), positioned("quantity", "7", 73.0)},
		},
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
	}

	out := New().Align(pm, alignCfg())
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "positioned_text", out.Strategy)

	assert.Equal(t, "12.5", out.Rows[0].Values["thickness"])
	assert.Equal(t, "3", out.Rows[0].Values["quantity"])
	assert.Equal(t, "8.0", out.Rows[1].Values["thickness"])
	assert.Equal(t, "7", out.Rows[1].Values["quantity"])
}

func TestAlign_ToleranceSplitsDistantValues(t *testing.T) {
	cfg := alignCfg()
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"thickness": {positioned("thickness", "12.5", 50.0)},
			"quantity":  {positioned("quantity", "3", 50.0 + cfg.PositionTolerance + 1)},
		},
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
	}

	out := New().Align(pm, cfg)
	// Neither group covers both mandatory fields, so positioned pairing drops
	// them and the sequential fallback pairs by order instead.
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "sequential", out.Strategy)
	assert.InDelta(t, 0.3, out.Rows[0].Confidence, 1e-9)
}

func TestAlign_ConfidenceDecaysWithDeviation(t *testing.T) {
	cfg := alignCfg()
	prev := 1.1
	for _, dev := range []float64{0.0, 1.0, 2.5, 4.0, 5.0} {
		pm := &PageMatches{
			Fields: map[string][]matcher.RawMatch{
				"a": {positioned("a", "1", 10.0)},
				"b": {positioned("b", "2", 10.0 + dev)},
			},
			Order:     []string{"a", "b"},
			Mandatory: []string{"a", "b"},
		}
		out := New().Align(pm, cfg)
		require.Len(t, out.Rows, 1, "deviation %v", dev)
		conf := out.Rows[0].Confidence
		assert.LessOrEqual(t, conf, prev, "confidence must not increase with deviation %v", dev)
		assert.GreaterOrEqual(t, conf, 0.5)
		prev = conf
	}
}

func TestAlign_PerfectAlignmentConfidenceIsOne(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"a": {positioned("a", "1", 30.0)},
			"b": {positioned("b", "2", 30.0)},
		},
		Order:     []string{"a", "b"},
		Mandatory: []string{"a", "b"},
	}
	out := New().Align(pm, alignCfg())
	require.Len(t, out.Rows, 1)
	assert.InDelta(t, 1.0, out.Rows[0].Confidence, 1e-9)
}

func TestAlign_DuplicateFieldInGroupIsAmbiguous(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"a": {positioned("a", "1", 20.0), positioned("a", "1b", 21.0)},
			"b": {positioned("b", "2", 20.5)},
		},
		Order:     []string{"a", "b"},
		Mandatory: []string{"a", "b"},
	}
	out := New().Align(pm, alignCfg())
	require.Len(t, out.Rows, 1)
	// Closest-to-anchor value wins
	assert.Equal(t, "1", out.Rows[0].Values["a"])
	assert.Equal(t, 1, out.Ambiguities)
}

func TestAlign_TruncatesAtPerPageCap(t *testing.T) {
	cfg := alignCfg()
	cfg.MaxExtractionsPerPage = 20

	fields := map[string][]matcher.RawMatch{}
	for i := 0; i < 25; i++ {
		y := float64(i * 20)
		fields["thickness"] = append(fields["thickness"], positioned("thickness", fmt.Sprintf("t%d", i), y))
		fields["quantity"] = append(fields["quantity"], positioned("quantity", fmt.Sprintf("q%d", i), y+1))
	}
	pm := &PageMatches{
		Fields:    fields,
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
	}

	out := New().Align(pm, cfg)
	assert.Len(t, out.Rows, 20)
	assert.Equal(t, 5, out.Truncated)
	// Retained rows are the first twenty in reading order
	assert.Equal(t, "t0", out.Rows[0].Values["thickness"])
	assert.Equal(t, "t19", out.Rows[19].Values["thickness"])
}

func TestAlign_StructuredTableWinsWithoutPositions(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"thickness": {lineMatch("thickness", "12.5", 3), lineMatch("thickness", "8.0", 4)},
			"quantity":  {lineMatch("quantity", "3", 3), lineMatch("quantity", "7", 4)},
		},
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
		Columns:   map[string]string{"thickness": "Thickness", "quantity": "Q'ty"},
		Lines: []string{
			"POSCO Mill Certificate",
			"",
			"Thickness    Q'ty",
			"12.5 mm      3",
			"8.0 mm       7",
		},
	}

	out := New().Align(pm, alignCfg())
	assert.Equal(t, "structured_table", out.Strategy)
	require.Len(t, out.Rows, 2)
	assert.InDelta(t, 1.0, out.Rows[0].Confidence, 1e-9)
	assert.Equal(t, "12.5", out.Rows[0].Values["thickness"])
	assert.Equal(t, "7", out.Rows[1].Values["quantity"])
}

func TestAlign_TableIgnoresMatchesAboveHeader(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"thickness": {lineMatch("thickness", "99.9", 0), lineMatch("thickness", "12.5", 3)},
			"quantity":  {lineMatch("quantity", "3", 3)},
		},
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
		Columns:   map[string]string{"thickness": "Thickness", "quantity": "Q'ty"},
		Lines: []string{
			"Nominal 99.9 mm stock",
			"",
			"Thickness  Q'ty",
			"12.5       3",
		},
	}

	out := New().Align(pm, alignCfg())
	assert.Equal(t, "structured_table", out.Strategy)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "12.5", out.Rows[0].Values["thickness"])
}

func TestAlign_SequentialPairsByOrder(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"thickness": {lineMatch("thickness", "12.5", 0), lineMatch("thickness", "8.0", 1)},
			"quantity":  {lineMatch("quantity", "3", 0), lineMatch("quantity", "7", 1)},
		},
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
	}

	out := New().Align(pm, alignCfg())
	assert.Equal(t, "sequential", out.Strategy)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "8.0", out.Rows[1].Values["thickness"])
	assert.Equal(t, "7", out.Rows[1].Values["quantity"])
}

func TestAlign_SequentialBroadcastsSingleValue(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"thickness": {lineMatch("thickness", "12.5", 0), lineMatch("thickness", "8.0", 1)},
			"grade":     {lineMatch("grade", "SS400", 0)},
		},
		Order:     []string{"thickness", "grade"},
		Mandatory: []string{"thickness"},
	}

	out := New().Align(pm, alignCfg())
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "SS400", out.Rows[0].Values["grade"])
	assert.Equal(t, "SS400", out.Rows[1].Values["grade"])
}

func TestAlign_SequentialRowCountBoundByScarcestMandatory(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"thickness": {lineMatch("thickness", "12.5", 0), lineMatch("thickness", "8.0", 1), lineMatch("thickness", "6.0", 2)},
			"quantity":  {lineMatch("quantity", "3", 0), lineMatch("quantity", "7", 1)},
		},
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
	}

	out := New().Align(pm, alignCfg())
	assert.Len(t, out.Rows, 2)
}

func TestAlign_SequentialDeduplicatesRepeatedValues(t *testing.T) {
	pm := &PageMatches{
		Fields: map[string][]matcher.RawMatch{
			"thickness": {lineMatch("thickness", "12.5", 0), lineMatch("thickness", "12.5", 1)},
			"quantity":  {lineMatch("quantity", "3", 0)},
		},
		Order:     []string{"thickness", "quantity"},
		Mandatory: []string{"thickness", "quantity"},
	}

	out := New().Align(pm, alignCfg())
	assert.Len(t, out.Rows, 1)
}

func TestAlign_EmptyPageYieldsEmptyOutcome(t *testing.T) {
	pm := &PageMatches{
		Fields:    map[string][]matcher.RawMatch{},
		Order:     []string{"thickness"},
		Mandatory: []string{"thickness"},
	}
	out := New().Align(pm, alignCfg())
	assert.Empty(t, out.Rows)
	assert.Empty(t, out.Strategy)
	assert.Zero(t, out.Truncated)
}
