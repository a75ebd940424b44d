package align

import (
	"github.com/MeKo-Tech/certex/internal/matcher"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// sequentialConfidence marks sequential pairings as unverified: the Nth
// values of each field are assumed to belong together purely by document
// order.
const sequentialConfidence = 0.3

// sequential is the last-resort strategy: pair the Nth value of each
// mandatory field in document order, ignoring position entirely.
type sequential struct{}

func (s *sequential) Name() string { return "sequential" }

func (s *sequential) Attempt(pm *PageMatches, cfg vendor.AlignmentConfig) ([]Row, int) {
	if len(pm.Mandatory) == 0 {
		return nil, 0
	}

	// Deduplicate values per field, preserving first-seen order. Patterns
	// matching the same cell across overlapping lines otherwise inflate the
	// row count.
	unique := make(map[string][]string, len(pm.Fields))
	for _, key := range pm.Order {
		unique[key] = dedupe(pm.Fields[key])
	}

	// The row count is bounded by the scarcest mandatory field; anything
	// beyond that would pair values with nothing.
	count := -1
	for _, key := range pm.Mandatory {
		if n := len(unique[key]); count < 0 || n < count {
			count = n
		}
	}
	if count <= 0 {
		return nil, 0
	}

	rows := make([]Row, 0, count)
	for i := 0; i < count; i++ {
		values := make(map[string]string)
		for _, key := range pm.Order {
			vals := unique[key]
			switch {
			case i < len(vals):
				values[key] = vals[i]
			case len(vals) == 1:
				// A single value for a multi-row document reads as a
				// document-level constant (e.g. one certificate number).
				values[key] = vals[0]
			}
		}
		rows = append(rows, Row{Values: values, Confidence: sequentialConfidence})
	}
	return rows, 0
}

func dedupe(matches []matcher.RawMatch) []string {
	seen := make(map[string]bool, len(matches))
	var out []string
	for i := range matches {
		v := matches[i].Value
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
