package align

import (
	"sort"

	"github.com/MeKo-Tech/certex/internal/vendor"
)

// positionedText groups matches across fields into rows by vertical
// proximity. Two values belong to the same row when their vertical positions
// differ by no more than the position tolerance; a group that would spread
// wider than max_row_variance is split instead.
type positionedText struct{}

func (s *positionedText) Name() string { return "positioned_text" }

// candidate is one positioned value entering the clustering pass.
type candidate struct {
	field string
	value string
	y     float64
}

func (s *positionedText) Attempt(pm *PageMatches, cfg vendor.AlignmentConfig) ([]Row, int) {
	candidates := s.collect(pm)
	if len(candidates) == 0 {
		return nil, 0
	}

	var rows []Row
	ambiguities := 0
	for _, group := range s.cluster(candidates, cfg) {
		row, amb := s.buildRow(group)
		ambiguities += amb
		if !hasAllMandatory(row.Values, pm.Mandatory) {
			// Unpairable values are dropped, never fabricated into a row.
			continue
		}
		row.Confidence = deviationConfidence(row.Deviation, cfg.PositionTolerance)
		rows = append(rows, row)
	}
	return rows, ambiguities
}

// collect gathers every positioned match, sorted by vertical position with
// field order as a deterministic tie-break.
func (s *positionedText) collect(pm *PageMatches) []candidate {
	fieldRank := make(map[string]int, len(pm.Order))
	for i, key := range pm.Order {
		fieldRank[key] = i
	}

	var candidates []candidate
	for _, key := range pm.Order {
		for _, m := range pm.Fields[key] {
			if m.Position == nil {
				continue
			}
			candidates = append(candidates, candidate{field: key, value: m.Value, y: m.Position.Y})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].y != candidates[j].y {
			return candidates[i].y < candidates[j].y
		}
		return fieldRank[candidates[i].field] < fieldRank[candidates[j].field]
	})
	return candidates
}

// cluster walks the sorted candidates and starts a new group whenever the
// next value is farther than the tolerance from the group's anchor or would
// stretch the group beyond the allowed row variance.
func (s *positionedText) cluster(candidates []candidate, cfg vendor.AlignmentConfig) [][]candidate {
	var groups [][]candidate
	var group []candidate
	anchor := 0.0

	for _, c := range candidates {
		if len(group) == 0 {
			group = []candidate{c}
			anchor = c.y
			continue
		}
		spread := c.y - anchor
		if spread <= cfg.PositionTolerance && spread <= cfg.MaxRowVariance {
			group = append(group, c)
			continue
		}
		groups = append(groups, group)
		group = []candidate{c}
		anchor = c.y
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}
	return groups
}

// buildRow reduces one vertical group to a row with one value per field.
// When a field has several candidates within tolerance, the one closest to
// the group anchor wins and the grouping is reported as ambiguous.
func (s *positionedText) buildRow(group []candidate) (Row, int) {
	values := make(map[string]string)
	minY, maxY := group[0].y, group[0].y
	ambiguities := 0

	for _, c := range group {
		if _, dup := values[c.field]; dup {
			// Candidates are anchor-ordered, so the kept value is already
			// the lowest-deviation choice.
			ambiguities++
			continue
		}
		values[c.field] = c.value
		if c.y < minY {
			minY = c.y
		}
		if c.y > maxY {
			maxY = c.y
		}
	}
	return Row{Values: values, Deviation: maxY - minY}, ambiguities
}

// deviationConfidence maps vertical deviation to a pairing confidence with
// linear decay: 1.0 at perfect alignment, 0.5 at the tolerance boundary.
// Monotonically non-increasing in the deviation.
func deviationConfidence(deviation, tolerance float64) float64 {
	if tolerance <= 0 || deviation <= 0 {
		return 1.0
	}
	conf := 1.0 - 0.5*(deviation/tolerance)
	if conf < 0.5 {
		return 0.5
	}
	return conf
}
