package align

import (
	"sort"
	"strings"

	"github.com/MeKo-Tech/certex/internal/vendor"
)

// structuredTable pairs values by table row when a recognizable header line
// maps columns to field keys. It operates on line-indexed matches; pages
// whose matches carry coordinates are the positioned strategy's territory.
type structuredTable struct{}

func (s *structuredTable) Name() string { return "structured_table" }

func (s *structuredTable) Attempt(pm *PageMatches, cfg vendor.AlignmentConfig) ([]Row, int) {
	if pm.HasPositions() || len(pm.Columns) == 0 {
		return nil, 0
	}

	headerLine := s.findHeaderLine(pm)
	if headerLine < 0 {
		return nil, 0
	}

	// Group matches below the header by their source line; one table row per
	// line group. Header mapping made the column assignment unambiguous, so
	// pairing confidence is 1.0.
	byLine := make(map[int]map[string]string)
	var lineOrder []int
	ambiguities := 0

	for _, key := range pm.Order {
		for _, m := range pm.Fields[key] {
			if m.Unit <= headerLine {
				continue
			}
			row, ok := byLine[m.Unit]
			if !ok {
				row = make(map[string]string)
				byLine[m.Unit] = row
				lineOrder = append(lineOrder, m.Unit)
			}
			if _, dup := row[key]; dup {
				// Two candidate values for the same cell; keep the first in
				// reading order.
				ambiguities++
				continue
			}
			row[key] = m.Value
		}
	}

	var rows []Row
	for _, line := range sortedInts(lineOrder) {
		values := byLine[line]
		if !hasAllMandatory(values, pm.Mandatory) {
			continue
		}
		rows = append(rows, Row{Values: values, Confidence: 1.0})
	}
	return rows, ambiguities
}

// findHeaderLine locates the first line naming the declared table columns
// for at least two fields. A single recognized column is not treated as an
// unambiguous header.
func (s *structuredTable) findHeaderLine(pm *PageMatches) int {
	for i, line := range pm.Lines {
		lower := strings.ToLower(line)
		found := 0
		for _, column := range pm.Columns {
			if column != "" && strings.Contains(lower, strings.ToLower(column)) {
				found++
			}
		}
		if found >= 2 {
			return i
		}
	}
	return -1
}

func sortedInts(values []int) []int {
	out := append([]int(nil), values...)
	sort.Ints(out)
	return out
}
