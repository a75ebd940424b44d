// Package align pairs field values that were extracted independently into
// logical rows using vertical proximity on the page, because table cells are
// frequently split across physical lines in OCR output. Strategies are tried
// in priority order: structured table, positioned text, sequential.
package align

import (
	"log/slog"

	"github.com/MeKo-Tech/certex/internal/matcher"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// PageMatches carries one page's raw matches, grouped by field key, into the
// aligner.
type PageMatches struct {
	PageNumber int
	// Fields maps field key to its raw matches in source order.
	Fields map[string][]matcher.RawMatch
	// Order lists field keys in declaration order for deterministic output.
	Order []string
	// Mandatory lists the field keys a row must contain to be accepted.
	Mandatory []string
	// Columns maps field keys to their declared table column header hints.
	Columns map[string]string
	// Lines is the page text split into lines, for header detection.
	Lines []string
}

// HasPositions reports whether any match on the page carries coordinates.
func (pm *PageMatches) HasPositions() bool {
	for _, matches := range pm.Fields {
		for i := range matches {
			if matches[i].Position != nil {
				return true
			}
		}
	}
	return false
}

// Row is one aligned logical row with a pairing confidence in [0,1].
type Row struct {
	Values     map[string]string `json:"values"`
	Confidence float64           `json:"confidence"`
	// Deviation is the vertical spread of the paired values, in the same
	// unit as the position tolerance.
	Deviation float64 `json:"deviation"`
}

// Outcome is the aligner's result for one page.
type Outcome struct {
	Rows []Row `json:"rows"`
	// Strategy names the strategy that produced the rows.
	Strategy string `json:"strategy"`
	// Truncated counts candidate rows dropped by the per-page cap.
	Truncated int `json:"truncated"`
	// Ambiguities counts groupings where more than one pairing was plausible
	// within tolerance; the lowest-deviation pairing was kept.
	Ambiguities int `json:"ambiguities"`
}

// Strategy is one pairing approach. Attempt returns the rows it could build
// plus the number of ambiguous groupings it resolved; a strategy that does
// not apply to the page returns no rows.
type Strategy interface {
	Name() string
	Attempt(pm *PageMatches, cfg vendor.AlignmentConfig) ([]Row, int)
}

// Aligner runs an ordered list of strategies; the first one yielding at
// least min_extractions_per_page rows wins for the page.
type Aligner struct {
	strategies []Strategy
}

// New returns an aligner with the standard strategy cascade.
func New() *Aligner {
	return &Aligner{
		strategies: []Strategy{
			&structuredTable{},
			&positionedText{},
			&sequential{},
		},
	}
}

// NewWithStrategies returns an aligner with a custom strategy order.
func NewWithStrategies(strategies ...Strategy) *Aligner {
	return &Aligner{strategies: strategies}
}

// Align pairs the page's matches into rows. A page where no strategy reaches
// the minimum yields an empty outcome: a legitimately blank page, not an
// error. Pages producing more rows than max_extractions_per_page are
// truncated and the dropped count reported.
func (a *Aligner) Align(pm *PageMatches, cfg vendor.AlignmentConfig) Outcome {
	for _, s := range a.strategies {
		rows, ambiguities := s.Attempt(pm, cfg)
		if len(rows) < cfg.MinExtractionsPerPage {
			continue
		}

		out := Outcome{Rows: rows, Strategy: s.Name(), Ambiguities: ambiguities}
		if cfg.MaxExtractionsPerPage > 0 && len(rows) > cfg.MaxExtractionsPerPage {
			out.Truncated = len(rows) - cfg.MaxExtractionsPerPage
			out.Rows = rows[:cfg.MaxExtractionsPerPage]
			slog.Warn("Aligned rows exceed per-page cap, truncating",
				"page", pm.PageNumber, "rows", len(rows), "cap", cfg.MaxExtractionsPerPage)
		}
		if ambiguities > 0 {
			slog.Warn("Ambiguous positional groupings resolved by lowest deviation",
				"page", pm.PageNumber, "count", ambiguities, "strategy", s.Name())
		}
		return out
	}
	slog.Debug("No alignment strategy reached the per-page minimum", "page", pm.PageNumber)
	return Outcome{}
}

// hasAllMandatory reports whether a row covers every mandatory field.
func hasAllMandatory(values map[string]string, mandatory []string) bool {
	for _, key := range mandatory {
		if values[key] == "" {
			return false
		}
	}
	return true
}
