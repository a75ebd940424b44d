// Package matcher applies one vendor field rule to one unit of text and
// returns raw matches with source positions. It performs no reconciliation;
// pairing values across fields is the orchestrator's and aligner's job.
package matcher

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/MeKo-Tech/certex/internal/document"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// Position is the vertical/horizontal location of a match when the source
// page carries coordinate metadata.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RawMatch is the transient result of one pattern application. Value is
// always trimmed and non-empty; empty or whitespace-only captures are
// discarded before they can propagate downstream.
type RawMatch struct {
	FieldKey string    `json:"field_key"`
	Value    string    `json:"value"`
	// Unit is the line index the match came from for line-scoped modes,
	// 0 for whole-page matches.
	Unit     int       `json:"unit"`
	Position *Position `json:"position,omitempty"`
}

// MatchPage applies a field rule to one page according to the rule's match
// mode. Patterns are tried in declared order; the first pattern yielding a
// non-empty result set wins for this evaluation pass and later patterns are
// not attempted. A pattern that panics during evaluation is treated as zero
// matches for that unit, logged, and processing continues: one bad field
// never aborts the document.
func MatchPage(page *document.Page, rule *vendor.FieldRule) []RawMatch {
	switch rule.MatchMode {
	case vendor.MatchGlobal:
		return matchWhole(page, rule, false)
	case vendor.MatchFirst:
		return matchWhole(page, rule, true)
	case vendor.MatchLineByLine, vendor.MatchTable:
		return matchByLine(page, rule)
	default:
		// Unreachable for validated configs.
		return nil
	}
}

func matchWhole(page *document.Page, rule *vendor.FieldRule, firstOnly bool) []RawMatch {
	for _, re := range rule.Compiled() {
		values := evaluate(re, page.Text, rule.Key, 0)
		if len(values) == 0 {
			continue
		}
		matches := make([]RawMatch, 0, len(values))
		for _, v := range values {
			matches = append(matches, RawMatch{FieldKey: rule.Key, Value: v})
			if firstOnly {
				break
			}
		}
		return limit(matches, rule)
	}
	return nil
}

func matchByLine(page *document.Page, rule *vendor.FieldRule) []RawMatch {
	if page.HasPositions() {
		return matchFragments(page, rule)
	}

	lines := page.Lines()
	for _, re := range rule.Compiled() {
		var matches []RawMatch
		for i, line := range lines {
			for _, v := range evaluate(re, line, rule.Key, i) {
				matches = append(matches, RawMatch{FieldKey: rule.Key, Value: v, Unit: i})
			}
		}
		if len(matches) > 0 {
			return limit(matches, rule)
		}
	}
	return nil
}

// matchFragments matches against positioned fragments so table-mode results
// carry the vertical coordinates the aligner groups on.
func matchFragments(page *document.Page, rule *vendor.FieldRule) []RawMatch {
	for _, re := range rule.Compiled() {
		var matches []RawMatch
		for i := range page.Fragments {
			frag := &page.Fragments[i]
			for _, v := range evaluate(re, frag.Text, rule.Key, i) {
				matches = append(matches, RawMatch{
					FieldKey: rule.Key,
					Value:    v,
					Unit:     i,
					Position: &Position{X: frag.X, Y: frag.Y},
				})
			}
		}
		if len(matches) > 0 {
			return limit(matches, rule)
		}
	}
	return nil
}

// evaluate runs one compiled pattern over one unit of text, returning
// trimmed, non-empty captured values. Catastrophic evaluation failures are
// recovered locally and reported as zero matches.
func evaluate(re *regexp.Regexp, text, fieldKey string, unit int) (values []string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Pattern evaluation failed", "field", fieldKey, "unit", unit, "error", r)
			values = nil
		}
	}()

	if text == "" {
		return nil
	}
	for _, sub := range re.FindAllStringSubmatch(text, -1) {
		if v := captureValue(sub); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// captureValue picks the first non-empty capturing group, falling back to
// the full match. Whitespace-only captures count as "no match".
func captureValue(sub []string) string {
	for _, group := range sub[1:] {
		if v := strings.TrimSpace(group); v != "" {
			return v
		}
	}
	return strings.TrimSpace(sub[0])
}

// limit enforces the extract_all contract: rules not extracting every match
// keep a single representative match.
func limit(matches []RawMatch, rule *vendor.FieldRule) []RawMatch {
	if rule.ExtractAll || len(matches) <= 1 {
		return matches
	}
	return matches[:1]
}
