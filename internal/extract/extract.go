// Package extract is the extraction orchestrator: it drives the matcher per
// field rule, routes table-mode matches through the positional aligner,
// reconciles multi-field records, evaluates text quality, and applies the
// vendor's fallback policy. One invocation per document; the engine is pure
// with respect to its inputs and safe to run concurrently across documents
// with a shared, read-only vendor config.
package extract

import (
	"log/slog"

	"github.com/MeKo-Tech/certex/internal/align"
	"github.com/MeKo-Tech/certex/internal/document"
	"github.com/MeKo-Tech/certex/internal/matcher"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// Engine runs extractions for one vendor configuration.
type Engine struct {
	cfg     *vendor.Config
	aligner *align.Aligner
	clean   document.CleanOptions
}

// New creates an engine for a validated vendor configuration.
func New(cfg *vendor.Config) *Engine {
	clean := document.DefaultCleanOptions()
	for i := range cfg.Fields {
		if cfg.Fields[i].Bilingual {
			clean = document.BilingualCleanOptions()
			break
		}
	}
	return &Engine{cfg: cfg, aligner: align.New(), clean: clean}
}

// Extract turns a document into records plus a yield-quality summary.
// The error, when non-nil, is an *InsufficientExtractionError; the result
// is still returned alongside it so the caller keeps the audit trail.
func (e *Engine) Extract(doc *document.Document) (*Result, error) {
	pages := e.normalizePages(doc)
	pageMatches := e.matchPages(pages)
	shared := e.sharedValues(pageMatches)
	missing := make(map[string]bool)

	result := &Result{Summary: Summary{VendorID: e.cfg.VendorID}}
	result.Summary.TextLength = textLength(pages)
	result.Summary.PagesProcessed = len(pages)

	for i := range pages {
		var records []Record
		stats := PageStats{PageNumber: pages[i].Number}

		if e.cfg.UsesAligner() {
			records = e.alignPage(&pages[i], pageMatches[i], shared, &result.Summary, &stats)
		} else {
			records = reconcilePage(e.cfg, pageMatches[i], shared, missing)
		}

		for r := range records {
			records[r].PageNumber = pages[i].Number
		}
		stats.Records = len(records)
		if len(records) == 0 {
			result.Summary.PagesEmpty++
		}
		result.Summary.Pages = append(result.Summary.Pages, stats)
		result.Records = append(result.Records, records...)
	}

	e.evaluate(result, pageMatches)
	e.applyFallback(result)

	if len(result.Records) == 0 {
		if keys := e.missingRequired(pageMatches); len(keys) > 0 {
			return result, &InsufficientExtractionError{
				VendorID:      e.cfg.VendorID,
				Source:        doc.Source,
				MissingFields: keys,
			}
		}
	}

	slog.Debug("Extraction completed",
		"vendor", e.cfg.VendorID,
		"source", doc.Source,
		"records", len(result.Records),
		"quality_score", result.Summary.QualityScore,
		"fallback", result.Summary.FallbackUsed)
	return result, nil
}

// normalizePages returns cleaned copies of the document's pages; the input
// document is never mutated.
func (e *Engine) normalizePages(doc *document.Document) []document.Page {
	pages := make([]document.Page, len(doc.Pages))
	for i := range doc.Pages {
		src := &doc.Pages[i]
		page := document.Page{
			Number: src.Number,
			Text:   document.Normalize(src.Text, e.clean),
		}
		if len(src.Fragments) > 0 {
			page.Fragments = make([]document.Fragment, 0, len(src.Fragments))
			for _, frag := range src.Fragments {
				frag.Text = document.Normalize(frag.Text, e.clean)
				if frag.Text == "" {
					continue
				}
				page.Fragments = append(page.Fragments, frag)
			}
		}
		pages[i] = page
	}
	return pages
}

// matchPages runs every field rule against every page, in declaration order.
func (e *Engine) matchPages(pages []document.Page) []map[string][]matcher.RawMatch {
	all := make([]map[string][]matcher.RawMatch, len(pages))
	for i := range pages {
		fields := make(map[string][]matcher.RawMatch, len(e.cfg.Fields))
		for f := range e.cfg.Fields {
			rule := &e.cfg.Fields[f]
			fields[rule.Key] = matcher.MatchPage(&pages[i], rule)
		}
		all[i] = fields
	}
	return all
}

// sharedValues collects the document-wide broadcast values: for each
// share_value field, the first match anywhere in the document.
func (e *Engine) sharedValues(pageMatches []map[string][]matcher.RawMatch) map[string]string {
	shared := make(map[string]string)
	for f := range e.cfg.Fields {
		rule := &e.cfg.Fields[f]
		if !rule.ShareValue {
			continue
		}
		for _, fields := range pageMatches {
			if ms := fields[rule.Key]; len(ms) > 0 {
				shared[rule.Key] = ms[0].Value
				break
			}
		}
	}
	return shared
}

// alignPage routes one page's matches through the positional aligner and
// completes the resulting rows with shared and scalar values.
func (e *Engine) alignPage(page *document.Page, fields map[string][]matcher.RawMatch,
	shared map[string]string, summary *Summary, stats *PageStats) []Record {
	pm := &align.PageMatches{
		PageNumber: page.Number,
		Fields:     fields,
		Order:      e.fieldOrder(),
		Mandatory:  e.alignmentMandatory(),
		Columns:    e.tableColumns(),
		Lines:      page.Lines(),
	}

	outcome := e.aligner.Align(pm, e.cfg.Alignment)
	summary.Truncated += outcome.Truncated
	summary.Ambiguities += outcome.Ambiguities
	stats.Strategy = outcome.Strategy
	stats.Truncated = outcome.Truncated

	quality := QualityNormal
	if outcome.Truncated > 0 {
		quality = QualityDegraded
	}

	records := make([]Record, 0, len(outcome.Rows))
	for _, row := range outcome.Rows {
		rec := Record{
			Fields:     make(map[string]string, len(e.cfg.Fields)),
			Quality:    quality,
			Confidence: row.Confidence,
		}
		for f := range e.cfg.Fields {
			rule := &e.cfg.Fields[f]
			switch {
			case row.Values[rule.Key] != "":
				rec.Fields[rule.Key] = row.Values[rule.Key]
			case shared[rule.Key] != "":
				rec.Fields[rule.Key] = shared[rule.Key]
			case len(fields[rule.Key]) > 0 && !rule.ExtractAll:
				rec.Fields[rule.Key] = fields[rule.Key][0].Value
			case rule.FallbackValue != "":
				rec.Fields[rule.Key] = rule.FallbackValue
			}
		}
		records = append(records, rec)
	}
	return records
}

// evaluate fills the yield and quality portion of the summary.
func (e *Engine) evaluate(result *Result, pageMatches []map[string][]matcher.RawMatch) {
	required := e.cfg.RequiredKeys()
	matched := 0
	for _, key := range required {
		if e.fieldMatched(key, pageMatches) {
			matched++
		}
	}
	result.Summary.RequiredFields = len(required)
	result.Summary.MatchedFields = matched

	verdict := EvaluateQuality(result.Summary.TextLength, matched, len(required),
		e.cfg.Fallback.Conditions.OCRQualityThreshold)
	result.Summary.QualityScore = verdict.Score
	result.Summary.Degraded = verdict.Degraded
}

// applyFallback substitutes vendor-declared fallback entries when the input
// is degraded or the document yielded no viable records.
func (e *Engine) applyFallback(result *Result) {
	if !result.Summary.Degraded && len(result.Records) > 0 {
		return
	}
	fallback := resolveFallback(e.cfg, len(result.Records))
	if len(fallback) == 0 {
		return
	}
	result.Summary.FallbackUsed = true
	result.Records = append(result.Records, fallback...)
}

// missingRequired lists required fields that matched nowhere in the
// document and declare no field-level fallback value.
func (e *Engine) missingRequired(pageMatches []map[string][]matcher.RawMatch) []string {
	var keys []string
	for f := range e.cfg.Fields {
		rule := &e.cfg.Fields[f]
		if !rule.Required || rule.FallbackValue != "" {
			continue
		}
		if !e.fieldMatched(rule.Key, pageMatches) {
			keys = append(keys, rule.Key)
		}
	}
	return keys
}

func (e *Engine) fieldMatched(key string, pageMatches []map[string][]matcher.RawMatch) bool {
	for _, fields := range pageMatches {
		if len(fields[key]) > 0 {
			return true
		}
	}
	return false
}

func (e *Engine) fieldOrder() []string {
	order := make([]string, len(e.cfg.Fields))
	for i := range e.cfg.Fields {
		order[i] = e.cfg.Fields[i].Key
	}
	return order
}

// alignmentMandatory returns the fields a row must pair to be accepted:
// required row-scoped fields. Shared and scalar fields are broadcast after
// alignment and never gate a pairing.
func (e *Engine) alignmentMandatory() []string {
	var keys []string
	for i := range e.cfg.Fields {
		rule := &e.cfg.Fields[i]
		if !rule.Required || rule.ShareValue {
			continue
		}
		if rule.MatchMode == vendor.MatchTable || rule.MatchMode == vendor.MatchLineByLine {
			keys = append(keys, rule.Key)
		}
	}
	return keys
}

func (e *Engine) tableColumns() map[string]string {
	columns := make(map[string]string)
	for i := range e.cfg.Fields {
		if c := e.cfg.Fields[i].TableColumn; c != "" {
			columns[e.cfg.Fields[i].Key] = c
		}
	}
	return columns
}

func textLength(pages []document.Page) int {
	n := 0
	for i := range pages {
		n += len(pages[i].Text)
	}
	return n
}
