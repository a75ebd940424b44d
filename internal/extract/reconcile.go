package extract

import (
	"github.com/MeKo-Tech/certex/internal/matcher"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// reconcilePage assembles records from one page's raw matches by pairing
// order. Fields marked share_value contribute one document-wide value to
// every record; fields with extract_all determine the record count (the
// longest such field's match count, shorter lists padded from the field's
// fallback value and flagged); scalar fields contribute the same value to
// all records.
func reconcilePage(cfg *vendor.Config, pageMatches map[string][]matcher.RawMatch,
	shared map[string]string, missing map[string]bool) []Record {
	count := recordCount(cfg, pageMatches)
	if count == 0 {
		return nil
	}

	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		if rec, ok := buildRecord(cfg, pageMatches, shared, missing, i); ok {
			records = append(records, rec)
		}
	}
	return records
}

// recordCount determines how many records the page yields: the longest
// extract_all field wins, capped at one when the vendor disables
// multi_match. A page with matches but no extract_all values yields a
// single record.
func recordCount(cfg *vendor.Config, pageMatches map[string][]matcher.RawMatch) int {
	count := 0
	for i := range cfg.Fields {
		rule := &cfg.Fields[i]
		if rule.ExtractAll && len(pageMatches[rule.Key]) > count {
			count = len(pageMatches[rule.Key])
		}
	}
	if count > 1 && !cfg.MultiMatch {
		count = 1
	}
	if count > 0 {
		return count
	}
	for key := range pageMatches {
		if len(pageMatches[key]) > 0 {
			return 1
		}
	}
	return 0
}

// buildRecord assembles the i-th record. A field with no value is omitted
// from the record, never written as an empty string. Records missing a
// required field are not viable and are dropped; the missing keys are
// recorded for the document-level insufficiency report.
func buildRecord(cfg *vendor.Config, pageMatches map[string][]matcher.RawMatch,
	shared map[string]string, missing map[string]bool, i int) (Record, bool) {
	fields := make(map[string]string, len(cfg.Fields))
	padded := false
	viable := true

	for f := range cfg.Fields {
		rule := &cfg.Fields[f]
		value, fromPad := fieldValue(rule, pageMatches[rule.Key], shared, i)
		padded = padded || fromPad

		if value == "" {
			if rule.Required {
				viable = false
				missing[rule.Key] = true
			}
			continue
		}
		fields[rule.Key] = value
	}

	if !viable {
		return Record{}, false
	}
	quality := QualityNormal
	if padded {
		quality = QualityDegraded
	}
	return Record{Fields: fields, Quality: quality}, true
}

// fieldValue resolves one field for the i-th record, reporting whether the
// value came from fallback padding of a short extract_all list.
func fieldValue(rule *vendor.FieldRule, matches []matcher.RawMatch,
	shared map[string]string, i int) (string, bool) {
	if v, ok := shared[rule.Key]; ok {
		return v, false
	}

	if rule.ExtractAll {
		if i < len(matches) {
			return matches[i].Value, false
		}
		if rule.FallbackValue != "" {
			return rule.FallbackValue, true
		}
		return "", false
	}

	if len(matches) > 0 {
		return matches[0].Value, false
	}
	return rule.FallbackValue, false
}
