package extract

import (
	"log/slog"

	"github.com/MeKo-Tech/certex/internal/vendor"
)

// resolveFallback substitutes vendor-declared fallback entries for records
// the document failed to yield. Entries are applied in declared order, one
// per missing record, cycling when the declared count exceeds the entry list
// and truncating when below. With fallback disabled, or nothing missing, it
// returns nil: the engine never fabricates records the vendor did not
// declare.
func resolveFallback(cfg *vendor.Config, existing int) []Record {
	fb := &cfg.Fallback
	if !fb.Enabled || len(fb.Entries) == 0 {
		return nil
	}

	missing := cfg.FallbackCount() - existing
	if missing <= 0 {
		return nil
	}

	records := make([]Record, 0, missing)
	for i := 0; i < missing; i++ {
		entry := fb.Entries[i%len(fb.Entries)]
		fields := make(map[string]string, len(entry))
		for key, value := range entry {
			fields[key] = value
		}
		records = append(records, Record{
			Fields:     fields,
			PageNumber: 1,
			Quality:    QualityFallback,
		})
	}
	slog.Info("Substituted fallback entries for missing records",
		"vendor", cfg.VendorID, "count", len(records))
	return records
}
