package extract

// Quality tags how a record was produced.
type Quality string

const (
	// QualityNormal marks records produced by genuine pattern extraction.
	QualityNormal Quality = "NORMAL"
	// QualityDegraded marks records affected by padding or row truncation.
	QualityDegraded Quality = "DEGRADED"
	// QualityFallback marks records substituted from vendor-declared
	// fallback entries.
	QualityFallback Quality = "FALLBACK"
)

// Record is one extracted logical row. It is immutable once emitted;
// ownership passes to the caller. A field with no match is absent from
// Fields, never present as an empty string.
type Record struct {
	Fields     map[string]string `json:"fields"`
	PageNumber int               `json:"page_number"`
	Quality    Quality           `json:"extraction_quality"`
	// Confidence is set when the record was produced via positional
	// alignment; zero otherwise.
	Confidence float64 `json:"confidence,omitempty"`
}

// PageStats describes what happened on a single page.
type PageStats struct {
	PageNumber int    `json:"page_number"`
	Records    int    `json:"records"`
	Strategy   string `json:"strategy,omitempty"`
	Truncated  int    `json:"truncated,omitempty"`
}

// Summary is the yield-and-quality report accompanying the records, kept
// for observability and audit rather than just a verdict.
type Summary struct {
	VendorID       string      `json:"vendor_id"`
	RequiredFields int         `json:"required_fields"`
	MatchedFields  int         `json:"matched_fields"`
	TextLength     int         `json:"text_length"`
	QualityScore   float64     `json:"quality_score"`
	Degraded       bool        `json:"degraded"`
	FallbackUsed   bool        `json:"fallback_used"`
	Truncated      int         `json:"truncated"`
	Ambiguities    int         `json:"ambiguities"`
	PagesProcessed int         `json:"pages_processed"`
	PagesEmpty     int         `json:"pages_empty"`
	Pages          []PageStats `json:"pages,omitempty"`
}

// Result is the complete output of one extraction run.
type Result struct {
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}
