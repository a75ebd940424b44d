// Package metrics exposes Prometheus counters and histograms for the
// extraction pipeline, plus an optional HTTP endpoint for scraping them
// during batch runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Document-level extraction metrics
	documentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certex_documents_total",
			Help: "Total number of documents processed",
		},
		[]string{"vendor", "outcome"}, // outcome: ok, insufficient, error
	)

	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certex_extraction_duration_seconds",
			Help:    "Per-document extraction duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"vendor"},
	)

	documentTextLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certex_document_text_length",
			Help:    "Length of extracted document text in characters",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"vendor"},
	)

	// Record-level metrics
	recordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certex_records_total",
			Help: "Total number of extracted records",
		},
		[]string{"vendor", "quality"}, // quality: NORMAL, DEGRADED, FALLBACK
	)

	fallbackActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certex_fallback_activations_total",
			Help: "Total number of documents resolved through vendor fallback entries",
		},
		[]string{"vendor"},
	)

	truncatedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certex_truncated_rows_total",
			Help: "Total number of aligned rows dropped by the per-page cap",
		},
		[]string{"vendor"},
	)

	qualityScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certex_quality_score",
			Help:    "Extraction quality score per document",
			Buckets: []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1},
		},
		[]string{"vendor"},
	)
)

// ObserveDocument records the outcome and timing of one document extraction.
func ObserveDocument(vendorID, outcome string, textLength int, score float64, duration time.Duration) {
	documentsTotal.WithLabelValues(vendorID, outcome).Inc()
	extractionDuration.WithLabelValues(vendorID).Observe(duration.Seconds())
	documentTextLength.WithLabelValues(vendorID).Observe(float64(textLength))
	qualityScore.WithLabelValues(vendorID).Observe(score)
}

// ObserveRecord counts one extracted record by quality tag.
func ObserveRecord(vendorID, quality string) {
	recordsTotal.WithLabelValues(vendorID, quality).Inc()
}

// ObserveFallback counts a document resolved through fallback entries.
func ObserveFallback(vendorID string) {
	fallbackActivations.WithLabelValues(vendorID).Inc()
}

// ObserveTruncation counts rows dropped by the per-page extraction cap.
func ObserveTruncation(vendorID string, rows int) {
	if rows > 0 {
		truncatedRows.WithLabelValues(vendorID).Add(float64(rows))
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr. It blocks; run it in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
