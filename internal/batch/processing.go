package batch

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/certex/internal/common"
	"github.com/MeKo-Tech/certex/internal/document"
	"github.com/MeKo-Tech/certex/internal/extract"
	"github.com/MeKo-Tech/certex/internal/metrics"
	"github.com/MeKo-Tech/certex/internal/pdftext"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// engines lazily builds one extraction engine per vendor and shares it
// across workers. Engines are read-only after construction.
type engines struct {
	mu      sync.Mutex
	vendors map[string]*vendor.Config
	built   map[string]*extract.Engine
}

func newEngines(vendors map[string]*vendor.Config) *engines {
	return &engines{
		vendors: vendors,
		built:   make(map[string]*extract.Engine, len(vendors)),
	}
}

func (e *engines) get(vendorID string) (*extract.Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if eng, ok := e.built[vendorID]; ok {
		return eng, nil
	}
	cfg, ok := e.vendors[vendorID]
	if !ok {
		return nil, fmt.Errorf("unknown vendor: %s", vendorID)
	}
	eng := extract.New(cfg)
	e.built[vendorID] = eng
	return eng, nil
}

// processSingleDocument loads one document, resolves its vendor, and runs
// the extraction engine.
func processSingleDocument(path string, engs *engines, config *Config) DocumentResult {
	timer := common.NewNamedTimer(path)
	out := DocumentResult{Source: path}

	doc, err := pdftext.Load(path)
	if err != nil {
		out.Err = fmt.Errorf("failed to load %s: %w", path, err)
		out.Duration = timer.Stop()
		return out
	}

	vendorID := config.VendorID
	if vendorID == "" {
		vendorID, err = detectVendor(doc, engs.vendors)
		if err != nil {
			out.Err = fmt.Errorf("vendor detection failed for %s: %w", path, err)
			out.Duration = timer.Stop()
			metrics.ObserveDocument("unknown", "error", doc.TextLength(), 0, timer.Duration())
			return out
		}
	}
	out.VendorID = vendorID

	eng, err := engs.get(vendorID)
	if err != nil {
		out.Err = err
		out.Duration = timer.Stop()
		return out
	}

	result, err := eng.Extract(doc)
	out.Result = result
	out.Err = err
	out.Duration = timer.Stop()

	observe(&out)
	return out
}

// detectVendor ranks configured vendors against the document text.
func detectVendor(doc *document.Document, vendors map[string]*vendor.Config) (string, error) {
	match := vendor.Detect(doc.Text(), vendors)
	if match.VendorID == "" {
		return "", fmt.Errorf("no vendor matched with sufficient confidence")
	}
	return match.VendorID, nil
}

// observe feeds one document outcome into the Prometheus metrics.
func observe(dr *DocumentResult) {
	outcome := "ok"
	switch {
	case dr.Err != nil && dr.Result == nil:
		outcome = "error"
	case dr.Err != nil:
		outcome = "insufficient"
	}

	textLength, score := 0, 0.0
	if dr.Result != nil {
		textLength = dr.Result.Summary.TextLength
		score = dr.Result.Summary.QualityScore
		for i := range dr.Result.Records {
			metrics.ObserveRecord(dr.VendorID, string(dr.Result.Records[i].Quality))
		}
		if dr.Result.Summary.FallbackUsed {
			metrics.ObserveFallback(dr.VendorID)
		}
		metrics.ObserveTruncation(dr.VendorID, dr.Result.Summary.Truncated)
	}
	metrics.ObserveDocument(dr.VendorID, outcome, textLength, score, dr.Duration)
}

// processDocumentsParallel runs extraction across a bounded worker pool.
// Each document's failure is recorded in its result; a failure never stops
// the pool unless ContinueOnError is off.
func processDocumentsParallel(paths []string, engs *engines, config *Config) ([]DocumentResult, error) {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]DocumentResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = processSingleDocument(paths[i], engs, config)
				if results[i].Err != nil {
					slog.Warn("Document processing failed",
						"file", paths[i], "error", results[i].Err)
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if !config.ContinueOnError {
		for i := range results {
			if results[i].Err != nil {
				return results, fmt.Errorf("batch processing failed: %w", results[i].Err)
			}
		}
	}
	return results, nil
}
