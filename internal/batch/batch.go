// Package batch provides parallel extraction over many certificate
// documents: discovery, a bounded worker pool, and result formatting.
package batch

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/MeKo-Tech/certex/internal/vendor"
)

// ProcessBatch discovers documents under the given paths and extracts each
// against the configured vendors.
func ProcessBatch(paths []string, vendors map[string]*vendor.Config, config *Config) (*Result, error) {
	if len(vendors) == 0 {
		return nil, errors.New("no vendor configurations loaded")
	}
	if config.VendorID != "" {
		if _, ok := vendors[config.VendorID]; !ok {
			return nil, fmt.Errorf("unknown vendor: %s", config.VendorID)
		}
	}

	files, err := discoverDocumentFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover document files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no document files found")
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	engs := newEngines(vendors)

	startTime := time.Now()
	results, err := processDocumentsParallel(files, engs, config)
	duration := time.Since(startTime)
	if err != nil {
		return nil, err
	}

	return &Result{
		Documents:   results,
		Duration:    duration,
		WorkerCount: config.Workers,
	}, nil
}
