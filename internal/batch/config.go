package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/MeKo-Tech/certex/internal/extract"
)

// Config holds all configuration for batch extraction.
type Config struct {
	// Vendor selection
	VendorID   string // fixed vendor; empty means auto-detect per document
	AutoDetect bool

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output settings
	Format     string
	OutputFile string
	Quiet      bool
	ShowStats  bool

	// Error handling
	ContinueOnError bool
}

// DocumentResult holds the outcome for one input document.
type DocumentResult struct {
	Source   string
	VendorID string
	Result   *extract.Result
	Err      error
	Duration time.Duration
}

// Result holds the result of a batch run.
type Result struct {
	Documents   []DocumentResult
	Duration    time.Duration
	WorkerCount int
}

// Failed counts documents that produced an error.
func (r *Result) Failed() int {
	n := 0
	for i := range r.Documents {
		if r.Documents[i].Err != nil {
			n++
		}
	}
	return n
}

// FormatResults formats the batch results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Documents, format)
}

// SaveResults saves the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}

	records, fallbacks := 0, 0
	for i := range r.Documents {
		if res := r.Documents[i].Result; res != nil {
			records += len(res.Records)
			if res.Summary.FallbackUsed {
				fallbacks++
			}
		}
	}

	avg := time.Duration(0)
	if len(r.Documents) > 0 {
		avg = r.Duration / time.Duration(len(r.Documents))
	}

	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total documents: %d\n", len(r.Documents))
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", r.Failed())
	_, _ = fmt.Fprintf(os.Stdout, "  Records extracted: %d\n", records)
	_, _ = fmt.Fprintf(os.Stdout, "  Fallback documents: %d\n", fallbacks)
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Avg per document: %v\n", avg.Round(time.Millisecond))
	if r.Duration > 0 {
		throughput := float64(len(r.Documents)) / r.Duration.Seconds()
		_, _ = fmt.Fprintf(os.Stdout, "  Throughput: %.1f documents/sec\n", throughput)
	}
}
