package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/certex/internal/batch"
)

// DefaultVendorsDir is the default location of vendor configuration files.
const DefaultVendorsDir = "vendors"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		VendorsDir: DefaultVendorsDir,
		LogLevel:   "info",
		Verbose:    false,
		Extraction: ExtractionConfig{},
		Output: OutputConfig{
			Format: "text",
		},
		Batch: BatchConfig{
			Workers:         4,
			Recursive:       false,
			ContinueOnError: true,
			ShowStats:       false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "localhost:9090",
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.VendorsDir == "" {
		return fmt.Errorf("vendors_dir must not be empty")
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must not be empty when metrics are enabled")
	}

	return nil
}

// ToBatchConfig converts the config to the batch package's configuration.
func (c *Config) ToBatchConfig() *batch.Config {
	return &batch.Config{
		VendorID:        c.Extraction.Vendor,
		AutoDetect:      c.Extraction.Vendor == "",
		Workers:         c.Batch.Workers,
		Recursive:       c.Batch.Recursive,
		IncludePatterns: c.Batch.IncludePatterns,
		ExcludePatterns: c.Batch.ExcludePatterns,
		Format:          c.Output.Format,
		OutputFile:      c.Output.File,
		ShowStats:       c.Batch.ShowStats,
		ContinueOnError: c.Batch.ContinueOnError,
	}
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
