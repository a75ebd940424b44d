package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/certex/internal/batch"
	"github.com/MeKo-Tech/certex/internal/config"
	"github.com/MeKo-Tech/certex/internal/metrics"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// batchCmd represents the batch command for parallel document extraction.
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Extract certificate fields from many documents in parallel",
	Long: `Process multiple certificate documents in parallel. Directories are
scanned for supported files (.pdf, .txt); per-document failures are reported
in the output without stopping the run.

Examples:
  certex batch certs/*.pdf
  certex batch certs/ --recursive --workers 8
  certex batch certs/ --vendor posco --format csv --output results.csv
  certex batch certs/ --metrics --metrics-addr localhost:9090`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values through Viper's precedence system.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) *batch.Config {
	batchConfig := cfg.ToBatchConfig()

	if cmd.Flags().Changed("vendor") {
		batchConfig.VendorID, _ = cmd.Flags().GetString("vendor")
		batchConfig.AutoDetect = batchConfig.VendorID == ""
	}
	if cmd.Flags().Changed("workers") {
		batchConfig.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("continue-on-error") {
		batchConfig.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	// File discovery and progress settings are typically CLI-only
	if cmd.Flags().Changed("recursive") {
		batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	}
	if cmd.Flags().Changed("include") {
		batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	}
	if cmd.Flags().Changed("exclude") {
		batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	}
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	if cmd.Flags().Changed("stats") {
		batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")
	}

	return batchConfig
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	batchConfig := configToBatchConfig(cfg, cmd)

	vendors, err := vendor.LoadDir(cfg.VendorsDir)
	if err != nil {
		return fmt.Errorf("failed to load vendor configurations: %w", err)
	}

	serveMetrics := cfg.Metrics.Enabled
	if cmd.Flags().Changed("metrics") {
		serveMetrics, _ = cmd.Flags().GetBool("metrics")
	}
	if serveMetrics {
		addr := cfg.Metrics.Addr
		if cmd.Flags().Changed("metrics-addr") {
			addr, _ = cmd.Flags().GetString("metrics-addr")
		}
		go func() {
			if err := metrics.Serve(addr); err != nil {
				slog.Error("Metrics endpoint failed", "addr", addr, "error", err)
			}
		}()
	}

	if !batchConfig.Quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Processing %d path(s)...\n", len(args))
	}

	result, err := batch.ProcessBatch(args, vendors, batchConfig)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err := result.SaveResults(batchConfig.Format, batchConfig.OutputFile, batchConfig.Quiet); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	if batchConfig.ShowStats {
		result.PrintStats(batchConfig.Quiet)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Extraction flags
	batchCmd.Flags().String("vendor", "", "vendor ID for all documents (default: auto-detect per document)")

	// Output flags
	batchCmd.Flags().StringP("format", "f", "text", "output format: text, json, csv")
	batchCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	// Parallel processing flags
	batchCmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("number of parallel workers (default: %d)", runtime.NumCPU()))
	batchCmd.Flags().Bool("continue-on-error", true, "keep processing after per-document failures")

	// File discovery flags
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().StringSlice("include", []string{}, "file patterns to include (default: all supported)")
	batchCmd.Flags().StringSlice("exclude", []string{}, "file patterns to exclude")

	// Progress and monitoring flags
	batchCmd.Flags().Bool("quiet", false, "suppress progress output")
	batchCmd.Flags().Bool("stats", false, "show processing statistics")
	batchCmd.Flags().Bool("metrics", false, "expose Prometheus metrics during the run")
	batchCmd.Flags().String("metrics-addr", "localhost:9090", "metrics listen address")
}
