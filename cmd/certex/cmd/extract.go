package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/certex/internal/batch"
	"github.com/MeKo-Tech/certex/internal/common"
	"github.com/MeKo-Tech/certex/internal/extract"
	"github.com/MeKo-Tech/certex/internal/pdftext"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// extractCmd represents the extract command for single-document extraction.
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract certificate fields from a single document",
	Long: `Extract structured fields from one mill test certificate using the
vendor's pattern configuration. The vendor is auto-detected from the document
content unless --vendor names one explicitly.

Supported inputs: PDF files with vector text, pre-extracted .txt files
(form feeds mark page boundaries).

Examples:
  certex extract cert.pdf
  certex extract cert.pdf --vendor posco --format json
  certex extract cert.txt --vendor posco --output result.json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runExtractCommand,
}

func runExtractCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	vendors, err := vendor.LoadDir(cfg.VendorsDir)
	if err != nil {
		return fmt.Errorf("failed to load vendor configurations: %w", err)
	}
	if len(vendors) == 0 {
		return fmt.Errorf("no vendor configurations found in %s", cfg.VendorsDir)
	}

	vendorID := cfg.Extraction.Vendor
	if cmd.Flags().Changed("vendor") {
		vendorID, _ = cmd.Flags().GetString("vendor")
	}

	doc, err := pdftext.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	if vendorID == "" {
		match := vendor.Detect(doc.Text(), vendors)
		if match.VendorID == "" {
			return errors.New("could not identify vendor; pass --vendor explicitly")
		}
		vendorID = match.VendorID
	}
	vcfg, ok := vendors[vendorID]
	if !ok {
		return fmt.Errorf("unknown vendor: %s", vendorID)
	}

	timer := common.NewNamedTimer(args[0])
	result, extractErr := extract.New(vcfg).Extract(doc)
	duration := timer.Stop()

	// An insufficiency error still carries a result worth printing.
	docResult := batch.DocumentResult{
		Source:   args[0],
		VendorID: vendorID,
		Result:   result,
		Err:      extractErr,
		Duration: duration,
	}
	batchResult := &batch.Result{Documents: []batch.DocumentResult{docResult}, Duration: duration, WorkerCount: 1}

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	outputFile := cfg.Output.File
	if cmd.Flags().Changed("output") {
		outputFile, _ = cmd.Flags().GetString("output")
	}

	if err := batchResult.SaveResults(format, outputFile, false); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	var insufficient *extract.InsufficientExtractionError
	if errors.As(extractErr, &insufficient) {
		return fmt.Errorf("extraction incomplete: %w", extractErr)
	}
	return extractErr
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("vendor", "", "vendor ID (default: auto-detect from document content)")
	extractCmd.Flags().StringP("format", "f", "text", "output format: text, json, csv")
	extractCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}
