package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/certex/internal/pdftext"
	"github.com/MeKo-Tech/certex/internal/vendor"
)

// vendorsCmd groups vendor configuration management subcommands.
var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Inspect and validate vendor configurations",
}

var vendorsListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List the loaded vendor configurations",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		vendors, err := vendor.LoadDir(cfg.VendorsDir)
		if err != nil {
			return fmt.Errorf("failed to load vendor configurations: %w", err)
		}
		for _, id := range vendor.SortedIDs(vendors) {
			v := vendors[id]
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d fields, %d detection keywords\n",
				id, len(v.Fields), len(v.Detection))
		}
		return nil
	},
}

var vendorsValidateCmd = &cobra.Command{
	Use:          "validate [dir]",
	Short:        "Validate vendor configuration files",
	Long:         "Validate every vendor configuration file in the given directory (default: the configured vendors dir) and report the first problem per file.",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := GetConfig().VendorsDir
		if len(args) > 0 {
			dir = args[0]
		}
		vendors, err := vendor.LoadDir(dir)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d vendor configuration(s) valid\n", len(vendors))
		return nil
	},
}

var vendorsDetectCmd = &cobra.Command{
	Use:          "detect [file]",
	Short:        "Rank vendors against a document",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		vendors, err := vendor.LoadDir(cfg.VendorsDir)
		if err != nil {
			return fmt.Errorf("failed to load vendor configurations: %w", err)
		}
		doc, err := pdftext.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load document: %w", err)
		}
		for _, res := range vendor.Rank(doc.Text(), vendors) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.3f\n", res.VendorID, res.Confidence)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vendorsCmd)
	vendorsCmd.AddCommand(vendorsListCmd)
	vendorsCmd.AddCommand(vendorsValidateCmd)
	vendorsCmd.AddCommand(vendorsDetectCmd)
}
