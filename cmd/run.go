// =============================================================================
// Promo Missing Report - Run Command
// =============================================================================
//
// This file defines the 'run' command, the main command. It executes the
// full pipeline and prints a summary.
//
// COMMAND USAGE:
//   promoreport run [flags]
//
// FLAGS:
//   --transactions : Override the transaction export path
//   --definition   : Override the promotion definition path
//
// OUTPUTS:
//   - master_output  : batch document with every customer
//   - archive_output : per-customer and detail documents
//   - summary_dir    : run summary log (when configured)
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/promo-missing-report/internal/pipeline"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// transactionsFile overrides transactions_file.
var transactionsFile string

// definitionFile overrides definition_file.
var definitionFile string

// =============================================================================
// RUN COMMAND DEFINITION
// =============================================================================

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the master document and the archive",
	Long: `The run command reads the transaction export and the promotion definition,
then writes:
  - The master document with every customer (master_output)
  - A zip archive with one document per customer and one detail listing per
    earned promotion (archive_output)

Any problem with the input files stops the run before a document is written.
A document that cannot be rendered is reported and stops the run; neither
output is replaced.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(runCmd)

	// Input overrides are shared with the other commands that read inputs.
	for _, c := range []*cobra.Command{runCmd, summaryCmd, customerCmd, validateCmd} {
		c.Flags().StringVar(
			&transactionsFile,
			"transactions",
			"",
			"Path to the transaction export (.csv or .xlsx)",
		)
		c.Flags().StringVar(
			&definitionFile,
			"definition",
			"",
			"Path to the promotion definition (.json)",
		)
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runPipeline(cmd *cobra.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Promo Missing Report ===")
	fmt.Fprintf(out, "Run ID: %s\n", s.runID)

	result := pipeline.New(s.cfg, s.logger, s.runID).Run()
	if n := len(result.Stats.Failed); n > 0 {
		fmt.Fprintf(out, "\nFailed documents: %d\n", n)
		for _, f := range result.Stats.Failed {
			fmt.Fprintf(out, "  ✗ %s: %v\n", f.Name, f.Err)
		}
	}
	if result.Error != nil {
		return result.Error
	}

	// =========================================================================
	// PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Run Complete ===")
	fmt.Fprintf(out, "Customers:         %d\n", result.Stats.Customers)
	fmt.Fprintf(out, "Qualified promos:  %d\n", result.Stats.QualifiedPromos)
	fmt.Fprintf(out, "Archive entries:   %d\n", result.Stats.ArchiveEntries)
	fmt.Fprintf(out, "Time elapsed:      %s\n", result.Stats.ProcessingTime)
	fmt.Fprintf(out, "Master document:   %s\n", filepath.Clean(result.MasterFile))
	fmt.Fprintf(out, "Archive:           %s\n", filepath.Clean(result.ArchiveFile))
	if result.SummaryFile != "" {
		fmt.Fprintf(out, "Summary log:       %s\n", result.SummaryFile)
	}

	return nil
}
