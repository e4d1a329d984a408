// =============================================================================
// Promo Missing Report - Summary and Customer Commands
// =============================================================================
//
// COMMAND USAGE:
//   promoreport summary [--out report.txt]
//   promoreport customer --name <customer> --out <file.pdf>
//
// 'summary' prints the plain-text missing report for every customer.
// 'customer' writes the document of a single customer.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/promo-missing-report/internal/pipeline"
	"github.com/ginjaninja78/promo-missing-report/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// summaryOut is the text report path; empty means stdout.
var summaryOut string

// customerName selects the customer for 'customer'.
var customerName string

// customerOut is the document path for 'customer'.
var customerOut string

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the plain-text missing report",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		runner := pipeline.New(s.cfg, s.logger, s.runID)
		if summaryOut == "" {
			return runner.WriteSummary(cmd.OutOrStdout())
		}
		return writeOutput(summaryOut, runner.WriteSummary)
	},
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Write the missing report document of one customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		runner := pipeline.New(s.cfg, s.logger, s.runID)
		if err := writeOutput(customerOut, func(w io.Writer) error {
			return runner.WriteCustomer(customerName, w)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", customerOut)
		return nil
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(customerCmd)

	summaryCmd.Flags().StringVar(&summaryOut, "out", "", "Write the report to this file instead of stdout")

	customerCmd.Flags().StringVar(&customerName, "name", "", "Customer name as it appears in the export")
	customerCmd.Flags().StringVar(&customerOut, "out", "", "Path of the document to write")
	customerCmd.MarkFlagRequired("name")
	customerCmd.MarkFlagRequired("out")
}

// writeOutput runs write against a temporary file and moves it to path on
// success.
func writeOutput(path string, write func(io.Writer) error) error {
	out, err := utils.CreateOutputFile(path)
	if err != nil {
		return err
	}
	defer out.Abort()

	if err := write(out); err != nil {
		return err
	}
	return out.Commit()
}
