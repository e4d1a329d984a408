// =============================================================================
// Promo Missing Report - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// and both input files without writing any document.
//
// COMMAND USAGE:
//   promoreport validate [--error-log errors.log]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/promo-missing-report/internal/source"
	"github.com/ginjaninja78/promo-missing-report/internal/validation"
)

// errorLog receives the full list of validation findings when set.
var errorLog string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and input files",
	Long: `The validate command loads the configuration, reads the promotion
definition and the transaction export, applies the normalization rules and
reports every problem found. No document is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		in, err := source.LoadInputs(s.cfg, s.logger)
		if err != nil {
			return err
		}
		result := in.Validation

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== Validation ===")
		fmt.Fprintf(out, "Definition items:  %d\n", result.ItemsValidated)
		fmt.Fprintf(out, "Transaction rows:  %d\n", result.RowsValidated)
		fmt.Fprintf(out, "Errors:            %d\n", result.ErrorCount)
		fmt.Fprintf(out, "Warnings:          %d\n", result.WarningCount)
		if len(result.Errors) > 0 {
			fmt.Fprintln(out)
			fmt.Fprint(out, validation.FormatErrors(result.Errors))
		}

		if errorLog != "" && len(result.Errors) > 0 {
			if err := validation.WriteErrorLog(result.Errors, errorLog); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nFindings written to %s\n", errorLog)
		}

		if !result.IsValid {
			return fmt.Errorf("%w: %d validation errors", source.ErrMalformedSource, result.ErrorCount)
		}
		fmt.Fprintln(out, "\nInputs are valid.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&errorLog, "error-log", "", "Write every finding to this file")
}
