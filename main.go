// =============================================================================
// Promo Missing Report - Main Entry Point
// =============================================================================
//
// USAGE:
//   promoreport run        - Generate the master document and the archive
//   promoreport summary    - Print the plain-text missing report
//   promoreport customer   - Write one customer's document
//   promoreport validate   - Check configuration and inputs
//   promoreport version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (promotion model, layout, PDF, archive)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/promo-missing-report/cmd"
)

func main() {
	cmd.Execute()
}
