// =============================================================================
// Promo Missing Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (promoreport)
//   ├── runCmd      (promoreport run)
//   ├── summaryCmd  (promoreport summary)
//   ├── customerCmd (promoreport customer)
//   ├── validateCmd (promoreport validate)
//   └── versionCmd  (promoreport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading a .env file into the environment
//   3. Building the run configuration and logger for subcommands
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "promoreport",
	Short: "Promo Missing Report - show customers what they still need to buy",

	Long: `Promo Missing Report reads a transaction export and a tiered promotion
definition and reports, per customer, how many times each promotion was
earned and what is still missing to earn it again.

Outputs:
  - A master PDF with every customer
  - A zip archive with one PDF per customer and a detail listing of the
    transactions behind every earned promotion

Example Usage:
  promoreport run                        # Full run using config.yaml
  promoreport run --config ./spring.yaml # Use a custom configuration file
  promoreport summary --out report.txt   # Plain-text report only
  promoreport customer --name Acme --out acme.pdf`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	cobra.OnInitialize(loadEnv)
}

// loadEnv reads .env from the working directory. Variables already set in
// the environment win.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to read .env: %v\n", err)
	}
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// session is what every subcommand needs: configuration, logger and run id.
type session struct {
	cfg    *config.MainConfig
	logger logging.Logger
	runID  string
	close  func()
}

// newSession loads the configuration and builds the logger. The default
// config.yaml may be absent; an explicit --config must exist.
func newSession(cmd *cobra.Command) (*session, error) {
	allowMissing := !cmd.Flags().Changed("config")
	cfg, err := config.LoadMainConfig(cfgFile, allowMissing)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if transactionsFile != "" {
		cfg.TransactionsFile = transactionsFile
	}
	if definitionFile != "" {
		cfg.DefinitionFile = definitionFile
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = logging.LevelDebug
	}

	s := &session{cfg: cfg, runID: uuid.New().String(), close: func() {}}

	sinks := []io.Writer{os.Stderr}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, f)
		s.close = func() { f.Close() }
	}
	s.logger = logging.New(level, s.runID, sinks...)

	return s, nil
}
