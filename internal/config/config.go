// =============================================================================
// Promo Missing Report - Configuration Module
// =============================================================================
//
// This module is responsible for loading the run configuration: where the
// transaction export and promotion definition live, where the reports go,
// how the export is laid out and what page the documents are drawn on.
//
// CONFIGURATION SOURCES (later wins):
//   1. Built-in defaults
//   2. config.yaml
//   3. Environment (PROMO_* variables, optionally from a .env file)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvTransactions  = "PROMO_TRANSACTIONS"
	EnvDefinition    = "PROMO_DEFINITION"
	EnvMasterOutput  = "PROMO_MASTER_OUTPUT"
	EnvArchiveOutput = "PROMO_ARCHIVE_OUTPUT"
	EnvLogLevel      = "PROMO_LOG_LEVEL"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the run configuration.
type MainConfig struct {
	// =========================================================================
	// INPUTS
	// =========================================================================

	// TransactionsFile is the transaction export, .csv or .xlsx.
	TransactionsFile string `yaml:"transactions_file"`

	// DefinitionFile is the promotion definition (JSON).
	DefinitionFile string `yaml:"definition_file"`

	// XLSXSheet selects the worksheet of an .xlsx export.
	// Default: the first sheet
	XLSXSheet string `yaml:"xlsx_sheet"`

	// CSVSettings describes the layout of a .csv export.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// Columns maps transaction fields to zero-based column indices.
	Columns Columns `yaml:"columns"`

	// Normalization rules are applied to matching columns before rows are
	// matched against part numbers.
	Normalization []TransformationRule `yaml:"normalization"`

	// ShipDateLayouts are Go time layouts tried when sorting detail rows.
	// Default: "1/2/2006", "2006-01-02", "01/02/2006"
	ShipDateLayouts []string `yaml:"ship_date_layouts"`

	// =========================================================================
	// OUTPUTS
	// =========================================================================

	// MasterOutput is the batch document with every customer.
	// Default: "Missing Report.pdf"
	MasterOutput string `yaml:"master_output"`

	// ArchiveOutput is the zip of per-customer and detail documents.
	// Default: "promo.zip"
	ArchiveOutput string `yaml:"archive_output"`

	// SummaryDir receives one run summary log per run. Empty disables it.
	SummaryDir string `yaml:"summary_dir"`

	// Page is the page geometry of every document.
	Page PageSettings `yaml:"page"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile, when set, receives a copy of every log line.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows in the export.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the row number where the data begins, starting at 1.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`
}

// Columns holds the zero-based column index of each transaction field.
// A block left out entirely gets the default 0..6 layout.
type Columns struct {
	ShipDate     int `yaml:"ship_date"`
	CustomerName int `yaml:"customer_name"`
	OrderNumber  int `yaml:"order_number"`
	Quantity     int `yaml:"quantity"`
	PartNumber   int `yaml:"part_number"`
	Description  int `yaml:"description"`
	SalePrice    int `yaml:"sale_price"`
}

// DefaultColumns is the export layout of the reporting system.
func DefaultColumns() Columns {
	return Columns{ShipDate: 0, CustomerName: 1, OrderNumber: 2, Quantity: 3, PartNumber: 4, Description: 5, SalePrice: 6}
}

// Max is the highest index in use; rows must be at least this wide.
func (c Columns) Max() int {
	return max(c.ShipDate, c.CustomerName, c.OrderNumber, c.Quantity, c.PartNumber, c.Description, c.SalePrice)
}

// ByName maps the field names used by normalization rules to indices.
func (c Columns) ByName() map[string]int {
	return map[string]int{
		"ship_date":     c.ShipDate,
		"customer_name": c.CustomerName,
		"order_number":  c.OrderNumber,
		"quantity":      c.Quantity,
		"part_number":   c.PartNumber,
		"description":   c.Description,
		"sale_price":    c.SalePrice,
	}
}

// PageSettings is the document page in inches.
type PageSettings struct {
	WidthIn      float64 `yaml:"width_in"`
	HeightIn     float64 `yaml:"height_in"`
	DPI          float64 `yaml:"dpi"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
	MarginSide   float64 `yaml:"margin_side"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines transformations applied to one column.
type TransformationRule struct {
	// Field is a column name as used under "columns", e.g. "part_number".
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "prepend_string"      : Add a string to the beginning of the value
	//   - "append_string"       : Add a string to the end of the value
	//   - "pad_zeros_to_length" : Pad with leading zeros to a specific length
	//   - "uppercase"           : Convert to uppercase
	//   - "lowercase"           : Convert to lowercase
	//   - "trim"                : Remove leading and trailing whitespace
	//   - "replace"             : Replace a substring with another
	//   - "regex_replace"       : Replace using a regular expression
	//   - "lookup"              : Replace value using a lookup table
	Type string `yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `yaml:"value"`

	// Find is used for "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable is used for "lookup".
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file, applies defaults
// and environment overrides, and validates the result.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is not
//     an error when allowMissing is set; defaults and environment are used.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, allowMissing bool) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case allowMissing && errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyMainConfigDefaults(&config)
	applyEnvOverrides(&config, os.Getenv)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.MasterOutput == "" {
		config.MasterOutput = "Missing Report.pdf"
	}
	if config.ArchiveOutput == "" {
		config.ArchiveOutput = "promo.zip"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if len(config.ShipDateLayouts) == 0 {
		config.ShipDateLayouts = []string{"1/2/2006", "2006-01-02", "01/02/2006"}
	}
	if config.Columns == (Columns{}) {
		config.Columns = DefaultColumns()
	}

	// CSV settings defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.HeaderRows == 0 {
		config.CSVSettings.HeaderRows = 1
	}
	if config.CSVSettings.DataStartRow == 0 {
		config.CSVSettings.DataStartRow = config.CSVSettings.HeaderRows + 1
	}

	// Page defaults: US letter portrait, quarter-inch margins.
	p := &config.Page
	if p.WidthIn == 0 {
		p.WidthIn = 8.5
	}
	if p.HeightIn == 0 {
		p.HeightIn = 11
	}
	if p.DPI == 0 {
		p.DPI = 72
	}
	if p.MarginTop == 0 {
		p.MarginTop = 0.25
	}
	if p.MarginBottom == 0 {
		p.MarginBottom = 0.25
	}
	if p.MarginSide == 0 {
		p.MarginSide = 0.25
	}
}

// applyEnvOverrides replaces settings with non-empty PROMO_* variables.
func applyEnvOverrides(config *MainConfig, getenv func(string) string) {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvTransactions, &config.TransactionsFile},
		{EnvDefinition, &config.DefinitionFile},
		{EnvMasterOutput, &config.MasterOutput},
		{EnvArchiveOutput, &config.ArchiveOutput},
		{EnvLogLevel, &config.LogLevel},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(getenv(o.key)); v != "" {
			*o.target = v
		}
	}
}

// validateMainConfig validates the configuration and creates output
// directories that do not exist yet.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", config.LogLevel)
	}

	if config.CSVSettings.HeaderRows < 0 {
		return fmt.Errorf("csv_settings.header_rows must not be negative")
	}
	if config.CSVSettings.DataStartRow <= config.CSVSettings.HeaderRows {
		return fmt.Errorf("csv_settings.data_start_row (%d) must come after the header rows (%d)",
			config.CSVSettings.DataStartRow, config.CSVSettings.HeaderRows)
	}

	seen := map[int]string{}
	for name, idx := range config.Columns.ByName() {
		if idx < 0 {
			return fmt.Errorf("columns.%s must not be negative", name)
		}
		if other, ok := seen[idx]; ok {
			return fmt.Errorf("columns.%s and columns.%s both use column %d", name, other, idx)
		}
		seen[idx] = name
	}

	fields := config.Columns.ByName()
	for _, rule := range config.Normalization {
		if _, ok := fields[rule.Field]; !ok {
			return fmt.Errorf("normalization field %q is not a known column", rule.Field)
		}
	}

	p := config.Page
	if p.WidthIn <= 0 || p.HeightIn <= 0 || p.DPI <= 0 {
		return fmt.Errorf("page size and dpi must be positive")
	}
	if 2*p.MarginSide >= p.WidthIn || p.MarginTop+p.MarginBottom >= p.HeightIn {
		return fmt.Errorf("page margins leave no printable area")
	}

	// Create output directories if they don't exist.
	dirs := []string{filepath.Dir(config.MasterOutput), filepath.Dir(config.ArchiveOutput)}
	if config.SummaryDir != "" {
		dirs = append(dirs, config.SummaryDir)
	}
	if config.LogFile != "" {
		dirs = append(dirs, filepath.Dir(config.LogFile))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// RequireInputs reports a missing input path.
func (c *MainConfig) RequireInputs() error {
	if c.TransactionsFile == "" {
		return fmt.Errorf("no transactions file configured (transactions_file or %s)", EnvTransactions)
	}
	if c.DefinitionFile == "" {
		return fmt.Errorf("no promotion definition configured (definition_file or %s)", EnvDefinition)
	}
	return nil
}
