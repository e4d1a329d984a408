// =============================================================================
// Promo Missing Report - Validation Engine
// =============================================================================
//
// This module validates the run inputs before any document is built:
//   1. Definition-level: every section, part and item of the promotion
//   2. Row-level: every transaction row of the export
//
// ERROR HANDLING:
//   - Errors are collected, not returned on the first failure
//   - Each error includes context (section/part/item or row, field, value)
//   - Errors are either fatal ("error") or informational ("warning")
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
	"github.com/ginjaninja78/promo-missing-report/internal/types"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation error.
type ValidationError struct {
	// Severity indicates the severity of the error.
	// "error" = fatal, the run stops before any document is built
	// "warning" = non-fatal, the run continues
	Severity string

	// Location says where the problem is, e.g. "section 1, part 2, item 1"
	// or "row 14".
	Location string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Location,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all validation errors (including warnings).
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// ItemsValidated is the number of definition items checked.
	ItemsValidated int

	// RowsValidated is the number of transaction rows checked.
	RowsValidated int
}

func newResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

func (r *ValidationResult) add(severity, location, field, value, format string, args ...interface{}) {
	r.Errors = append(r.Errors, &ValidationError{
		Severity: severity,
		Location: location,
		Field:    field,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	})
	if severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// Merge folds other into r.
func (r *ValidationResult) Merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.ErrorCount += other.ErrorCount
	r.WarningCount += other.WarningCount
	r.ItemsValidated += other.ItemsValidated
	r.RowsValidated += other.RowsValidated
	r.IsValid = r.IsValid && other.IsValid
}

// =============================================================================
// DEFINITION VALIDATION
// =============================================================================

// ValidateDefinition checks the structure of a promotion definition.
//
// RULES:
//   - at least one section; every section has parts; every part has items
//   - the part type parses ("and", "or", "none", "any:N" with N >= 1)
//   - qty_needed > 0
//   - every item has at least one non-empty part number
//   - a part number listed twice in one item is a warning
func ValidateDefinition(def *types.Definition) *ValidationResult {
	result := newResult()

	if len(def.Sections) == 0 {
		result.add(SeverityError, "definition", "sections", "", "definition has no sections")
	}

	for s, section := range def.Sections {
		sectionLoc := fmt.Sprintf("section %d", s+1)
		if len(section.Parts) == 0 {
			result.add(SeverityError, sectionLoc, "parts", "", "section has no parts")
		}

		for p, part := range section.Parts {
			partLoc := fmt.Sprintf("%s, part %d", sectionLoc, p+1)

			join, err := promo.ParseAndOrType(part.Type)
			if err != nil {
				result.add(SeverityError, partLoc, "type", part.Type, "%v", err)
			} else if join.Kind == promo.JoinAny && join.N < 1 {
				result.add(SeverityError, partLoc, "type", part.Type, "any count must be at least 1")
			}
			if len(part.Items) == 0 {
				result.add(SeverityError, partLoc, "items", "", "part has no items")
			}

			for i, item := range part.Items {
				result.ItemsValidated++
				itemLoc := fmt.Sprintf("%s, item %d", partLoc, i+1)

				if item.QtyNeeded <= 0 {
					result.add(SeverityError, itemLoc, "qty_needed", fmt.Sprint(item.QtyNeeded), "quantity needed must be positive")
				}
				if len(item.PartNumbers) == 0 {
					result.add(SeverityError, itemLoc, "part_numbers", "", "item lists no part numbers")
				}
				seen := map[string]bool{}
				for _, pn := range item.PartNumbers {
					if strings.TrimSpace(pn) == "" {
						result.add(SeverityError, itemLoc, "part_numbers", pn, "empty part number")
						continue
					}
					if seen[pn] {
						result.add(SeverityWarning, itemLoc, "part_numbers", pn, "part number listed twice")
					}
					seen[pn] = true
				}
			}
		}
	}

	return result
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

// ValidateRows checks every transaction row against the column layout.
//
// RULES:
//   - the row is wide enough for the customer, quantity and part number
//     columns (error)
//   - customer and part number are present (error)
//   - the quantity is a number (error)
//   - a missing ship date is a warning
func ValidateRows(sheet *types.Sheet, columns config.Columns) *ValidationResult {
	result := newResult()
	required := max(columns.CustomerName, columns.Quantity, columns.PartNumber)

	for _, row := range sheet.Rows {
		result.RowsValidated++
		loc := fmt.Sprintf("row %d", row.Number)

		if len(row.Cells) <= required {
			result.add(SeverityError, loc, "row", strings.Join(row.Cells, ","),
				"row has %d columns, at least %d needed", len(row.Cells), required+1)
			continue
		}

		if row.Cell(columns.CustomerName) == "" {
			result.add(SeverityError, loc, "customer_name", "", "customer name is empty")
		}
		if row.Cell(columns.PartNumber) == "" {
			result.add(SeverityError, loc, "part_number", "", "part number is empty")
		}
		if qty := row.Cell(columns.Quantity); !isQuantity(qty) {
			result.add(SeverityError, loc, "quantity", qty, "quantity is not a number")
		}
		if row.Cell(columns.ShipDate) == "" {
			result.add(SeverityWarning, loc, "ship_date", "", "ship date is empty")
		}
	}

	return result
}

// ParseQuantity parses an exported quantity, ignoring thousands separators.
func ParseQuantity(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

func isQuantity(s string) bool {
	_, err := ParseQuantity(s)
	return err == nil
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats validation errors for display, errors before
// warnings.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var sb strings.Builder
	for _, severity := range []string{SeverityError, SeverityWarning} {
		for _, e := range errors {
			if e.Severity == severity {
				sb.WriteString(e.Error())
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// WriteErrorLog writes validation errors to a file.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	if err := os.WriteFile(filePath, []byte(FormatErrors(errors)), 0644); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
