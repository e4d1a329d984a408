// =============================================================================
// Promo Missing Report - Shared Types
// =============================================================================
//
// This package contains types shared by the export readers and the data
// source, so that neither reader depends on the other:
//   - csvparser
//   - xlsxparser
//   - source
//
// =============================================================================

package types

// =============================================================================
// SHEET TYPES
// =============================================================================

// Sheet is a transaction export read into memory, independent of its file
// format. Rows are addressed by column index, not by header name.
type Sheet struct {
	// SourceFile is the path the sheet was read from.
	SourceFile string

	// Headers contains the merged header row. It may be empty.
	Headers []string

	// Rows contains the data rows with blank rows already removed.
	Rows []Row
}

// Row is one data row of a Sheet.
type Row struct {
	// Number is the 1-based row number in the source file.
	// Useful for error reporting.
	Number int

	// Cells are the trimmed cell values. Short rows are not padded.
	Cells []string
}

// Cell returns the value at index i, or "" past the end of the row.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// =============================================================================
// PROMOTION DEFINITION TYPES
// =============================================================================

// Definition is the promotion definition file as decoded from JSON.
//
//	{"name": "Spring", "sections": [
//	  {"parts": [{"type": "or", "items": [{"qty_needed": 6, "part_numbers": ["A", "B"]}]}]}
//	]}
type Definition struct {
	Name     string              `json:"name"`
	Sections []SectionDefinition `json:"sections"`
}

// SectionDefinition is one qualification tier.
type SectionDefinition struct {
	Parts []PartDefinition `json:"parts"`
}

// PartDefinition is one requirement line group. Type is "and", "or",
// "none" or "any:N"; empty means "and".
type PartDefinition struct {
	Type  string           `json:"type"`
	Items []ItemDefinition `json:"items"`
}

// ItemDefinition is one set of interchangeable part numbers.
type ItemDefinition struct {
	QtyNeeded   int64    `json:"qty_needed"`
	PartNumbers []string `json:"part_numbers"`
}
