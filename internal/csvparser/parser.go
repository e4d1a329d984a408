// =============================================================================
// Promo Missing Report - CSV Parser Module
// =============================================================================
//
// This module reads transaction exports saved as CSV. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Multi-line headers
//   - Custom data start rows
//   - Quoted fields and ragged rows
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a Sheet.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - The parsed sheet.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*types.Sheet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	sheet, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	sheet.SourceFile = filePath
	return sheet, nil
}

// ParseReader reads CSV data from r into a Sheet.
//
// PARSING PROCESS:
//  1. Configure the CSV reader with the configured delimiter
//  2. Read and merge header rows (for multi-line headers)
//  3. Keep the non-empty rows starting at the configured data start row
func ParseReader(r io.Reader, settings config.CSVSettings) (*types.Sheet, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers, err := extractHeaders(allRows, settings.HeaderRows)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	return &types.Sheet{
		Headers: headers,
		Rows:    ExtractDataRows(allRows, settings.DataStartRow, settings.HeaderRows),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports are not always rectangular.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders merges the first headerRows rows into one header row.
//
// MULTI-LINE HEADER HANDLING:
//
//	Row 1: "Ship", "", "Part", ""
//	Row 2: "Date", "Customer", "Number", "Qty"
//	Result: "Ship Date", "Customer", "Part Number", "Qty"
func extractHeaders(allRows [][]string, headerRows int) ([]string, error) {
	if headerRows <= 0 {
		return nil, nil
	}

	if len(allRows) < headerRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	maxCols := 0
	for i := 0; i < headerRows; i++ {
		maxCols = max(maxCols, len(allRows[i]))
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < headerRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims header values and names empty ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// ExtractDataRows returns the trimmed, non-empty rows starting at the
// 1-based dataStartRow. A non-positive dataStartRow means "right after
// the headers". Shared by the XLSX reader.
func ExtractDataRows(allRows [][]string, dataStartRow, headerRows int) []types.Row {
	startIndex := dataStartRow - 1
	if startIndex < 0 {
		startIndex = max(headerRows, 0)
	}

	rows := make([]types.Row, 0, max(len(allRows)-startIndex, 0))
	for rowIndex := startIndex; rowIndex < len(allRows); rowIndex++ {
		row := allRows[rowIndex]
		if isRowEmpty(row) {
			continue
		}

		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, types.Row{Number: rowIndex + 1, Cells: cells})
	}
	return rows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
