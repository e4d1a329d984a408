// =============================================================================
// Promo Missing Report - XLSX Parser
// =============================================================================
//
// This module reads transaction exports saved as Excel workbooks. The sheet
// is read as plain cell text (what Excel displays), so quantities and prices
// keep the formatting of the export and are parsed later.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/csvparser"
	"github.com/ginjaninja78/promo-missing-report/internal/types"
)

// Parse reads one worksheet of an XLSX file into a Sheet.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - sheetName: The worksheet to read; empty selects the first sheet.
//   - settings: Header and data start rows, shared with the CSV reader.
//
// RETURNS:
//   - The parsed sheet.
//   - An error if the file or sheet cannot be read.
func Parse(filePath, sheetName string, settings config.CSVSettings) (*types.Sheet, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := ParseFile(f, sheetName, settings)
	if err != nil {
		return nil, err
	}
	sheet.SourceFile = filePath
	return sheet, nil
}

// ParseFile reads one worksheet of an open workbook.
func ParseFile(f *excelize.File, sheetName string, settings config.CSVSettings) (*types.Sheet, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook has no sheet %q", sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	sheet := &types.Sheet{
		Rows: csvparser.ExtractDataRows(rows, settings.DataStartRow, settings.HeaderRows),
	}
	if settings.HeaderRows > 0 && len(rows) > 0 {
		sheet.Headers = append([]string(nil), rows[0]...)
	}
	return sheet, nil
}
