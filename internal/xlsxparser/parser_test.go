package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Ship Date", "Customer", "Order", "Qty", "Part"},
		{"1/2/2023", "Acme", "100", 3, "A1"},
		{},
		{"1/5/2023", "Bob", "101", 1, "B1"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A2", "only"))

	path := filepath.Join(t.TempDir(), "tx.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse(t *testing.T) {
	path := writeWorkbook(t)

	sheet, err := Parse(path, "", config.CSVSettings{HeaderRows: 1, DataStartRow: 2})
	require.NoError(t, err)

	assert.Equal(t, path, sheet.SourceFile)
	assert.Equal(t, "Ship Date", sheet.Headers[0])
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{"1/2/2023", "Acme", "100", "3", "A1"}, sheet.Rows[0].Cells)
	assert.Equal(t, 4, sheet.Rows[1].Number)
}

func TestParseNamedSheet(t *testing.T) {
	path := writeWorkbook(t)

	sheet, err := Parse(path, "Other", config.CSVSettings{HeaderRows: 1, DataStartRow: 2})
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "only", sheet.Rows[0].Cell(0))

	_, err = Parse(path, "Missing", config.CSVSettings{HeaderRows: 1, DataStartRow: 2})
	assert.Error(t, err)
}
