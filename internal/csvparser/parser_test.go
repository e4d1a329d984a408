package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
)

func TestParseReader(t *testing.T) {
	data := "Ship Date,Customer\n" +
		" 1/2/2023 , Acme ,42\n" +
		",,\n" +
		"1/3/2023,\"Bob, Inc\"\n"

	sheet, err := ParseReader(strings.NewReader(data), config.CSVSettings{Delimiter: ",", HeaderRows: 1, DataStartRow: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ship Date", "Customer"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, 2, sheet.Rows[0].Number)
	assert.Equal(t, []string{"1/2/2023", "Acme", "42"}, sheet.Rows[0].Cells)
	assert.Equal(t, 4, sheet.Rows[1].Number)
	assert.Equal(t, "Bob, Inc", sheet.Rows[1].Cell(1))
	assert.Equal(t, "", sheet.Rows[1].Cell(5))
}

func TestParseReaderMultiLineHeaderAndPipe(t *testing.T) {
	data := "Ship||Part\nDate|Customer|Number\nreport generated today\nd|c|p\n"

	sheet, err := ParseReader(strings.NewReader(data), config.CSVSettings{Delimiter: "pipe", HeaderRows: 2, DataStartRow: 4})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ship Date", "Customer", "Part Number"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, []string{"d", "c", "p"}, sheet.Rows[0].Cells)
}

func TestParseReaderEmpty(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), config.CSVSettings{HeaderRows: 1, DataStartRow: 2})
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\tx\nv\tw\n"), 0o644))

	sheet, err := Parse(path, config.CSVSettings{Delimiter: "tab", HeaderRows: 1, DataStartRow: 2})
	require.NoError(t, err)
	assert.Equal(t, path, sheet.SourceFile)
	assert.Equal(t, "w", sheet.Rows[0].Cell(1))

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), config.CSVSettings{})
	assert.Error(t, err)
}
