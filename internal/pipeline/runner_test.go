package pipeline

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/logging"
	"github.com/ginjaninja78/promo-missing-report/internal/report"
	"github.com/ginjaninja78/promo-missing-report/internal/source"
)

const definitionJSON = `{
  "name": "Spring",
  "sections": [
    {"parts": [{"type": "or", "items": [{"qty_needed": 6, "part_numbers": ["A1", "A2"]}]}]},
    {"parts": [{"type": "and", "items": [{"qty_needed": 50, "part_numbers": ["B1"]}]}]}
  ]
}`

const transactionsCSV = `Ship Date,Customer,Order,Qty,Part,Description,Price
1/3/2023,Acme,100,4,A1,Widget,10.00
1/2/2023,Acme,101,3,A2,Widget,10.00
1/5/2023,Bob,102,1,B1,Bolt,1.00
`

func loadConfig(t *testing.T, definition string) (*config.MainConfig, string) {
	t.Helper()
	dir := t.TempDir()
	defPath := filepath.Join(dir, "promo.json")
	txPath := filepath.Join(dir, "tx.csv")
	require.NoError(t, os.WriteFile(defPath, []byte(definition), 0o644))
	require.NoError(t, os.WriteFile(txPath, []byte(transactionsCSV), 0o644))

	yaml := fmt.Sprintf(`transactions_file: %q
definition_file: %q
master_output: %q
archive_output: %q
summary_dir: %q
`, txPath, defPath,
		filepath.Join(dir, "out", "Missing Report.pdf"),
		filepath.Join(dir, "out", "promo.zip"),
		filepath.Join(dir, "logs"))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	cfg, err := config.LoadMainConfig(cfgPath, false)
	require.NoError(t, err)
	return cfg, dir
}

func TestRun(t *testing.T) {
	cfg, _ := loadConfig(t, definitionJSON)

	result := New(cfg, logging.Nop{}, "run1").Run()
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, cfg.MasterOutput, result.MasterFile)
	assert.Equal(t, cfg.ArchiveOutput, result.ArchiveFile)

	master, err := os.ReadFile(result.MasterFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(master, []byte("%PDF-1.5")))

	zr, err := zip.OpenReader(result.ArchiveFile)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"Missing_Reports/Acme Missing Report.pdf",
		"Acme/Promo#0.pdf",
		"Missing_Reports/Bob Missing Report.pdf",
	}, names)

	assert.Equal(t, 2, result.Stats.Customers)
	assert.Equal(t, 1, result.Stats.QualifiedPromos)
	assert.Equal(t, 3, result.Stats.ArchiveEntries)
	assert.Empty(t, result.Stats.Failed)

	require.NotEmpty(t, result.SummaryFile)
	summary, err := os.ReadFile(result.SummaryFile)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Run ID:         run1")
	assert.Contains(t, string(summary), "Status:         SUCCESS")
}

func TestRunDeterministic(t *testing.T) {
	cfg, _ := loadConfig(t, definitionJSON)
	runner := New(cfg, nil, "a")

	require.True(t, runner.Run().Success)
	first, err := os.ReadFile(cfg.ArchiveOutput)
	require.NoError(t, err)

	require.True(t, runner.Run().Success)
	second, err := os.ReadFile(cfg.ArchiveOutput)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunFailureLeavesNoOutputs(t *testing.T) {
	cfg, dir := loadConfig(t, `{"sections": []}`)

	result := New(cfg, logging.Nop{}, "bad").Run()
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, source.ErrMalformedSource)
	assert.Empty(t, result.MasterFile)

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	summary, err := os.ReadFile(result.SummaryFile)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Status:         FAILED")
}

func TestWriteSummary(t *testing.T) {
	cfg, _ := loadConfig(t, definitionJSON)

	var buf bytes.Buffer
	require.NoError(t, New(cfg, nil, "").WriteSummary(&buf))
	lines := strings.Split(buf.String(), "\r\n")
	assert.Equal(t, "For Customer: Acme", lines[0])
	assert.Contains(t, buf.String(), "For Customer: Bob\r\n")
}

func TestWriteCustomer(t *testing.T) {
	cfg, _ := loadConfig(t, definitionJSON)
	runner := New(cfg, nil, "")

	var buf bytes.Buffer
	require.NoError(t, runner.WriteCustomer("Bob", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	err := runner.WriteCustomer("Nobody", &buf)
	assert.ErrorIs(t, err, report.ErrUnknownCustomer)
	assert.Zero(t, buf.Len())
}
