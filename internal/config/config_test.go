package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMainConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "master_output: "+filepath.Join(dir, "out", "m.pdf")+"\narchive_output: "+filepath.Join(dir, "a.zip")+"\n")

	cfg, err := LoadMainConfig(path, false)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultColumns(), cfg.Columns)
	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)
	assert.Equal(t, 2, cfg.CSVSettings.DataStartRow)
	assert.Equal(t, 8.5, cfg.Page.WidthIn)
	assert.Equal(t, 11.0, cfg.Page.HeightIn)
	assert.NotEmpty(t, cfg.ShipDateLayouts)
	assert.DirExists(t, filepath.Join(dir, "out"))
}

func TestLoadMainConfigMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := LoadMainConfig("nope.yaml", false)
	assert.Error(t, err)

	cfg, err := LoadMainConfig("nope.yaml", true)
	require.NoError(t, err)
	assert.Equal(t, "Missing Report.pdf", cfg.MasterOutput)
	assert.Equal(t, "promo.zip", cfg.ArchiveOutput)
}

func TestEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvTransactions, "tx.xlsx")
	t.Setenv(EnvDefinition, "promo.json")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadMainConfig(writeConfig(t, "transactions_file: other.csv\nlog_level: warn\n"), false)
	require.NoError(t, err)

	assert.Equal(t, "tx.xlsx", cfg.TransactionsFile)
	assert.Equal(t, "promo.json", cfg.DefinitionFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.RequireInputs())
}

func TestValidateRejects(t *testing.T) {
	chdir(t, t.TempDir())

	tests := map[string]string{
		"bad level":         "log_level: loud\n",
		"duplicate columns": "columns: {ship_date: 1, customer_name: 1}\n",
		"unknown field":     "normalization: [{field: colour, actions: [{type: trim}]}]\n",
		"bad margins":       "page: {margin_side: 5}\n",
		"bad data start":    "csv_settings: {header_rows: 3, data_start_row: 2}\n",
		"unparseable":       "columns: [\n",
	}
	for name, body := range tests {
		_, err := LoadMainConfig(writeConfig(t, body), false)
		assert.Error(t, err, name)
	}
}

func TestRequireInputs(t *testing.T) {
	assert.Error(t, (&MainConfig{}).RequireInputs())
	assert.Error(t, (&MainConfig{TransactionsFile: "x"}).RequireInputs())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
