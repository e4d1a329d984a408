package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/logging"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
)

const definitionJSON = `{
  "name": "Spring",
  "sections": [
    {"parts": [
      {"type": "or", "items": [
        {"qty_needed": 6, "part_numbers": ["A1", "A2"]},
        {"qty_needed": 4, "part_numbers": ["B1"]}
      ]},
      {"type": "and", "items": [
        {"qty_needed": 2, "part_numbers": ["C1", "A1"]}
      ]}
    ]}
  ]
}`

const transactionsCSV = `Ship Date,Customer,Order,Qty,Part,Description,Price
1/3/2023,Acme,100,4,A1,Widget,10.00
1/2/2023,Acme,101,3,a2,Widget,10.00
1/5/2023,Bob,102,1,Z9,Other,1.00
1/6/2023,Acme,103,2.4,C1,Gadget,5.00
`

func writeInputs(t *testing.T, definition, transactions string) *config.MainConfig {
	t.Helper()
	dir := t.TempDir()
	defPath := filepath.Join(dir, "promo.json")
	txPath := filepath.Join(dir, "tx.csv")
	require.NoError(t, os.WriteFile(defPath, []byte(definition), 0o644))
	require.NoError(t, os.WriteFile(txPath, []byte(transactions), 0o644))

	return &config.MainConfig{
		TransactionsFile: txPath,
		DefinitionFile:   defPath,
		CSVSettings:      config.CSVSettings{Delimiter: ",", HeaderRows: 1, DataStartRow: 2},
		Columns:          config.DefaultColumns(),
		Normalization: []config.TransformationRule{
			{Field: "part_number", Actions: []config.TransformationAction{{Type: "uppercase"}}},
		},
	}
}

func TestLoad(t *testing.T) {
	cfg := writeInputs(t, definitionJSON, transactionsCSV)

	book, err := Load(cfg, logging.Nop{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme", "Bob"}, book.Customers())

	acme := book["Acme"]
	require.Len(t, acme.Sections, 1)
	parts := acme.Sections[0].Parts()
	require.Len(t, parts, 2)

	a := parts[0].TypeProds()[0]
	assert.Equal(t, int64(7), a.TotalQty, "A1 + normalized a2")
	assert.Len(t, a.Found, 2)
	assert.Equal(t, "A2", a.Found[1].PartNumber)

	assert.Equal(t, int64(0), parts[0].TypeProds()[1].TotalQty)

	// A1 also counts toward the second part; 2.4 rounds to 2
	c := parts[1].TypeProds()[0]
	assert.Equal(t, int64(6), c.TotalQty)
	assert.Equal(t, promo.And(), parts[1].Join())

	assert.Equal(t, 1, acme.Sections[0].TimesQualified())

	bob := book["Bob"]
	assert.Equal(t, 0, bob.Sections[0].TimesQualified())
	assert.Empty(t, bob.Sections[0].Parts()[0].TypeProds()[0].Found)
}

func TestLoadRejectsInvalidDefinition(t *testing.T) {
	cfg := writeInputs(t, `{"sections": [{"parts": [{"type": "or", "items": [{"qty_needed": 0, "part_numbers": ["A"]}]}]}]}`, transactionsCSV)

	_, err := Load(cfg, logging.Nop{})
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func TestLoadRejectsBadInputs(t *testing.T) {
	tests := map[string]func(cfg *config.MainConfig){
		"unknown json field": func(cfg *config.MainConfig) {
			require.NoError(t, os.WriteFile(cfg.DefinitionFile, []byte(`{"sectons": []}`), 0o644))
		},
		"bad quantity": func(cfg *config.MainConfig) {
			require.NoError(t, os.WriteFile(cfg.TransactionsFile, []byte("h\n1/1/2023,Acme,1,lots,A1,x,1\n"), 0o644))
		},
		"unsupported extension": func(cfg *config.MainConfig) {
			cfg.TransactionsFile = "tx.json"
		},
		"missing input": func(cfg *config.MainConfig) {
			cfg.DefinitionFile = ""
		},
		"bad normalization": func(cfg *config.MainConfig) {
			cfg.Normalization = []config.TransformationRule{{Field: "part_number", Actions: []config.TransformationAction{{Type: "explode"}}}}
		},
	}

	for name, mutate := range tests {
		cfg := writeInputs(t, definitionJSON, transactionsCSV)
		mutate(cfg)
		_, err := Load(cfg, logging.Nop{})
		assert.ErrorIs(t, err, ErrMalformedSource, name)
	}
}

func TestNormalizer(t *testing.T) {
	rules := []config.TransformationRule{
		{Field: "part_number", Actions: []config.TransformationAction{
			{Type: "trim"},
			{Type: "regex_replace", Find: `^VND-`, Value: ""},
			{Type: "pad_zeros_to_length", Value: "5"},
			{Type: "prepend_string", Value: "P"},
		}},
		{Field: "customer_name", Actions: []config.TransformationAction{
			{Type: "lookup", LookupTable: map[string]string{"ACME CO": "Acme"}},
			{Type: "replace", Find: "_", Value: " "},
			{Type: "append_string", Value: "!"},
		}},
	}
	n, err := NewNormalizer(rules, config.DefaultColumns())
	require.NoError(t, err)

	in := []string{"d", "ACME CO", "o", "q", " VND-42 "}
	out := n.Apply(in)
	assert.Equal(t, []string{"d", "Acme!", "o", "q", "P00042"}, out)
	assert.Equal(t, " VND-42 ", in[4], "input is not modified")

	// short rows are left alone
	assert.Equal(t, []string{"d"}, n.Apply([]string{"d"}))

	_, err = NewNormalizer([]config.TransformationRule{{Field: "nope"}}, config.DefaultColumns())
	assert.Error(t, err)
	_, err = NewNormalizer([]config.TransformationRule{{Field: "quantity", Actions: []config.TransformationAction{{Type: "regex_replace", Find: "("}}}}, config.DefaultColumns())
	assert.Error(t, err)
}
