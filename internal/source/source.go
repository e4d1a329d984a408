// =============================================================================
// Promo Missing Report - Data Source
// =============================================================================
//
// Builds the promotion book from the two run inputs:
//
//   definition (JSON)      sections -> parts -> items (qty + part numbers)
//   transactions (.csv/.xlsx)  one row per shipped order line
//
// Every customer in the export gets a copy of the promotion. Each row is
// credited to every item of that customer's copy that lists the row's part
// number, and kept on the item for the detail listings.
//
// Any problem here is an ingestion error: the run stops before any document
// is built.
//
// =============================================================================

package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
	"github.com/ginjaninja78/promo-missing-report/internal/csvparser"
	"github.com/ginjaninja78/promo-missing-report/internal/logging"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
	"github.com/ginjaninja78/promo-missing-report/internal/types"
	"github.com/ginjaninja78/promo-missing-report/internal/validation"
	"github.com/ginjaninja78/promo-missing-report/internal/xlsxparser"
)

// ErrMalformedSource marks every ingestion failure.
var ErrMalformedSource = errors.New("malformed source data")

// Inputs is everything read from disk for one run.
type Inputs struct {
	Definition *types.Definition
	Sheet      *types.Sheet
	Validation *validation.ValidationResult
}

// LoadDefinition reads and decodes a promotion definition file.
func LoadDefinition(path string) (*types.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read definition: %v", ErrMalformedSource, err)
	}

	var def types.Definition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: failed to parse definition %s: %v", ErrMalformedSource, path, err)
	}
	return &def, nil
}

// LoadSheet reads the transaction export, choosing the reader by extension.
func LoadSheet(cfg *config.MainConfig) (*types.Sheet, error) {
	var (
		sheet *types.Sheet
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(cfg.TransactionsFile)); ext {
	case ".csv", ".txt":
		sheet, err = csvparser.Parse(cfg.TransactionsFile, cfg.CSVSettings)
	case ".xlsx", ".xlsm":
		sheet, err = xlsxparser.Parse(cfg.TransactionsFile, cfg.XLSXSheet, cfg.CSVSettings)
	default:
		return nil, fmt.Errorf("%w: unsupported transactions file type %q", ErrMalformedSource, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, cfg.TransactionsFile, err)
	}
	return sheet, nil
}

// LoadInputs reads both inputs, normalizes the export and validates them.
// The returned Inputs carry the validation result even when it failed.
func LoadInputs(cfg *config.MainConfig, logger logging.Logger) (*Inputs, error) {
	if err := cfg.RequireInputs(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	def, err := LoadDefinition(cfg.DefinitionFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded definition %q with %d sections", def.Name, len(def.Sections))

	sheet, err := LoadSheet(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("Read %d transaction rows from %s", len(sheet.Rows), cfg.TransactionsFile)

	norm, err := NewNormalizer(cfg.Normalization, cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	for i := range sheet.Rows {
		sheet.Rows[i].Cells = norm.Apply(sheet.Rows[i].Cells)
	}

	result := validation.ValidateDefinition(def)
	result.Merge(validation.ValidateRows(sheet, cfg.Columns))

	return &Inputs{Definition: def, Sheet: sheet, Validation: result}, nil
}

// Load reads, validates and builds the promotion book.
func Load(cfg *config.MainConfig, logger logging.Logger) (promo.Book, error) {
	in, err := LoadInputs(cfg, logger)
	if err != nil {
		return nil, err
	}

	for _, e := range in.Validation.Errors {
		if e.Severity == validation.SeverityWarning {
			logger.Warn("%s", e.Error())
		}
	}
	if !in.Validation.IsValid {
		for _, e := range in.Validation.Errors {
			if e.Severity == validation.SeverityError {
				logger.Error("%s", e.Error())
			}
		}
		return nil, fmt.Errorf("%w: %d validation errors", ErrMalformedSource, in.Validation.ErrorCount)
	}

	book, err := BuildBook(in.Definition, in.Sheet, cfg.Columns)
	if err != nil {
		return nil, err
	}
	logger.Info("Built promotion book for %d customers", len(book))
	return book, nil
}

// itemRef locates one item in the definition.
type itemRef struct{ section, part, item int }

// BuildBook credits the rows of sheet against a copy of def per customer.
// The inputs are expected to have passed validation.
func BuildBook(def *types.Definition, sheet *types.Sheet, columns config.Columns) (promo.Book, error) {
	joins := make([][]promo.AndOrType, len(def.Sections))
	index := map[string][]itemRef{}
	for s, section := range def.Sections {
		joins[s] = make([]promo.AndOrType, len(section.Parts))
		for p, part := range section.Parts {
			join, err := promo.ParseAndOrType(part.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: section %d part %d: %v", ErrMalformedSource, s+1, p+1, err)
			}
			joins[s][p] = join
			for i, item := range part.Items {
				for _, pn := range uniq(item.PartNumbers) {
					index[pn] = append(index[pn], itemRef{s, p, i})
				}
			}
		}
	}

	// per customer, per item: credited quantity and matched rows
	type credit struct {
		total int64
		found []promo.Transaction
	}
	credits := map[string]map[itemRef]*credit{}

	for _, row := range sheet.Rows {
		tx := promo.Transaction{
			ShipDate:    row.Cell(columns.ShipDate),
			Customer:    row.Cell(columns.CustomerName),
			OrderNumber: row.Cell(columns.OrderNumber),
			Quantity:    row.Cell(columns.Quantity),
			PartNumber:  row.Cell(columns.PartNumber),
			Description: row.Cell(columns.Description),
			SalePrice:   row.Cell(columns.SalePrice),
		}
		if tx.Customer == "" {
			return nil, fmt.Errorf("%w: row %d has no customer", ErrMalformedSource, row.Number)
		}

		qty, err := validation.ParseQuantity(tx.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: quantity %q is not a number", ErrMalformedSource, row.Number, tx.Quantity)
		}

		byItem, ok := credits[tx.Customer]
		if !ok {
			byItem = map[itemRef]*credit{}
			credits[tx.Customer] = byItem
		}
		for _, ref := range index[tx.PartNumber] {
			c, ok := byItem[ref]
			if !ok {
				c = &credit{}
				byItem[ref] = c
			}
			c.total += qty.Round(0).IntPart()
			c.found = append(c.found, tx)
		}
	}

	book := promo.Book{}
	for customer, byItem := range credits {
		p := &promo.Promotion{Customer: customer}
		for s, section := range def.Sections {
			parts := make([]promo.Part, len(section.Parts))
			for pi, part := range section.Parts {
				lines := make([]promo.TypeProd, len(part.Items))
				for i, item := range part.Items {
					lines[i] = promo.TypeProd{
						QtyNeeded:   item.QtyNeeded,
						PartNumbers: append([]string(nil), item.PartNumbers...),
					}
					if c, ok := byItem[itemRef{s, pi, i}]; ok {
						lines[i].TotalQty = c.total
						lines[i].Found = c.found
					}
				}
				parts[pi] = promo.NewPart(joins[s][pi], lines)
			}
			p.Sections = append(p.Sections, promo.NewSection(parts))
		}
		book[customer] = p
	}
	return book, nil
}

func uniq(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
