package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/promo-missing-report/internal/layout"
	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
	"github.com/ginjaninja78/promo-missing-report/internal/promo"
)

// DetailHeader is the column header of a detail listing.
var DetailHeader = []string{
	"Ship Date", "Customer Name", "Order Number", "Qty",
	"Part Number", "Part Number Description", "Sale Price",
}

var (
	detailColumns = []float64{10, 20, 12, 4, 11, 25, 9}
	detailTypes   = []layout.CellType{
		layout.CellString, layout.CellString, layout.CellString,
		layout.CellNumber(2),
		layout.CellString, layout.CellString,
		layout.CellCurrency(2),
	}
	zeroEpsilon = decimal.New(1, -4)
)

type detailTable struct {
	rows  []promo.Transaction
	total decimal.Decimal
}

// RenderDetail lists the transactions credited to one section, one table
// per requirement line. Lines whose quantities sum to zero are left out.
func (c *Composer) RenderDetail(customer string, section *promo.PromoSection) (layout.Result, error) {
	var tables []detailTable
	for _, part := range section.Parts() {
		for _, tp := range part.TypeProds() {
			total, err := sumQuantities(tp.Found)
			if err != nil {
				return layout.Result{}, err
			}
			if total.Abs().LessThan(zeroEpsilon) {
				continue
			}
			tables = append(tables, detailTable{rows: c.sortByShipDate(tp.Found), total: total})
		}
	}

	st := c.newState()
	m := st.m
	line := c.inches(0.27)

	if err := m.Reserve(layout.Cols(2, 50), false).SetHeight(line).Draw(layout.NewTextBox("Promotion for: "+customer, 10)); err != nil {
		return layout.Result{}, err
	}
	qualified := fmt.Sprintf("Times Qualified: %d", section.TimesQualified())
	if err := m.Reserve(layout.Cols(2, 20), false).SetHeight(line).Draw(layout.NewTextBox(qualified, 10)); err != nil {
		return layout.Result{}, err
	}
	m.Reserve(layout.Cols(0, 50), false).SetHeight(line).Skip()

	for i, dt := range tables {
		rows := make([]layout.Row, len(dt.rows))
		for j, tx := range dt.rows {
			rows[j] = layout.Row{Cells: tx.Fields()}
		}
		table := layout.Table{
			Columns:     detailColumns,
			Header:      DetailHeader,
			HeaderFont:  12,
			ItemFont:    10,
			Types:       detailTypes,
			Rows:        rows,
			Border:      layout.BorderStyle{Inner: 1.4, Outer: 1.4},
			BorderColor: pdf.Black,
			Group:       layout.NoGroup,
		}
		if err := m.Reserve(layout.Cols(2, 93), false).Draw(table); err != nil {
			return layout.Result{}, err
		}

		total := layout.NewTextBox("Total Quantity: "+dt.total.String(), 14)
		total.Align = layout.AlignRight
		if err := m.Reserve(layout.Cols(2, 48), false).SetHeight(line).Draw(total); err != nil {
			return layout.Result{}, err
		}

		if i < len(tables)-1 {
			m.Reserve(layout.Cols(0, 50), false).SetHeight(line).Skip()
		}
	}

	return c.finish(st), nil
}

func sumQuantities(rows []promo.Transaction) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range rows {
		q, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(tx.Quantity, ",", "")))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: order %s part %s: %q", ErrInvalidQuantity, tx.OrderNumber, tx.PartNumber, tx.Quantity)
		}
		sum = sum.Add(q)
	}
	return sum, nil
}

// sortByShipDate returns a copy of rows in ascending ship-date order. Two
// dates that both parse are compared as times, otherwise as strings. Equal
// dates keep their export order.
func (c *Composer) sortByShipDate(rows []promo.Transaction) []promo.Transaction {
	type keyed struct {
		tx     promo.Transaction
		at     time.Time
		parsed bool
	}
	ks := make([]keyed, len(rows))
	for i, tx := range rows {
		at, ok := c.parseDate(tx.ShipDate)
		ks[i] = keyed{tx: tx, at: at, parsed: ok}
	}

	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].parsed && ks[j].parsed {
			return ks[i].at.Before(ks[j].at)
		}
		return ks[i].tx.ShipDate < ks[j].tx.ShipDate
	})

	out := make([]promo.Transaction, len(ks))
	for i, k := range ks {
		out[i] = k.tx
	}
	return out
}

func (c *Composer) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range c.DateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
