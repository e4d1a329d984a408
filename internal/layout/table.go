package layout

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/promo-missing-report/internal/pdf"
)

// ===== CELL TYPES =====

type cellKind int

const (
	kindString cellKind = iota
	kindNumber
	kindCurrency
)

// CellType controls how a column's raw values are displayed.
type CellType struct {
	kind     cellKind
	decimals int32
}

var CellString = CellType{kind: kindString}

func CellNumber(decimals int32) CellType   { return CellType{kind: kindNumber, decimals: decimals} }
func CellCurrency(decimals int32) CellType { return CellType{kind: kindCurrency, decimals: decimals} }

var printer = message.NewPrinter(language.English)

// Format renders a raw value. Values that are not numbers are shown as-is.
func (c CellType) Format(raw string) string {
	if c.kind == kindString {
		return raw
	}
	clean := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	clean = strings.ReplaceAll(clean, ",", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return raw
	}
	d = d.Round(c.decimals)
	s := groupDigits(d.Abs().StringFixed(c.decimals))
	if c.kind == kindCurrency {
		s = "$" + s
	}
	if d.IsNegative() {
		s = "-" + s
	}
	return s
}

// groupDigits inserts thousands separators into the integer part of a fixed
// decimal string. The fraction digits are kept as they are.
func groupDigits(fixed string) string {
	whole, frac, hasFrac := strings.Cut(fixed, ".")
	if len(whole) <= maxGroupedDigits {
		var n int64
		for _, r := range whole {
			n = n*10 + int64(r-'0')
		}
		whole = printer.Sprintf("%d", n)
	}
	if hasFrac {
		return whole + "." + frac
	}
	return whole
}

// maxGroupedDigits keeps the integer part within int64.
const maxGroupedDigits = 18

func (c CellType) numeric() bool { return c.kind != kindString }

// ===== TABLE =====

// BorderStyle gives the stroke widths of cell borders and of the outline.
type BorderStyle struct {
	Inner float64
	Outer float64
}

// Row is one table row. A merged row spans every column with its first cell.
type Row struct {
	Cells     []string
	Merged    bool
	Highlight *pdf.Color
	Align     Align
}

// Table is a grid of rows. Column widths are relative and stretched over
// the placement's column range. Rows never split; a row that does not fit
// moves to the next page, and the header is repeated there.
type Table struct {
	Columns      []float64
	Header       []string
	HeaderFont   float64
	ItemFont     float64
	Types        []CellType
	Rows         []Row
	Border       BorderStyle
	HeaderBorder bool
	BorderColor  pdf.Color
	Group        int
}

func rowHeight(font float64) float64 { return font + 8 }

func (t Table) draw(p *Placement) error {
	m := p.m
	x0, x1 := m.xSpan(p.rng)

	var total float64
	for _, w := range t.Columns {
		total += w
	}
	if total <= 0 {
		return nil
	}
	edges := make([]float64, len(t.Columns)+1)
	edges[0] = x0
	for i, w := range t.Columns {
		edges[i+1] = edges[i] + (x1-x0)*w/total
	}

	itemH := rowHeight(t.ItemFont)
	headerH := 0.0
	if len(t.Header) > 0 {
		headerH = rowHeight(t.HeaderFont)
	}

	var segTop float64
	segOpen := false

	open := func() {
		if !m.fits(headerH + itemH) {
			m.breakPage()
		}
		segTop = m.top()
		segOpen = true
		if len(t.Header) > 0 {
			t.drawRow(m, Row{Cells: t.Header}, edges, t.HeaderFont, headerH, t.HeaderBorder, nil)
		}
	}
	closeSeg := func() {
		if segOpen && t.Border.Outer > 0 {
			r := Rect{X: x0, Y: m.top(), W: x1 - x0, H: segTop - m.top()}
			m.record(Border{Rect: r, Width: t.Border.Outer, Color: t.BorderColor, Group: t.Group})
		}
		segOpen = false
	}

	for _, row := range t.Rows {
		if segOpen && !m.fits(itemH) {
			closeSeg()
			m.breakPage()
		}
		if !segOpen {
			open()
		}
		t.drawRow(m, row, edges, t.ItemFont, itemH, t.Border.Inner > 0, t.Types)
	}
	if !segOpen && len(t.Header) > 0 {
		open()
	}
	closeSeg()
	return nil
}

// drawRow draws one row at the cursor and advances it.
func (t Table) drawRow(m *Manager, row Row, edges []float64, font, h float64, bordered bool, types []CellType) {
	y := m.top() - h
	left, right := edges[0], edges[len(edges)-1]

	textColor := pdf.Black
	if row.Highlight != nil {
		m.emit(
			pdf.SaveState(),
			pdf.FillColor(*row.Highlight),
			pdf.Rectangle(left, y, right-left, h),
			pdf.Fill(),
			pdf.RestoreState(),
		)
		textColor = pdf.Color{R: 1, G: 1, B: 1}
	}

	if row.Merged {
		if len(row.Cells) > 0 {
			drawText(m, row.Cells[0], font, row.Align, textColor, left, right, y, h)
		}
		if bordered {
			m.record(Border{Rect: Rect{X: left, Y: y, W: right - left, H: h}, Width: t.Border.Inner, Color: t.BorderColor, Group: t.Group})
		}
		m.cursor += h
		return
	}

	for i := 0; i+1 < len(edges); i++ {
		cell := ""
		if i < len(row.Cells) {
			cell = row.Cells[i]
		}
		align := row.Align
		if i < len(types) {
			cell = types[i].Format(cell)
			if types[i].numeric() {
				align = AlignRight
			}
		}
		drawText(m, cell, font, align, textColor, edges[i], edges[i+1], y, h)
		if bordered {
			m.record(Border{Rect: Rect{X: edges[i], Y: y, W: edges[i+1] - edges[i], H: h}, Width: t.Border.Inner, Color: t.BorderColor, Group: t.Group})
		}
	}
	m.cursor += h
}
